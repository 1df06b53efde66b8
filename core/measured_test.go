package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasuredAddChecksUnits(t *testing.T) {
	kg := NewMeasured(Scalar(1), NewUnit(map[Dimension]float64{Mass: 1}))
	m := NewMeasured(Scalar(1), meters())

	_, err := kg.Add(m)
	var mismatch *UnitMismatchError
	require.ErrorAs(t, err, &mismatch)

	sum, err := m.Add(NewMeasured(Scalar(2), meters()))
	require.NoError(t, err)
	assert.InDelta(t, 3, sum.Num.Scalar(), testTol)
}

func TestMeasuredMulCombinesUnits(t *testing.T) {
	speed := NewMeasured(Scalar(10), meters().Div(seconds()))
	dur := NewMeasured(Scalar(5), seconds())

	dist := speed.Mul(dur)
	assert.InDelta(t, 50, dist.Num.Scalar(), testTol)
	assert.True(t, dist.Unit.Compatible(meters()))
}

func TestMeasuredPow(t *testing.T) {
	side := NewMeasured(Scalar(3), meters())
	two := NewMeasured(Scalar(2), Dimensionless())

	area, err := side.Pow(two)
	require.NoError(t, err)
	assert.InDelta(t, 9, area.Num.Scalar(), testTol)
	assert.True(t, area.Unit.Compatible(meters().Pow(2)))

	// side^side: the exponent carries a unit
	_, err = side.Pow(side)
	assert.ErrorIs(t, err, ErrNonScalarExponent)

	// interval exponents cannot collapse to a scalar
	_, err = side.Pow(NewMeasured(IntervalNumber(1, 2), Dimensionless()))
	assert.ErrorIs(t, err, ErrNonScalarExponent)
}

func TestFromSizedFoldsMagnitude(t *testing.T) {
	km := NewSizedUnit("km", 1000, meters())

	v := FromSized(Scalar(0.5), km)
	assert.InDelta(t, 500, v.Num.Scalar(), testTol)
	assert.True(t, v.Unit.Compatible(meters()))

	// round trip back to the display unit
	assert.InDelta(t, 0.5, v.InUnit(km).Scalar(), testTol)
}

func TestDBUnitsStoreLinear(t *testing.T) {
	dBW := &SizedUnit{Name: "dBW", Magnitude: 1, Unit: NewUnit(map[Dimension]float64{Mass: 1, Distance: 2, Time: -3}), DB: true}

	v := FromSized(Scalar(30), dBW)
	assert.InDelta(t, 1000, v.Num.Scalar(), 1e-6)

	assert.InDelta(t, 30, v.InUnit(dBW).Scalar(), testTol)
}

func TestMeasuredCompare(t *testing.T) {
	a := NewMeasured(Scalar(1), meters())
	b := NewMeasured(Scalar(2), meters())

	lt, err := a.Compare(CompareLt, b)
	require.NoError(t, err)
	assert.True(t, lt)

	_, err = a.Compare(CompareLt, NewMeasured(Scalar(2), seconds()))
	var mismatch *UnitMismatchError
	assert.ErrorAs(t, err, &mismatch)
}
