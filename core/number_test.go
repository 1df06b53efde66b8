package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarOpsStayScalar(t *testing.T) {
	a, b := Scalar(6), Scalar(3)

	assert.False(t, a.Add(b).IsInterval())
	assert.Equal(t, 9.0, a.Add(b).Scalar())
	assert.Equal(t, 3.0, a.Sub(b).Scalar())
	assert.Equal(t, 18.0, a.Mul(b).Scalar())

	q, err := a.Div(b)
	require.NoError(t, err)
	assert.False(t, q.IsInterval())
	assert.Equal(t, 2.0, q.Scalar())
}

func TestMixedOperandsPromote(t *testing.T) {
	s := Scalar(2)
	iv := IntervalNumber(1, 3)

	sum := s.Add(iv)
	assert.True(t, sum.IsInterval())
	assert.InDelta(t, 3, sum.Min(), testTol)
	assert.InDelta(t, 5, sum.Max(), testTol)
}

func TestNumberDivByScalarZero(t *testing.T) {
	_, err := Scalar(1).Div(Scalar(0))
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestNumberModRequiresScalarModulus(t *testing.T) {
	_, err := Scalar(7).Mod(IntervalNumber(1, 2))
	assert.ErrorIs(t, err, ErrNonScalarModulus)

	r, err := Scalar(7).Mod(Scalar(3))
	require.NoError(t, err)
	assert.InDelta(t, 1, r.Scalar(), testTol)
}

func TestNumberComparisons(t *testing.T) {
	a := IntervalNumber(1, 2)
	b := IntervalNumber(3, 4)
	c := IntervalNumber(1.5, 3.5)

	assert.True(t, a.Lt(b))
	assert.True(t, b.Gt(a))
	assert.False(t, a.Lt(c)) // overlapping: no definite ordering
	assert.False(t, c.Gt(a))

	assert.True(t, IntervalNumber(1, 2).Eq(IntervalNumber(1, 2)))
	assert.False(t, IntervalNumber(1, 2).Eq(IntervalNumber(1, 3)))
	assert.True(t, Scalar(1).Eq(Scalar(1+1e-13)))
}

func TestNumberContains(t *testing.T) {
	assert.True(t, IntervalNumber(1, 4).Contains(Scalar(2)))
	assert.True(t, IntervalNumber(1, 4).Contains(IntervalNumber(2, 3)))
	assert.False(t, IntervalNumber(1, 4).Contains(IntervalNumber(2, 5)))
	assert.True(t, Scalar(2).Contains(Scalar(2)))
}

func TestNumberEnclose(t *testing.T) {
	got := Scalar(5).Enclose(Scalar(2))
	assert.True(t, got.IsInterval())
	assert.Equal(t, 2.0, got.Min())
	assert.Equal(t, 5.0, got.Max())
}

func TestIsClose(t *testing.T) {
	assert.True(t, IsClose(1, 1))
	assert.True(t, IsClose(1e15, 1e15+1))
	assert.False(t, IsClose(1, 1.1))
	assert.False(t, IsClose(1, 1e300))
}
