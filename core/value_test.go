package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueArithmeticRequiresNumbers(t *testing.T) {
	_, err := BoolValue(true).Add(ScalarValue(1))
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, KindNumber, typeErr.Expected)
	assert.Equal(t, KindBoolean, typeErr.Got)

	_, err = ScalarValue(1).Add(StringValue("x"))
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, KindString, typeErr.Got)
}

func TestValueLogicalRequiresBooleans(t *testing.T) {
	_, err := ScalarValue(1).And(BoolValue(true))
	var typeErr *TypeError
	assert.ErrorAs(t, err, &typeErr)

	v, err := BoolValue(true).And(BoolValue(false))
	require.NoError(t, err)
	assert.False(t, v.Bool())

	v, err = BoolValue(false).Or(BoolValue(true))
	require.NoError(t, err)
	assert.True(t, v.Bool())

	v, err = BoolValue(false).Not()
	require.NoError(t, err)
	assert.True(t, v.Bool())
}

func TestStringValuesSupportOnlyEquality(t *testing.T) {
	eq, err := StringValue("al").Compare(CompareEq, StringValue("al"))
	require.NoError(t, err)
	assert.True(t, eq.Bool())

	ne, err := StringValue("al").Compare(CompareNe, StringValue("cu"))
	require.NoError(t, err)
	assert.True(t, ne.Bool())

	_, err = StringValue("al").Compare(CompareLt, StringValue("cu"))
	var typeErr *TypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestValueBar(t *testing.T) {
	// two scalars in the same unit become an interval
	a := NumberValue(NewMeasured(Scalar(10), meters()))
	b := NumberValue(NewMeasured(Scalar(15), meters()))

	v, err := a.Bar(b)
	require.NoError(t, err)
	num := v.Measured().Num
	assert.True(t, num.IsInterval())
	assert.Equal(t, 10.0, num.Min())
	assert.Equal(t, 15.0, num.Max())

	// intervals merge into the enclosing hull
	c := NumberValue(NewMeasured(IntervalNumber(1, 4), meters()))
	d := NumberValue(NewMeasured(IntervalNumber(3, 9), meters()))
	v, err = c.Bar(d)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Measured().Num.Min())
	assert.Equal(t, 9.0, v.Measured().Num.Max())

	// mixed scalar/interval promotes the scalar
	v, err = b.Bar(d)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.Measured().Num.Min())
	assert.Equal(t, 15.0, v.Measured().Num.Max())

	// units must match
	_, err = a.Bar(NumberValue(NewMeasured(Scalar(1), seconds())))
	var mismatch *UnitMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestValueComparisonYieldsBoolean(t *testing.T) {
	lt, err := ScalarValue(1).Compare(CompareLt, ScalarValue(2))
	require.NoError(t, err)
	assert.Equal(t, KindBoolean, lt.Kind())
	assert.True(t, lt.Bool())
}
