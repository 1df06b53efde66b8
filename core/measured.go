package core

import (
	"fmt"
	"math"
)

// MeasuredNumber pairs a number with a dimensional unit. The number is
// always stored in base units: the magnitude (and dB transform) of the
// display unit is folded in at construction, so 1 km and 1000 m hold
// the same stored value.
type MeasuredNumber struct {
	Num  Number
	Unit Unit
}

// NewMeasured builds a measured number already expressed in base units.
func NewMeasured(num Number, unit Unit) MeasuredNumber {
	return MeasuredNumber{Num: num, Unit: unit}
}

// FromSized converts a raw number in the given display unit to a
// base-unit measured number: dB values linearise first, then the
// magnitude folds in, so 30 dBm becomes 1000 mW becomes 1 W.
func FromSized(num Number, sized *SizedUnit) MeasuredNumber {
	v := num
	if sized.DB {
		v = dbToLinear(v)
	}
	v = v.MulScalar(sized.Magnitude)
	return MeasuredNumber{Num: v, Unit: sized.Unit}
}

// InUnit converts the stored base-unit number back into the given
// display unit. This is the inverse of FromSized.
func (m MeasuredNumber) InUnit(sized *SizedUnit) Number {
	v := m.Num.MulScalar(1 / sized.Magnitude)
	if sized.DB {
		v = linearToDB(v)
	}
	return v
}

func dbToLinear(v Number) Number {
	lo := math.Pow(10, v.Min()/10)
	hi := math.Pow(10, v.Max()/10)
	if !v.IsInterval() {
		return Scalar(lo)
	}
	return IntervalNumber(lo, hi)
}

func linearToDB(v Number) Number {
	lo := 10 * math.Log10(v.Min())
	hi := 10 * math.Log10(v.Max())
	if !v.IsInterval() {
		return Scalar(lo)
	}
	return IntervalNumber(lo, hi)
}

// Add adds two measured numbers with compatible units.
func (m MeasuredNumber) Add(other MeasuredNumber) (MeasuredNumber, error) {
	if !m.Unit.Compatible(other.Unit) {
		return MeasuredNumber{}, &UnitMismatchError{Left: m.Unit, Right: other.Unit}
	}
	return MeasuredNumber{Num: m.Num.Add(other.Num), Unit: m.Unit}, nil
}

// Sub subtracts two measured numbers with compatible units.
func (m MeasuredNumber) Sub(other MeasuredNumber) (MeasuredNumber, error) {
	if !m.Unit.Compatible(other.Unit) {
		return MeasuredNumber{}, &UnitMismatchError{Left: m.Unit, Right: other.Unit}
	}
	return MeasuredNumber{Num: m.Num.Sub(other.Num), Unit: m.Unit}, nil
}

// EscapedSub is the `--` operator over measured numbers.
func (m MeasuredNumber) EscapedSub(other MeasuredNumber) (MeasuredNumber, error) {
	if !m.Unit.Compatible(other.Unit) {
		return MeasuredNumber{}, &UnitMismatchError{Left: m.Unit, Right: other.Unit}
	}
	return MeasuredNumber{Num: m.Num.EscapedSub(other.Num), Unit: m.Unit}, nil
}

// Mul multiplies two measured numbers; units multiply pointwise.
func (m MeasuredNumber) Mul(other MeasuredNumber) MeasuredNumber {
	return MeasuredNumber{Num: m.Num.Mul(other.Num), Unit: m.Unit.Mul(other.Unit)}
}

// Div divides two measured numbers; units divide pointwise.
func (m MeasuredNumber) Div(other MeasuredNumber) (MeasuredNumber, error) {
	num, err := m.Num.Div(other.Num)
	if err != nil {
		return MeasuredNumber{}, err
	}
	return MeasuredNumber{Num: num, Unit: m.Unit.Div(other.Unit)}, nil
}

// EscapedDiv is the `//` operator over measured numbers.
func (m MeasuredNumber) EscapedDiv(other MeasuredNumber) (MeasuredNumber, error) {
	num, err := m.Num.EscapedDiv(other.Num)
	if err != nil {
		return MeasuredNumber{}, err
	}
	return MeasuredNumber{Num: num, Unit: m.Unit.Div(other.Unit)}, nil
}

// Mod reduces modulo a scalar right operand with a compatible unit.
func (m MeasuredNumber) Mod(other MeasuredNumber) (MeasuredNumber, error) {
	if !m.Unit.Compatible(other.Unit) {
		return MeasuredNumber{}, &UnitMismatchError{Left: m.Unit, Right: other.Unit}
	}
	num, err := m.Num.Mod(other.Num)
	if err != nil {
		return MeasuredNumber{}, err
	}
	return MeasuredNumber{Num: num, Unit: m.Unit}, nil
}

// Pow raises the measured number to the power of another. The unit of
// the result depends on the value of the exponent, so the exponent
// must collapse to a dimensionless scalar; anything else is a
// non-scalar-exponent error.
func (m MeasuredNumber) Pow(exp MeasuredNumber) (MeasuredNumber, error) {
	if !exp.Unit.IsDimensionless() {
		return MeasuredNumber{}, ErrNonScalarExponent
	}
	if exp.Num.IsInterval() {
		return MeasuredNumber{}, ErrNonScalarExponent
	}
	n := exp.Num.Scalar()
	num, err := m.Num.Pow(n)
	if err != nil {
		return MeasuredNumber{}, err
	}
	return MeasuredNumber{Num: num, Unit: m.Unit.Pow(n)}, nil
}

// Enclose is the `|` bar over measured numbers: the tightest interval
// containing both operands, which must share a unit.
func (m MeasuredNumber) Enclose(other MeasuredNumber) (MeasuredNumber, error) {
	if !m.Unit.Compatible(other.Unit) {
		return MeasuredNumber{}, &UnitMismatchError{Left: m.Unit, Right: other.Unit}
	}
	unit := m.Unit
	if unit.IsDimensionless() {
		unit = other.Unit
	}
	return MeasuredNumber{Num: m.Num.Enclose(other.Num), Unit: unit}, nil
}

// Neg negates the measured number.
func (m MeasuredNumber) Neg() MeasuredNumber {
	return MeasuredNumber{Num: m.Num.Neg(), Unit: m.Unit}
}

// Compare applies a definite interval comparison; units must match.
func (m MeasuredNumber) Compare(op CompareOp, other MeasuredNumber) (bool, error) {
	if !m.Unit.Compatible(other.Unit) {
		return false, &UnitMismatchError{Left: m.Unit, Right: other.Unit}
	}
	switch op {
	case CompareEq:
		return m.Num.Eq(other.Num), nil
	case CompareNe:
		return !m.Num.Eq(other.Num), nil
	case CompareLt:
		return m.Num.Lt(other.Num), nil
	case CompareLe:
		return m.Num.Le(other.Num), nil
	case CompareGt:
		return m.Num.Gt(other.Num), nil
	case CompareGe:
		return m.Num.Ge(other.Num), nil
	default:
		panic(fmt.Sprintf("unknown comparison operator %d", op))
	}
}

// String renders the measured number in base units.
func (m MeasuredNumber) String() string {
	if m.Unit.IsDimensionless() {
		return m.Num.String()
	}
	return m.Num.String() + " " + m.Unit.String()
}
