package core

import (
	"fmt"
	"math"
)

// Interval is a closed, connected range of reals [lo, hi] with
// lo <= hi. Endpoints may be infinite. The empty interval is
// represented by NaN endpoints and only arises from operations on
// other empty intervals, from multiplying by a Zero-class right
// operand, or from intersecting disjoint intervals.
type Interval struct {
	lo, hi float64
}

// NewInterval builds an interval. Inverted or NaN endpoints indicate a
// bug in the caller, not a user error, so they abort loudly.
func NewInterval(lo, hi float64) Interval {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		panic(fmt.Sprintf("interval endpoint is NaN: (%g, %g)", lo, hi))
	}
	if lo > hi {
		panic(fmt.Sprintf("interval endpoints inverted: (%g, %g)", lo, hi))
	}
	return Interval{lo: lo, hi: hi}
}

// EmptyInterval returns the empty interval.
func EmptyInterval() Interval {
	return Interval{lo: math.NaN(), hi: math.NaN()}
}

func (iv Interval) Lo() float64 { return iv.lo }
func (iv Interval) Hi() float64 { return iv.hi }

// IsEmpty reports whether the interval is the empty interval.
func (iv Interval) IsEmpty() bool {
	return math.IsNaN(iv.lo) && math.IsNaN(iv.hi)
}

// IsValid reports whether the interval is non-empty with ordered,
// non-NaN endpoints.
func (iv Interval) IsValid() bool {
	return !math.IsNaN(iv.lo) && !math.IsNaN(iv.hi) && iv.lo <= iv.hi
}

// Contains reports whether the other interval lies entirely within
// this one.
func (iv Interval) Contains(other Interval) bool {
	if iv.IsEmpty() || other.IsEmpty() {
		return false
	}
	return iv.lo <= other.lo && other.hi <= iv.hi
}

// ContainsPoint reports whether x lies within the interval.
func (iv Interval) ContainsPoint(x float64) bool {
	return !iv.IsEmpty() && iv.lo <= x && x <= iv.hi
}

// intervalClass is the sign classification used by the multiplication
// and division case tables.
type intervalClass int

const (
	classEmpty intervalClass = iota
	classPositive1               // lo > 0
	classPositive0               // lo = 0, hi > 0
	classZero                    // lo = hi = 0
	classMixed                   // lo < 0 < hi
	classNegative0               // lo < 0, hi = 0
	classNegative1               // hi < 0
)

func classify(iv Interval) intervalClass {
	switch {
	case iv.IsEmpty():
		return classEmpty
	case iv.lo > 0:
		return classPositive1
	case iv.lo == 0 && iv.hi > 0:
		return classPositive0
	case iv.lo == 0 && iv.hi == 0:
		return classZero
	case iv.lo < 0 && iv.hi > 0:
		return classMixed
	case iv.lo < 0 && iv.hi == 0:
		return classNegative0
	case iv.hi < 0:
		return classNegative1
	default:
		panic(fmt.Sprintf("unclassifiable interval: (%g, %g)", iv.lo, iv.hi))
	}
}

// outLo and outHi implement outward rounding: the host has no directed
// rounding mode, so computed endpoints are widened one ULP so that the
// inclusion property survives round-to-nearest arithmetic.

func outLo(x float64) float64 {
	if math.IsInf(x, 0) {
		return x
	}
	return math.Nextafter(x, math.Inf(-1))
}

func outHi(x float64) float64 {
	if math.IsInf(x, 0) {
		return x
	}
	return math.Nextafter(x, math.Inf(1))
}

func outward(lo, hi float64) Interval {
	return NewInterval(outLo(lo), outHi(hi))
}

// Neg negates the interval. Negation is exact, so no widening.
func (iv Interval) Neg() Interval {
	if iv.IsEmpty() {
		return iv
	}
	return Interval{lo: -iv.hi, hi: -iv.lo}
}

// Add adds two intervals endpoint-wise.
func (iv Interval) Add(other Interval) Interval {
	if iv.IsEmpty() || other.IsEmpty() {
		return EmptyInterval()
	}
	return outward(iv.lo+other.lo, iv.hi+other.hi)
}

// Sub subtracts per the standard formulation: [a,b]-[c,d] = [a-d, b-c].
func (iv Interval) Sub(other Interval) Interval {
	if iv.IsEmpty() || other.IsEmpty() {
		return EmptyInterval()
	}
	return outward(iv.lo-other.hi, iv.hi-other.lo)
}

// EscapedSub subtracts endpoints pointwise: [a-c, b-d]. This is the
// dependency-problem escape; it deliberately breaks the inclusion
// property so that x -- x = 0.
func (iv Interval) EscapedSub(other Interval) Interval {
	if iv.IsEmpty() || other.IsEmpty() {
		return EmptyInterval()
	}
	lo := iv.lo - other.lo
	hi := iv.hi - other.hi
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{lo: lo, hi: hi}
}

// EscapedDiv divides endpoints pointwise: [a/c, b/d]. Like EscapedSub
// this breaks inclusion so that x // x = 1.
func (iv Interval) EscapedDiv(other Interval) (Interval, error) {
	if iv.IsEmpty() || other.IsEmpty() {
		return EmptyInterval(), nil
	}
	if other.lo == 0 || other.hi == 0 {
		return Interval{}, ErrDivisionByZero
	}
	lo := iv.lo / other.lo
	hi := iv.hi / other.hi
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{lo: lo, hi: hi}, nil
}

// Mul multiplies two intervals via the sign-class case table
// (Hickey/Ju/van Emden). The cases are kept distinct so they can be
// checked against the published table.
func (iv Interval) Mul(other Interval) Interval {
	lhs, rhs := iv, other
	lc, rc := classify(lhs), classify(rhs)

	if lc == classEmpty || rc == classEmpty {
		return EmptyInterval()
	}
	if rc == classZero {
		return EmptyInterval()
	}
	if lc == classZero {
		return Interval{lo: 0, hi: 0}
	}

	switch {
	case (lc == classPositive1 || lc == classPositive0) && (rc == classPositive1 || rc == classPositive0):
		return outward(lhs.lo*rhs.lo, lhs.hi*rhs.hi)
	case (lc == classPositive1 || lc == classPositive0) && rc == classMixed:
		return outward(lhs.hi*rhs.lo, lhs.hi*rhs.hi)
	case lc == classPositive1 || lc == classPositive0:
		// rhs negative
		return outward(lhs.hi*rhs.lo, lhs.lo*rhs.hi)
	case lc == classMixed && (rc == classPositive1 || rc == classPositive0):
		return outward(lhs.lo*rhs.hi, lhs.hi*rhs.hi)
	case lc == classMixed && rc == classMixed:
		lo := math.Min(lhs.lo*rhs.hi, lhs.hi*rhs.lo)
		hi := math.Max(lhs.lo*rhs.lo, lhs.hi*rhs.hi)
		return outward(lo, hi)
	case lc == classMixed:
		// rhs negative
		return outward(lhs.hi*rhs.lo, lhs.lo*rhs.lo)
	case rc == classPositive1 || rc == classPositive0:
		// lhs negative
		return outward(lhs.lo*rhs.hi, lhs.hi*rhs.lo)
	case rc == classMixed:
		// lhs negative
		return outward(lhs.lo*rhs.hi, lhs.lo*rhs.lo)
	default:
		// both negative
		return outward(lhs.hi*rhs.hi, lhs.lo*rhs.lo)
	}
}

// Div divides two intervals via the sign-class case table. Division by
// the Zero class is an error; a Mixed divisor that straddles zero
// yields the least enclosing interval, closing the hole around zero to
// keep results connected.
func (iv Interval) Div(other Interval) (Interval, error) {
	lhs, rhs := iv, other
	lc, rc := classify(lhs), classify(rhs)

	if lc == classEmpty || rc == classEmpty {
		return EmptyInterval(), nil
	}
	if rc == classZero {
		return Interval{}, ErrDivisionByZero
	}
	if lc == classZero {
		return Interval{lo: 0, hi: 0}, nil
	}
	if rc == classMixed {
		return Interval{lo: math.Inf(-1), hi: math.Inf(1)}, nil
	}

	inf := math.Inf(1)
	switch {
	case lc == classPositive1 && rc == classPositive1:
		return outward(lhs.lo/rhs.hi, lhs.hi/rhs.lo), nil
	case lc == classPositive1 && rc == classPositive0:
		return NewInterval(outLo(lhs.lo/rhs.hi), inf), nil
	case lc == classPositive0 && rc == classPositive1:
		return NewInterval(0, outHi(lhs.hi/rhs.lo)), nil
	case lc == classPositive0 && rc == classPositive0:
		return NewInterval(0, inf), nil
	case lc == classMixed && rc == classPositive1:
		return outward(lhs.lo/rhs.lo, lhs.hi/rhs.lo), nil
	case lc == classMixed && rc == classPositive0:
		return NewInterval(-inf, inf), nil
	case lc == classNegative0 && rc == classPositive1:
		return NewInterval(outLo(lhs.lo/rhs.lo), 0), nil
	case lc == classNegative0 && rc == classPositive0:
		return NewInterval(-inf, 0), nil
	case lc == classNegative1 && rc == classPositive1:
		return outward(lhs.lo/rhs.lo, lhs.hi/rhs.hi), nil
	case lc == classNegative1 && rc == classPositive0:
		return NewInterval(-inf, outHi(lhs.hi/rhs.hi)), nil
	case lc == classPositive1 && rc == classNegative1:
		return outward(lhs.hi/rhs.hi, lhs.lo/rhs.lo), nil
	case lc == classPositive1 && rc == classNegative0:
		return NewInterval(-inf, outHi(lhs.lo/rhs.lo)), nil
	case lc == classPositive0 && rc == classNegative1:
		return NewInterval(outLo(lhs.hi/rhs.hi), 0), nil
	case lc == classPositive0 && rc == classNegative0:
		return NewInterval(-inf, 0), nil
	case lc == classMixed && rc == classNegative1:
		return outward(lhs.hi/rhs.hi, lhs.lo/rhs.hi), nil
	case lc == classMixed && rc == classNegative0:
		return NewInterval(-inf, inf), nil
	case lc == classNegative0 && rc == classNegative1:
		return NewInterval(0, outHi(lhs.lo/rhs.hi)), nil
	case lc == classNegative0 && rc == classNegative0:
		return NewInterval(0, inf), nil
	case lc == classNegative1 && rc == classNegative1:
		return outward(lhs.hi/rhs.lo, lhs.lo/rhs.hi), nil
	default:
		// Negative1 / Negative0
		return NewInterval(outLo(lhs.hi/rhs.lo), inf), nil
	}
}

// Mod reduces the interval modulo a scalar. When both endpoints fall
// in the same modulus window the result is exact; otherwise the result
// is the full [0, |m|] window.
func (iv Interval) Mod(m float64) (Interval, error) {
	if iv.IsEmpty() {
		return iv, nil
	}
	if m == 0 {
		return Interval{}, ErrDivisionByZero
	}
	am := math.Abs(m)
	if math.Floor(iv.lo/am) == math.Floor(iv.hi/am) {
		lo := math.Mod(iv.lo, am)
		hi := math.Mod(iv.hi, am)
		if lo < 0 {
			lo += am
		}
		if hi < 0 {
			hi += am
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return Interval{lo: lo, hi: hi}, nil
	}
	return Interval{lo: 0, hi: am}, nil
}

// Pow raises the interval to a scalar power.
func (iv Interval) Pow(n float64) (Interval, error) {
	if iv.IsEmpty() {
		return iv, nil
	}
	if n == 0 {
		return Interval{lo: 1, hi: 1}, nil
	}
	if n < 0 {
		inv, err := Interval{lo: 1, hi: 1}.Div(iv)
		if err != nil {
			return Interval{}, err
		}
		return inv.Pow(-n)
	}
	isInt := n == math.Trunc(n)
	if !isInt && iv.lo < 0 {
		return Interval{}, &DomainError{Fn: "pow", Arg: iv.lo}
	}
	a := math.Pow(iv.lo, n)
	b := math.Pow(iv.hi, n)
	lo, hi := math.Min(a, b), math.Max(a, b)
	if isInt && math.Mod(n, 2) == 0 && iv.lo < 0 && iv.hi > 0 {
		// even power of a mixed interval touches zero
		lo = 0
	}
	return outward(lo, hi), nil
}

// Enclose returns the tightest interval containing both operands.
func (iv Interval) Enclose(other Interval) Interval {
	if iv.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return iv
	}
	return Interval{lo: math.Min(iv.lo, other.lo), hi: math.Max(iv.hi, other.hi)}
}

// Intersect returns the intersection, empty when disjoint.
func (iv Interval) Intersect(other Interval) Interval {
	if iv.IsEmpty() || other.IsEmpty() {
		return EmptyInterval()
	}
	lo := math.Max(iv.lo, other.lo)
	hi := math.Min(iv.hi, other.hi)
	if lo > hi {
		return EmptyInterval()
	}
	return Interval{lo: lo, hi: hi}
}

// String renders the interval with the bar syntax, e.g. "5|15".
func (iv Interval) String() string {
	if iv.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("%g|%g", iv.lo, iv.hi)
}
