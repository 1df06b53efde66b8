package core

import (
	"encoding/binary"
	"math"
)

// Outcome is the result of one fuzz probe over the number layer.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomePanicked
	OutcomeViolatedInclusion
	OutcomeInvalidInterval
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomePanicked:
		return "panicked"
	case OutcomeViolatedInclusion:
		return "violated_inclusion"
	case OutcomeInvalidInterval:
		return "invalid_interval"
	default:
		return "unknown"
	}
}

// fuzzOpCount is the number of non-escape binary operations probed by
// the harnesses: add, sub, mul, div, pow, mod.
const fuzzOpCount = 6

// decodeFuzzInput reads two intervals, an op selector, and a pair of
// sample fractions from raw fuzz bytes. Construction is deterministic
// so a failing input replays exactly.
func decodeFuzzInput(data []byte) (a, b Interval, op int, fa, fb float64, ok bool) {
	if len(data) < 34 {
		return Interval{}, Interval{}, 0, 0, 0, false
	}
	read := func(off int) (float64, bool) {
		v := math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		// keep magnitudes in a range where sampling stays meaningful
		if math.Abs(v) > 1e100 {
			return 0, false
		}
		return v, true
	}
	a1, ok1 := read(0)
	a2, ok2 := read(8)
	b1, ok3 := read(16)
	b2, ok4 := read(24)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Interval{}, Interval{}, 0, 0, 0, false
	}
	a = NewInterval(math.Min(a1, a2), math.Max(a1, a2))
	b = NewInterval(math.Min(b1, b2), math.Max(b1, b2))
	op = int(data[32]) % fuzzOpCount
	fa = float64(data[33]&0x0f) / 15
	fb = float64(data[33]>>4) / 15
	return a, b, op, fa, fb, true
}

func applyFuzzOp(a, b Number, op int) (Number, error) {
	switch op {
	case 0:
		return a.Add(b), nil
	case 1:
		return a.Sub(b), nil
	case 2:
		return a.Mul(b), nil
	case 3:
		return a.Div(b)
	case 4:
		// exponents must be scalar; collapse b to its midpoint
		return a.Pow((b.Min() + b.Max()) / 2)
	case 5:
		return a.Mod(Scalar(b.Max()))
	default:
		panic("unknown fuzz op")
	}
}

func applyRealOp(x, y float64, op int) (float64, bool) {
	switch op {
	case 0:
		return x + y, true
	case 1:
		return x - y, true
	case 2:
		return x * y, true
	case 3:
		if y == 0 {
			return 0, false
		}
		return x / y, true
	case 4:
		r := math.Pow(x, y)
		return r, !math.IsNaN(r)
	case 5:
		if y == 0 {
			return 0, false
		}
		r := math.Mod(x, math.Abs(y))
		if r < 0 {
			r += math.Abs(y)
		}
		return r, true
	default:
		panic("unknown fuzz op")
	}
}

// CheckSingleOpInclusion probes the inclusion property on one binary
// operation: sample points from each operand interval, apply the real
// operation, and require the result to land in the interval result.
// The operand for pow/mod collapses to a scalar, matching the
// operator's contract.
func CheckSingleOpInclusion(data []byte) (outcome Outcome) {
	defer func() {
		if recover() != nil {
			outcome = OutcomePanicked
		}
	}()

	a, b, op, fa, fb, ok := decodeFuzzInput(data)
	if !ok {
		return OutcomeOK
	}

	na, nb := FromInterval(a), FromInterval(b)
	result, err := applyFuzzOp(na, nb, op)
	if err != nil {
		// rejected inputs (division by zero and friends) carry no
		// inclusion obligation
		return OutcomeOK
	}
	if result.IsInterval() && !result.AsInterval().IsValid() && !result.IsEmpty() {
		return OutcomeInvalidInterval
	}

	x := a.lo + fa*(a.hi-a.lo)
	y := b.lo + fb*(b.hi-b.lo)
	if op == 4 {
		y = (b.lo + b.hi) / 2
	}
	if op == 5 {
		y = b.hi
	}
	real, defined := applyRealOp(x, y, op)
	if !defined || math.IsNaN(real) {
		return OutcomeOK
	}
	if result.IsEmpty() {
		return OutcomeOK
	}
	if !result.AsInterval().ContainsPoint(real) {
		return OutcomeViolatedInclusion
	}
	return OutcomeOK
}

// CheckSingleOpValidity probes interval validity: every non-empty
// result must have ordered, non-NaN endpoints.
func CheckSingleOpValidity(data []byte) (outcome Outcome) {
	defer func() {
		if recover() != nil {
			outcome = OutcomePanicked
		}
	}()

	a, b, op, _, _, ok := decodeFuzzInput(data)
	if !ok {
		return OutcomeOK
	}
	result, err := applyFuzzOp(FromInterval(a), FromInterval(b), op)
	if err != nil {
		return OutcomeOK
	}
	if result.IsInterval() && !result.IsEmpty() && !result.AsInterval().IsValid() {
		return OutcomeInvalidInterval
	}
	return OutcomeOK
}
