package core

import "fmt"

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindBoolean ValueKind = iota
	KindString
	KindNumber
)

func (k ValueKind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// CompareOp identifies a comparison operator.
type CompareOp int

const (
	CompareEq CompareOp = iota
	CompareNe
	CompareLt
	CompareLe
	CompareGt
	CompareGe
)

func (op CompareOp) String() string {
	switch op {
	case CompareEq:
		return "=="
	case CompareNe:
		return "!="
	case CompareLt:
		return "<"
	case CompareLe:
		return "<="
	case CompareGt:
		return ">"
	case CompareGe:
		return ">="
	default:
		return "?"
	}
}

// Value is the typed sum over the three Oneil value variants. The tag
// is examined once at the entry of each operation; the typed helpers
// below then do the work.
type Value struct {
	kind ValueKind
	b    bool
	s    string
	m    MeasuredNumber
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBoolean, b: b} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// NumberValue wraps a measured number.
func NumberValue(m MeasuredNumber) Value { return Value{kind: KindNumber, m: m} }

// ScalarValue wraps a dimensionless scalar.
func ScalarValue(v float64) Value {
	return NumberValue(NewMeasured(Scalar(v), Dimensionless()))
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// Bool returns the boolean payload; callers must have checked the tag.
func (v Value) Bool() bool {
	if v.kind != KindBoolean {
		panic("value is not a boolean")
	}
	return v.b
}

// Str returns the string payload; callers must have checked the tag.
func (v Value) Str() string {
	if v.kind != KindString {
		panic("value is not a string")
	}
	return v.s
}

// Measured returns the numeric payload; callers must have checked the
// tag.
func (v Value) Measured() MeasuredNumber {
	if v.kind != KindNumber {
		panic("value is not a number")
	}
	return v.m
}

func (v Value) asNumbers(other Value) (MeasuredNumber, MeasuredNumber, error) {
	if v.kind != KindNumber {
		return MeasuredNumber{}, MeasuredNumber{}, &TypeError{Expected: KindNumber, Got: v.kind}
	}
	if other.kind != KindNumber {
		return MeasuredNumber{}, MeasuredNumber{}, &TypeError{Expected: KindNumber, Got: other.kind}
	}
	return v.m, other.m, nil
}

// Add adds two number values.
func (v Value) Add(other Value) (Value, error) {
	a, b, err := v.asNumbers(other)
	if err != nil {
		return Value{}, err
	}
	m, err := a.Add(b)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(m), nil
}

// Sub subtracts two number values.
func (v Value) Sub(other Value) (Value, error) {
	a, b, err := v.asNumbers(other)
	if err != nil {
		return Value{}, err
	}
	m, err := a.Sub(b)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(m), nil
}

// EscapedSub applies the `--` escape operator.
func (v Value) EscapedSub(other Value) (Value, error) {
	a, b, err := v.asNumbers(other)
	if err != nil {
		return Value{}, err
	}
	m, err := a.EscapedSub(b)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(m), nil
}

// Mul multiplies two number values.
func (v Value) Mul(other Value) (Value, error) {
	a, b, err := v.asNumbers(other)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(a.Mul(b)), nil
}

// Div divides two number values.
func (v Value) Div(other Value) (Value, error) {
	a, b, err := v.asNumbers(other)
	if err != nil {
		return Value{}, err
	}
	m, err := a.Div(b)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(m), nil
}

// EscapedDiv applies the `//` escape operator.
func (v Value) EscapedDiv(other Value) (Value, error) {
	a, b, err := v.asNumbers(other)
	if err != nil {
		return Value{}, err
	}
	m, err := a.EscapedDiv(b)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(m), nil
}

// Mod reduces modulo a scalar right operand.
func (v Value) Mod(other Value) (Value, error) {
	a, b, err := v.asNumbers(other)
	if err != nil {
		return Value{}, err
	}
	m, err := a.Mod(b)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(m), nil
}

// Pow raises the value to a dimensionless scalar power.
func (v Value) Pow(other Value) (Value, error) {
	a, b, err := v.asNumbers(other)
	if err != nil {
		return Value{}, err
	}
	m, err := a.Pow(b)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(m), nil
}

// Neg negates a number value.
func (v Value) Neg() (Value, error) {
	if v.kind != KindNumber {
		return Value{}, &TypeError{Expected: KindNumber, Got: v.kind}
	}
	return NumberValue(v.m.Neg()), nil
}

// And applies boolean conjunction.
func (v Value) And(other Value) (Value, error) {
	if v.kind != KindBoolean {
		return Value{}, &TypeError{Expected: KindBoolean, Got: v.kind}
	}
	if other.kind != KindBoolean {
		return Value{}, &TypeError{Expected: KindBoolean, Got: other.kind}
	}
	return BoolValue(v.b && other.b), nil
}

// Or applies boolean disjunction.
func (v Value) Or(other Value) (Value, error) {
	if v.kind != KindBoolean {
		return Value{}, &TypeError{Expected: KindBoolean, Got: v.kind}
	}
	if other.kind != KindBoolean {
		return Value{}, &TypeError{Expected: KindBoolean, Got: other.kind}
	}
	return BoolValue(v.b || other.b), nil
}

// Not applies boolean negation.
func (v Value) Not() (Value, error) {
	if v.kind != KindBoolean {
		return Value{}, &TypeError{Expected: KindBoolean, Got: v.kind}
	}
	return BoolValue(!v.b), nil
}

// Compare applies a comparison operator. Booleans and strings support
// only equality and inequality; numbers support the full definite
// interval ordering.
func (v Value) Compare(op CompareOp, other Value) (Value, error) {
	switch {
	case v.kind == KindBoolean && other.kind == KindBoolean:
		switch op {
		case CompareEq:
			return BoolValue(v.b == other.b), nil
		case CompareNe:
			return BoolValue(v.b != other.b), nil
		default:
			return Value{}, &TypeError{Expected: KindNumber, Got: v.kind}
		}
	case v.kind == KindString && other.kind == KindString:
		switch op {
		case CompareEq:
			return BoolValue(v.s == other.s), nil
		case CompareNe:
			return BoolValue(v.s != other.s), nil
		default:
			return Value{}, &TypeError{Expected: KindNumber, Got: v.kind}
		}
	case v.kind == KindNumber && other.kind == KindNumber:
		ok, err := v.m.Compare(op, other.m)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(ok), nil
	default:
		return Value{}, &TypeError{Expected: v.kind, Got: other.kind}
	}
}

// Bar is the `a | b` interval constructor: the tightest interval
// containing both operands. Scalars are promoted to zero-width
// intervals; units must match.
func (v Value) Bar(other Value) (Value, error) {
	a, b, err := v.asNumbers(other)
	if err != nil {
		return Value{}, err
	}
	m, err := a.Enclose(b)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(m), nil
}

// String renders the value for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		return fmt.Sprintf("%t", v.b)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindNumber:
		return v.m.String()
	default:
		return "<invalid>"
	}
}
