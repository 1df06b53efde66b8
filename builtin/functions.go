package builtin

import (
	"math"

	"github.com/careweather/oneil/core"
)

func stdFunctions() map[string]Function {
	fns := map[string]Function{
		"min":   fnMin,
		"max":   fnMax,
		"sqrt":  fnSqrt,
		"range": fnRange,
		"mid":   fnMid,
	}
	// named but not yet implemented; calling one reports which
	for _, name := range []string{
		"sin", "cos", "tan", "asin", "acos", "atan",
		"ln", "log", "log10",
		"floor", "ceiling", "extent", "abs", "sign", "strip", "mnmx",
	} {
		fns[name] = unimplemented(name)
	}
	return fns
}

func unimplemented(name string) Function {
	return func([]core.Value) (core.Value, error) {
		return core.Value{}, &UnimplementedError{Name: name}
	}
}

// collectNumbers checks that every argument is a number and that all
// units agree, returning the measured operands and the common unit.
func collectNumbers(args []core.Value) ([]core.MeasuredNumber, core.Unit, error) {
	if len(args) == 0 {
		return nil, core.Unit{}, ErrBadArgCount
	}
	var unit core.Unit
	haveUnit := false
	nums := make([]core.MeasuredNumber, 0, len(args))
	for _, arg := range args {
		if arg.Kind() != core.KindNumber {
			return nil, core.Unit{}, &core.TypeError{Expected: core.KindNumber, Got: arg.Kind()}
		}
		m := arg.Measured()
		if !haveUnit {
			unit = m.Unit
			haveUnit = true
		} else if !unit.Compatible(m.Unit) {
			return nil, core.Unit{}, &core.UnitMismatchError{Left: unit, Right: m.Unit}
		}
		nums = append(nums, m)
	}
	return nums, unit, nil
}

// fnMin returns the scalar minimum over the lower endpoints of its
// arguments. Empty intervals are skipped.
func fnMin(args []core.Value) (core.Value, error) {
	nums, unit, err := collectNumbers(args)
	if err != nil {
		return core.Value{}, err
	}
	best := math.Inf(1)
	found := false
	for _, m := range nums {
		if m.Num.IsEmpty() {
			continue
		}
		best = math.Min(best, m.Num.Min())
		found = true
	}
	if !found {
		return core.Value{}, ErrBadArgCount
	}
	return core.NumberValue(core.NewMeasured(core.Scalar(best), unit)), nil
}

// fnMax returns the scalar maximum over the upper endpoints of its
// arguments. Empty intervals are skipped.
func fnMax(args []core.Value) (core.Value, error) {
	nums, unit, err := collectNumbers(args)
	if err != nil {
		return core.Value{}, err
	}
	best := math.Inf(-1)
	found := false
	for _, m := range nums {
		if m.Num.IsEmpty() {
			continue
		}
		best = math.Max(best, m.Num.Max())
		found = true
	}
	if !found {
		return core.Value{}, ErrBadArgCount
	}
	return core.NumberValue(core.NewMeasured(core.Scalar(best), unit)), nil
}

func fnSqrt(args []core.Value) (core.Value, error) {
	if len(args) != 1 {
		return core.Value{}, ErrBadArgCount
	}
	return args[0].Pow(core.ScalarValue(0.5))
}

// fnRange measures the width of one interval argument, or the
// difference of two arguments.
func fnRange(args []core.Value) (core.Value, error) {
	switch len(args) {
	case 1:
		if args[0].Kind() != core.KindNumber {
			return core.Value{}, &core.TypeError{Expected: core.KindNumber, Got: args[0].Kind()}
		}
		m := args[0].Measured()
		if !m.Num.IsInterval() {
			return core.Value{}, &core.TypeError{Expected: core.KindNumber, Got: args[0].Kind()}
		}
		width := m.Num.Max() - m.Num.Min()
		return core.NumberValue(core.NewMeasured(core.Scalar(width), m.Unit)), nil
	case 2:
		return args[0].Sub(args[1])
	default:
		return core.Value{}, ErrBadArgCount
	}
}

// fnMid returns the midpoint of one interval argument, or the mean of
// two arguments.
func fnMid(args []core.Value) (core.Value, error) {
	switch len(args) {
	case 1:
		if args[0].Kind() != core.KindNumber {
			return core.Value{}, &core.TypeError{Expected: core.KindNumber, Got: args[0].Kind()}
		}
		m := args[0].Measured()
		if !m.Num.IsInterval() {
			return core.Value{}, &core.TypeError{Expected: core.KindNumber, Got: args[0].Kind()}
		}
		mid := (m.Num.Min() + m.Num.Max()) / 2
		return core.NumberValue(core.NewMeasured(core.Scalar(mid), m.Unit)), nil
	case 2:
		sum, err := args[0].Add(args[1])
		if err != nil {
			return core.Value{}, err
		}
		return sum.Div(core.ScalarValue(2))
	default:
		return core.Value{}, ErrBadArgCount
	}
}
