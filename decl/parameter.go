package decl

import (
	"github.com/careweather/oneil/ast"
	"github.com/careweather/oneil/core"
)

// Parameter is one resolved model parameter.
type Parameter struct {
	// ID is the short identifier used in expressions; unique within
	// the model.
	ID string

	// Name is the human-readable label.
	Name string

	// Value is the parameter's resolved expression.
	Value ParameterValue

	// Display is the declared unit, normalised to a single sized
	// unit. Evaluation folds Display.Magnitude into the stored value
	// so that everything downstream is in base units; rendering
	// divides it back out.
	Display *core.SizedUnit

	// Limits constrain the evaluated value; the zero value means
	// unconstrained.
	Limits Limits

	// Performance marks the parameter for inclusion in summaries.
	Performance bool

	// Dependencies lists the local parameter ids this parameter's
	// expression mentions.
	Dependencies []string

	Span ast.Span
}

// ParameterValue is either a single expression or a piecewise set.
type ParameterValue struct {
	// Simple is set for plain parameters.
	Simple *Expr
	// Pieces plus optional Otherwise are set for piecewise parameters.
	Pieces    []PiecewiseCase
	Otherwise *Expr
}

// IsPiecewise reports whether the value has piecewise arms.
func (v ParameterValue) IsPiecewise() bool { return len(v.Pieces) > 0 }

// IsConstant reports whether the value is built from literals and
// operators alone, with no variable references or calls. Constant
// values are written in the parameter's display unit, so evaluation
// folds the unit magnitude into them; computed values already carry
// base units. Piecewise conditions may reference variables without
// making the arms non-constant.
func (v ParameterValue) IsConstant() bool {
	constant := true
	check := func(e *Expr) {
		if e.Kind == ExprVariable || e.Kind == ExprCall {
			constant = false
		}
	}
	if v.Simple != nil {
		v.Simple.Walk(check)
	}
	for _, piece := range v.Pieces {
		piece.Expr.Walk(check)
	}
	if v.Otherwise != nil {
		v.Otherwise.Walk(check)
	}
	return constant
}

// PiecewiseCase is one (condition, expression) arm.
type PiecewiseCase struct {
	Cond *Expr
	Expr *Expr
}

// Limits constrain a parameter's evaluated value. Exactly one of the
// variants is populated; the zero value means unconstrained.
type Limits struct {
	// Continuous is a closed interval in base units.
	Continuous *core.Interval
	// Discrete is a finite set of allowed strings.
	Discrete []string
}

// IsZero reports whether no limit was declared.
func (l Limits) IsZero() bool {
	return l.Continuous == nil && len(l.Discrete) == 0
}
