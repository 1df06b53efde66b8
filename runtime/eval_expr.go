package runtime

import (
	"fmt"

	"github.com/careweather/oneil/builtin"
	"github.com/careweather/oneil/core"
	"github.com/careweather/oneil/decl"
)

// evalContext carries per-model state through expression evaluation.
// env, when set, supplies injected test inputs that shadow parameter
// lookup.
type evalContext struct {
	eval  *Evaluator
	model *decl.Model
	env   *decl.Env[core.Value]
}

func (ctx *evalContext) evalExpr(e *decl.Expr) (core.Value, error) {
	switch e.Kind {
	case decl.ExprLiteral:
		return e.Literal, nil

	case decl.ExprVariable:
		return ctx.evalVariable(e.Variable)

	case decl.ExprUnary:
		x, err := ctx.evalExpr(e.Unary.X)
		if err != nil {
			return core.Value{}, err
		}
		if e.Unary.Op == decl.OpNot {
			return x.Not()
		}
		return x.Neg()

	case decl.ExprBinary:
		return ctx.evalBinary(e.Binary)

	case decl.ExprCompare:
		return ctx.evalCompare(e.Compare)

	case decl.ExprCall:
		return ctx.evalCall(e.Call)

	case decl.ExprPiecewise:
		return ctx.evalPiecewise(e.Pieces, e.Otherwise, "")

	default:
		panic(fmt.Sprintf("unknown expression kind %d", e.Kind))
	}
}

func (ctx *evalContext) evalVariable(v *decl.Variable) (core.Value, error) {
	switch v.Kind {
	case decl.VarLocal:
		if ctx.env != nil {
			if val, ok := ctx.env.Get(v.Name); ok {
				return val, nil
			}
		}
		val, err := ctx.eval.paramValue(ctx.model, v.Name)
		if err != nil {
			return core.Value{}, fmt.Errorf("%q: %w", v.Name, ErrNotEvaluated)
		}
		return val, nil

	case decl.VarExternal:
		foreign, ok := ctx.eval.models[v.Model]
		if !ok {
			panic(fmt.Sprintf("reference to unknown model %q", v.Model))
		}
		val, err := ctx.eval.paramValue(foreign, v.Name)
		if err != nil {
			return core.Value{}, fmt.Errorf("%s.%s: %w", v.Model, v.Name, ErrNotEvaluated)
		}
		return val, nil

	case decl.VarBuiltin:
		val, ok := ctx.eval.registry.Value(v.Name)
		if !ok {
			panic(fmt.Sprintf("resolved builtin %q missing from registry", v.Name))
		}
		return val, nil

	default:
		panic(fmt.Sprintf("unknown variable kind %d", v.Kind))
	}
}

func (ctx *evalContext) evalBinary(b *decl.BinaryExpr) (core.Value, error) {
	left, err := ctx.evalExpr(b.Left)
	if err != nil {
		return core.Value{}, err
	}
	right, err := ctx.evalExpr(b.Right)
	if err != nil {
		return core.Value{}, err
	}

	switch b.Op {
	case decl.OpAdd:
		return left.Add(right)
	case decl.OpSub:
		return left.Sub(right)
	case decl.OpMul:
		return left.Mul(right)
	case decl.OpDiv:
		return left.Div(right)
	case decl.OpMod:
		return left.Mod(right)
	case decl.OpPow:
		return left.Pow(right)
	case decl.OpAnd:
		return left.And(right)
	case decl.OpOr:
		return left.Or(right)
	case decl.OpEscapedSub:
		return left.EscapedSub(right)
	case decl.OpEscapedDiv:
		return left.EscapedDiv(right)
	case decl.OpBar:
		return left.Bar(right)
	default:
		panic(fmt.Sprintf("unknown binary operator %d", b.Op))
	}
}

// evalCompare evaluates a comparison chain as the conjunction of its
// adjacent comparisons.
func (ctx *evalContext) evalCompare(c *decl.CompareExpr) (core.Value, error) {
	left, err := ctx.evalExpr(c.First)
	if err != nil {
		return core.Value{}, err
	}
	for _, link := range c.Links {
		right, err := ctx.evalExpr(link.Expr)
		if err != nil {
			return core.Value{}, err
		}
		ok, err := left.Compare(link.Op, right)
		if err != nil {
			return core.Value{}, err
		}
		if !ok.Bool() {
			return core.BoolValue(false), nil
		}
		left = right
	}
	return core.BoolValue(true), nil
}

func (ctx *evalContext) evalCall(c *decl.CallExpr) (core.Value, error) {
	args := make([]core.Value, 0, len(c.Args))
	for _, arg := range c.Args {
		v, err := ctx.evalExpr(arg)
		if err != nil {
			return core.Value{}, err
		}
		args = append(args, v)
	}

	switch c.Kind {
	case decl.CallBuiltin:
		fn, ok := ctx.eval.registry.Function(c.Name)
		if !ok {
			panic(fmt.Sprintf("resolved builtin function %q missing from registry", c.Name))
		}
		return fn(args)

	case decl.CallImported:
		if ctx.eval.bridge != nil {
			return ctx.eval.bridge.Call(c.Name, args)
		}
		return core.Value{}, &builtin.UnimplementedError{Name: c.Name}

	default:
		panic(fmt.Sprintf("unknown call kind %d", c.Kind))
	}
}

// evalPiecewise evaluates conditions left to right and returns the
// first arm whose condition holds. Non-taken branches are not
// evaluated or type-checked. With no match the otherwise arm applies;
// with neither, the piecewise has no value.
func (ctx *evalContext) evalPiecewise(pieces []decl.PiecewiseCase, otherwise *decl.Expr, id string) (core.Value, error) {
	for _, piece := range pieces {
		cond, err := ctx.evalExpr(piece.Cond)
		if err != nil {
			return core.Value{}, err
		}
		if cond.Kind() != core.KindBoolean {
			return core.Value{}, &core.TypeError{Expected: core.KindBoolean, Got: cond.Kind()}
		}
		if cond.Bool() {
			return ctx.evalExpr(piece.Expr)
		}
	}
	if otherwise != nil {
		return ctx.evalExpr(otherwise)
	}
	return core.Value{}, &NoPiecewiseMatchError{ID: id}
}
