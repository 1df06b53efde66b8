package runtime

import (
	"fmt"

	"github.com/careweather/oneil/core"
	"github.com/careweather/oneil/decl"
)

// runTests evaluates every test of the model. Tests run after
// parameter evaluation; a test whose injected inputs were not supplied
// is skipped, and a failing test carries the values of the variables
// it mentioned as witnesses.
func (e *Evaluator) runTests(model *decl.Model, injections map[string]core.Value, out *EvaluatedModel) {
	for _, test := range model.Tests {
		out.Tests = append(out.Tests, e.runTest(model, test, injections))
	}
}

func (e *Evaluator) runTest(model *decl.Model, test *decl.Test, injections map[string]core.Value) TestResult {
	env := decl.NewEnv[core.Value](nil)
	for _, input := range test.Inputs {
		v, ok := injections[input]
		if !ok {
			err := &MissingInjectionError{Name: input}
			return TestResult{
				Index:  test.Index,
				Status: TestSkipped,
				Reason: err.Error(),
			}
		}
		env.Set(input, v)
	}

	ctx := &evalContext{eval: e, model: model, env: env}
	v, err := ctx.evalExpr(test.Expr)
	if err != nil {
		return TestResult{
			Index:  test.Index,
			Status: TestSkipped,
			Reason: fmt.Sprintf("evaluation failed: %v", err),
		}
	}
	if v.Kind() != core.KindBoolean {
		err := &TestNotBooleanError{Model: model.Path, Index: test.Index, Got: v.Kind()}
		return TestResult{Index: test.Index, Status: TestSkipped, Reason: err.Error()}
	}

	if v.Bool() {
		return TestResult{Index: test.Index, Status: TestPassed}
	}
	return TestResult{
		Index:     test.Index,
		Status:    TestFailed,
		Witnesses: ctx.collectWitnesses(test.Expr),
	}
}

// collectWitnesses gathers the evaluated values of every variable the
// expression mentions, so a failure report can show what the test saw.
func (ctx *evalContext) collectWitnesses(expr *decl.Expr) map[string]core.Value {
	witnesses := make(map[string]core.Value)
	expr.Walk(func(e *decl.Expr) {
		if e.Kind != decl.ExprVariable {
			return
		}
		v := e.Variable
		name := v.Name
		if v.Kind == decl.VarExternal {
			name = v.Name + "." + v.Model
		}
		if _, seen := witnesses[name]; seen {
			return
		}
		if val, err := ctx.evalVariable(v); err == nil {
			witnesses[name] = val
		}
	})
	return witnesses
}
