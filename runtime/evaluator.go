package runtime

import (
	"fmt"

	"github.com/heimdalr/dag"
	"github.com/sirupsen/logrus"

	"github.com/careweather/oneil/builtin"
	"github.com/careweather/oneil/core"
	"github.com/careweather/oneil/decl"
	"github.com/careweather/oneil/loader"
)

// ForeignBridge evaluates imported Python functions. Without one
// installed, any imported call fails as unimplemented.
type ForeignBridge interface {
	Call(name string, args []core.Value) (core.Value, error)
}

// Evaluator walks a resolved model graph and produces evaluated-model
// trees. It is single-threaded and synchronous; parameter values are
// memoised per model path, so shared dependencies evaluate once.
type Evaluator struct {
	models   map[string]*decl.Model
	registry *builtin.Registry
	bridge   ForeignBridge
	log      logrus.FieldLogger

	// values/errs memoise per model path; paramBusy guards against
	// re-entrant evaluation, which the per-model cycle check should
	// have made impossible.
	values    map[string]map[string]core.Value
	errs      map[string]map[string]error
	paramBusy map[string]bool
}

// Option configures an evaluator.
type Option func(*Evaluator)

// WithBridge installs a foreign-function bridge.
func WithBridge(bridge ForeignBridge) Option {
	return func(e *Evaluator) { e.bridge = bridge }
}

// WithLogger sets the evaluator's logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Evaluator) { e.log = log }
}

// New creates an evaluator over a load result and a registry.
func New(res *loader.Result, registry *builtin.Registry, opts ...Option) *Evaluator {
	e := &Evaluator{
		models:    res.Models,
		registry:  registry,
		values:    make(map[string]map[string]core.Value),
		errs:      make(map[string]map[string]error),
		paramBusy: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.WarnLevel)
		e.log = logger
	}
	return e
}

// Evaluate produces the evaluated-model tree rooted at rootPath.
// Per-parameter failures are recorded in the tree; the returned error
// reports conditions that prevent evaluation entirely (an unknown
// root, a parameter dependency cycle).
func (e *Evaluator) Evaluate(rootPath string) (*EvaluatedModel, error) {
	model, ok := e.models[rootPath]
	if !ok {
		return nil, fmt.Errorf("unknown model %q", rootPath)
	}
	return e.evalModel(model, nil)
}

// evalModel evaluates one model. injections supplies parent-provided
// values for the model's injected test inputs; it is nil at the root.
func (e *Evaluator) evalModel(model *decl.Model, injections map[string]core.Value) (*EvaluatedModel, error) {
	order, err := e.parameterOrder(model)
	if err != nil {
		return nil, err
	}

	out := &EvaluatedModel{
		Path:      model.Path,
		Values:    make(map[string]core.Value),
		Errors:    make(map[string]error),
		Order:     order,
		Submodels: make(map[string]*EvaluatedModel),
	}

	for _, id := range order {
		param, ok := model.Parameter(id)
		if !ok {
			panic(fmt.Sprintf("ordered parameter %q missing from model %s", id, model.Path))
		}
		if param.Performance {
			out.Performance = append(out.Performance, id)
		}
		v, err := e.paramValue(model, id)
		if err != nil {
			out.Errors[id] = err
			continue
		}
		out.Values[id] = v
	}

	for name, sub := range model.Submodels {
		subModel, ok := e.models[sub.Path]
		if !ok {
			panic(fmt.Sprintf("submodel %q of %s resolved to unknown path %q", name, model.Path, sub.Path))
		}
		childInjections := make(map[string]core.Value, len(sub.Injections))
		for childName, parentID := range sub.Injections {
			if v, err := e.paramValue(model, parentID); err == nil {
				childInjections[childName] = v
			}
		}
		child, err := e.evalModel(subModel, childInjections)
		if err != nil {
			return nil, err
		}
		out.Submodels[name] = child
	}

	e.runTests(model, injections, out)
	return out, nil
}

// parameterOrder computes a topological order over the model's
// parameter dependency graph. An edge to a nonexistent parameter is an
// invariant violation; a cycle is a user error.
func (e *Evaluator) parameterOrder(model *decl.Model) ([]string, error) {
	g := dag.NewDAG()
	for _, p := range model.Parameters {
		err := g.AddVertexByID(p.ID, p.ID)
		ensureNoErr(err, "adding parameter vertex %q", p.ID)
	}
	for _, p := range model.Parameters {
		for _, dep := range p.Dependencies {
			if _, ok := model.Parameter(dep); !ok {
				panic(fmt.Sprintf("parameter %q depends on nonexistent %q in %s", p.ID, dep, model.Path))
			}
			// AddEdge rejects an edge that would close a loop
			if err := g.AddEdge(dep, p.ID); err != nil {
				return nil, &CircularDependencyError{Model: model.Path, IDs: cycleChain(model, p.ID)}
			}
		}
	}

	// source order, refined so dependencies come first
	visited := make(map[string]bool, len(model.Parameters))
	var order []string
	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		p, _ := model.Parameter(id)
		for _, dep := range p.Dependencies {
			visit(dep)
		}
		order = append(order, id)
	}
	for _, p := range model.Parameters {
		visit(p.ID)
	}
	return order, nil
}

// cycleChain recovers the id chain of a dependency cycle reachable
// from start, for the error message.
func cycleChain(model *decl.Model, start string) []string {
	onStack := make(map[string]bool)
	var stack []string
	var chain []string

	var visit func(id string) bool
	visit = func(id string) bool {
		if onStack[id] {
			for i, s := range stack {
				if s == id {
					chain = append(append([]string{}, stack[i:]...), id)
					return true
				}
			}
			return false
		}
		onStack[id] = true
		stack = append(stack, id)
		p, ok := model.Parameter(id)
		if ok {
			for _, dep := range p.Dependencies {
				if visit(dep) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		onStack[id] = false
		return false
	}
	if visit(start) {
		return chain
	}
	return []string{start}
}

// paramValue evaluates one parameter, memoised per model path.
func (e *Evaluator) paramValue(model *decl.Model, id string) (core.Value, error) {
	if vals, ok := e.values[model.Path]; ok {
		if v, ok := vals[id]; ok {
			return v, nil
		}
	}
	if errs, ok := e.errs[model.Path]; ok {
		if err, ok := errs[id]; ok {
			return core.Value{}, err
		}
	}

	key := model.Path + "\x00" + id
	if e.paramBusy[key] {
		panic(fmt.Sprintf("re-entrant evaluation of %s.%s: cycle missed by the resolver", model.Path, id))
	}
	e.paramBusy[key] = true
	defer delete(e.paramBusy, key)

	param, ok := model.Parameter(id)
	if !ok {
		panic(fmt.Sprintf("evaluating nonexistent parameter %q in %s", id, model.Path))
	}

	v, err := e.evalParameter(model, param)
	if err != nil {
		err = &ParameterError{Model: model.Path, ID: id, Err: err}
		e.recordErr(model.Path, id, err)
		return core.Value{}, err
	}
	if e.values[model.Path] == nil {
		e.values[model.Path] = make(map[string]core.Value)
	}
	e.values[model.Path][id] = v
	return v, nil
}

func (e *Evaluator) recordErr(path, id string, err error) {
	if e.errs[path] == nil {
		e.errs[path] = make(map[string]error)
	}
	e.errs[path][id] = err
}

// evalParameter evaluates a parameter's expression, applies its
// declared unit, and verifies its limits.
func (e *Evaluator) evalParameter(model *decl.Model, param *decl.Parameter) (core.Value, error) {
	ctx := &evalContext{eval: e, model: model}

	var raw core.Value
	var err error
	if param.Value.IsPiecewise() {
		raw, err = ctx.evalPiecewise(param.Value.Pieces, param.Value.Otherwise, param.ID)
	} else {
		raw, err = ctx.evalExpr(param.Value.Simple)
	}
	if err != nil {
		return core.Value{}, err
	}

	v, err := applyDisplayUnit(raw, param)
	if err != nil {
		return core.Value{}, err
	}

	if err := checkLimits(param, v); err != nil {
		return core.Value{}, err
	}

	e.log.WithField("model", model.Path).WithField("parameter", param.ID).Debug("evaluated")
	return v, nil
}

// applyDisplayUnit attaches the parameter's declared unit to its raw
// expression value. A constant value (built from literals alone) takes
// on the declared unit with the magnitude folded in (and the dB
// transform applied); any other result must already agree with the
// declared unit and is returned unchanged.
func applyDisplayUnit(raw core.Value, param *decl.Parameter) (core.Value, error) {
	display := param.Display
	if raw.Kind() != core.KindNumber {
		if display.Unit.IsDimensionless() && display.Magnitude == 1 && !display.DB {
			return raw, nil
		}
		return core.Value{}, &core.TypeError{Expected: core.KindNumber, Got: raw.Kind()}
	}

	m := raw.Measured()
	if m.Unit.IsDimensionless() && param.Value.IsConstant() {
		// a constant is written in the display unit; fold it to base
		return core.NumberValue(core.FromSized(m.Num, display)), nil
	}
	if !m.Unit.Compatible(display.Unit) {
		return core.Value{}, &ParameterUnitMismatchError{ID: param.ID, Declared: display.Unit, Got: m.Unit}
	}
	// computed values are already in base units
	return raw, nil
}

// checkLimits verifies the evaluated value against the parameter's
// declared limits. Continuous limits contain the whole interval, with
// endpoint tolerance; discrete limits are a string set.
func checkLimits(param *decl.Parameter, v core.Value) error {
	limits := param.Limits
	if limits.IsZero() {
		return nil
	}
	if limits.Continuous != nil {
		if v.Kind() != core.KindNumber {
			return &core.TypeError{Expected: core.KindNumber, Got: v.Kind()}
		}
		num := v.Measured().Num
		lim := *limits.Continuous
		loOK := num.Min() >= lim.Lo() || core.IsClose(num.Min(), lim.Lo())
		hiOK := num.Max() <= lim.Hi() || core.IsClose(num.Max(), lim.Hi())
		if !loOK || !hiOK {
			return &LimitViolatedError{ID: param.ID, Value: v, Limit: lim.String()}
		}
		return nil
	}
	if v.Kind() != core.KindString {
		return &core.TypeError{Expected: core.KindString, Got: v.Kind()}
	}
	for _, allowed := range limits.Discrete {
		if v.Str() == allowed {
			return nil
		}
	}
	return &LimitViolatedError{ID: param.ID, Value: v, Limit: fmt.Sprintf("%v", limits.Discrete)}
}
