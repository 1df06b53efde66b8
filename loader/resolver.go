package loader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/careweather/oneil/ast"
	"github.com/careweather/oneil/core"
	"github.com/careweather/oneil/decl"
)

// resolveFile turns one parsed file into an IR model: declarations are
// partitioned by kind, imports are resolved (recursively, via the
// loader), every identifier in every expression is bound, and unit
// expressions collapse to sized units.
func (l *Loader) resolveFile(file *ast.File, canonical string) (*decl.Model, error) {
	model := &decl.Model{
		Path:       canonical,
		References: make(map[string]string),
		Submodels:  make(map[string]decl.SubmodelImport),
	}

	var paramDecls []*ast.ParameterDecl
	var testDecls []*ast.TestDecl

	for i := range file.Decls {
		d := &file.Decls[i]
		switch d.Kind {
		case ast.DeclImportPython:
			if !l.files.Exists(canonical, d.Target) {
				return nil, &PythonImportMissingError{Target: d.Target, Path: canonical, Span: d.Span}
			}
			model.PythonImports = append(model.PythonImports, d.Target)

		case ast.DeclImportRef:
			imported, err := l.loadRecursive(canonical, d.Target)
			if err != nil {
				return nil, err
			}
			alias := d.Alias
			if alias == "" {
				alias = modelName(d.Target)
			}
			model.References[alias] = imported.Path

		case ast.DeclImportUse:
			imported, err := l.loadRecursive(canonical, d.Target)
			if err != nil {
				return nil, err
			}
			name := d.Alias
			if name == "" {
				name = modelName(d.Target)
			}
			injections := make(map[string]string, len(d.With))
			for _, item := range d.With {
				childName := item.Alias
				if childName == "" {
					childName = item.Name
				}
				injections[childName] = item.Name
			}
			model.Submodels[name] = decl.SubmodelImport{Path: imported.Path, Injections: injections}
			// a submodel is also addressable as a reference
			model.References[name] = imported.Path

		case ast.DeclParameter:
			paramDecls = append(paramDecls, d.Parameter)

		case ast.DeclTest:
			testDecls = append(testDecls, d.Test)

		default:
			return nil, fmt.Errorf("%s: unknown declaration kind %q", canonical, d.Kind)
		}
	}

	rs := &fileResolveState{loader: l, model: model}

	seen := make(map[string]bool, len(paramDecls))
	for _, pd := range paramDecls {
		if seen[pd.ID] {
			return nil, &DuplicateParameterError{ID: pd.ID, Path: canonical, Span: pd.Span}
		}
		seen[pd.ID] = true
	}
	rs.paramIDs = seen

	for _, pd := range paramDecls {
		param, err := rs.resolveParameter(pd)
		if err != nil {
			return nil, err
		}
		model.Parameters = append(model.Parameters, param)
	}

	for i, td := range testDecls {
		expr, err := rs.resolveExpr(td.Expr, td.Inputs)
		if err != nil {
			return nil, err
		}
		model.Tests = append(model.Tests, &decl.Test{
			Index:  i,
			Expr:   expr,
			Inputs: td.Inputs,
			Span:   td.Span,
		})
	}

	return model, nil
}

// modelName derives a model's name from its import target, e.g.
// "power/battery.on" -> "battery".
func modelName(target string) string {
	base := filepath.Base(target)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

// fileResolveState carries per-file context through expression
// resolution.
type fileResolveState struct {
	loader   *Loader
	model    *decl.Model
	paramIDs map[string]bool
}

func (rs *fileResolveState) resolveParameter(pd *ast.ParameterDecl) (*decl.Parameter, error) {
	display, err := rs.normaliseUnit(pd.Unit)
	if err != nil {
		return nil, err
	}

	param := &decl.Parameter{
		ID:          pd.ID,
		Name:        pd.Name,
		Display:     display,
		Performance: pd.Performance,
		Span:        pd.Span,
	}

	if len(pd.Pieces) > 0 {
		for _, piece := range pd.Pieces {
			cond, err := rs.resolveExpr(piece.Cond, nil)
			if err != nil {
				return nil, err
			}
			expr, err := rs.resolveExpr(piece.Expr, nil)
			if err != nil {
				return nil, err
			}
			param.Value.Pieces = append(param.Value.Pieces, decl.PiecewiseCase{Cond: cond, Expr: expr})
		}
		if pd.Otherwise != nil {
			otherwise, err := rs.resolveExpr(pd.Otherwise, nil)
			if err != nil {
				return nil, err
			}
			param.Value.Otherwise = otherwise
		}
	} else {
		expr, err := rs.resolveExpr(pd.Value, nil)
		if err != nil {
			return nil, err
		}
		param.Value.Simple = expr
	}

	limits, err := rs.resolveLimits(pd.Limits, display)
	if err != nil {
		return nil, err
	}
	param.Limits = limits

	param.Dependencies = collectDependencies(&param.Value)
	return param, nil
}

// resolveLimits reduces limit expressions to constants. Continuous
// limits are folded into base units through the parameter's display
// unit so that checks run against stored values.
func (rs *fileResolveState) resolveLimits(ld *ast.LimitsDecl, display *core.SizedUnit) (decl.Limits, error) {
	if ld == nil {
		return decl.Limits{}, nil
	}
	if len(ld.Values) > 0 {
		return decl.Limits{Discrete: ld.Values}, nil
	}
	lo, err := rs.constEval(ld.Min)
	if err != nil {
		return decl.Limits{}, &BadLimitError{Path: rs.model.Path, Span: ld.Span, Reason: err.Error()}
	}
	hi, err := rs.constEval(ld.Max)
	if err != nil {
		return decl.Limits{}, &BadLimitError{Path: rs.model.Path, Span: ld.Span, Reason: err.Error()}
	}
	lo *= display.Magnitude
	hi *= display.Magnitude
	if lo > hi {
		return decl.Limits{}, &BadLimitError{Path: rs.model.Path, Span: ld.Span, Reason: fmt.Sprintf("limit endpoints inverted: %g > %g", lo, hi)}
	}
	iv := core.NewInterval(lo, hi)
	return decl.Limits{Continuous: &iv}, nil
}

// constEval reduces a limit expression to a scalar. Limits allow
// literals, sign, builtin constants, and scalar arithmetic over those.
func (rs *fileResolveState) constEval(e *ast.Expr) (float64, error) {
	if e == nil {
		return 0, fmt.Errorf("missing limit expression")
	}
	switch e.Kind {
	case ast.ExprNumber:
		return e.Number, nil
	case ast.ExprIdent:
		if len(e.Ident) == 1 {
			if v, ok := rs.loader.registry.Value(e.Ident[0]); ok && v.Kind() == core.KindNumber {
				return v.Measured().Num.Scalar(), nil
			}
		}
		return 0, fmt.Errorf("limit must be constant, found %q", strings.Join(e.Ident, "."))
	case ast.ExprUnary:
		x, err := rs.constEval(e.X)
		if err != nil {
			return 0, err
		}
		if e.Op != "neg" && e.Op != "-" {
			return 0, fmt.Errorf("operator %q not allowed in limits", e.Op)
		}
		return -x, nil
	case ast.ExprBinary:
		left, err := rs.constEval(e.Left)
		if err != nil {
			return 0, err
		}
		right, err := rs.constEval(e.Right)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case "+":
			return left + right, nil
		case "-":
			return left - right, nil
		case "*":
			return left * right, nil
		case "/":
			if right == 0 {
				return 0, core.ErrDivisionByZero
			}
			return left / right, nil
		default:
			return 0, fmt.Errorf("operator %q not allowed in limits", e.Op)
		}
	default:
		return 0, fmt.Errorf("limit must be constant")
	}
}

// resolveExpr binds every identifier in the expression: local
// parameter, referenced foreign parameter, imported Python function,
// or builtin. injected lists extra names that resolve as local ids
// (test inputs supplied by a parent).
func (rs *fileResolveState) resolveExpr(e *ast.Expr, injected []string) (*decl.Expr, error) {
	if e == nil {
		return nil, fmt.Errorf("%s: missing expression", rs.model.Path)
	}
	out := &decl.Expr{Span: e.Span}
	switch e.Kind {
	case ast.ExprNumber:
		out.Kind = decl.ExprLiteral
		out.Literal = core.ScalarValue(e.Number)

	case ast.ExprString:
		out.Kind = decl.ExprLiteral
		out.Literal = core.StringValue(e.Str)

	case ast.ExprBool:
		out.Kind = decl.ExprLiteral
		out.Literal = core.BoolValue(e.Bool)

	case ast.ExprIdent:
		variable, err := rs.resolveVariable(e, injected)
		if err != nil {
			return nil, err
		}
		out.Kind = decl.ExprVariable
		out.Variable = variable

	case ast.ExprUnary:
		x, err := rs.resolveExpr(e.X, injected)
		if err != nil {
			return nil, err
		}
		op := decl.OpNeg
		if e.Op == "not" {
			op = decl.OpNot
		}
		out.Kind = decl.ExprUnary
		out.Unary = &decl.UnaryExpr{Op: op, X: x}

	case ast.ExprBinary:
		left, err := rs.resolveExpr(e.Left, injected)
		if err != nil {
			return nil, err
		}
		right, err := rs.resolveExpr(e.Right, injected)
		if err != nil {
			return nil, err
		}
		op, ok := binaryOps[e.Op]
		if !ok {
			return nil, fmt.Errorf("%s: unknown operator %q", rs.model.Path, e.Op)
		}
		out.Kind = decl.ExprBinary
		out.Binary = &decl.BinaryExpr{Op: op, Left: left, Right: right}

	case ast.ExprCompare:
		first, err := rs.resolveExpr(e.Left, injected)
		if err != nil {
			return nil, err
		}
		compare := &decl.CompareExpr{First: first}
		for _, link := range e.Links {
			op, ok := compareOps[link.Op]
			if !ok {
				return nil, fmt.Errorf("%s: unknown comparison %q", rs.model.Path, link.Op)
			}
			operand, err := rs.resolveExpr(link.Expr, injected)
			if err != nil {
				return nil, err
			}
			compare.Links = append(compare.Links, decl.CompareLink{Op: op, Expr: operand})
		}
		out.Kind = decl.ExprCompare
		out.Compare = compare

	case ast.ExprCall:
		call, err := rs.resolveCall(e, injected)
		if err != nil {
			return nil, err
		}
		out.Kind = decl.ExprCall
		out.Call = call

	case ast.ExprPiecewise:
		for _, piece := range e.Pieces {
			cond, err := rs.resolveExpr(piece.Cond, injected)
			if err != nil {
				return nil, err
			}
			expr, err := rs.resolveExpr(piece.Expr, injected)
			if err != nil {
				return nil, err
			}
			out.Pieces = append(out.Pieces, decl.PiecewiseCase{Cond: cond, Expr: expr})
		}
		if e.Otherwise != nil {
			otherwise, err := rs.resolveExpr(e.Otherwise, injected)
			if err != nil {
				return nil, err
			}
			out.Otherwise = otherwise
		}
		out.Kind = decl.ExprPiecewise

	default:
		return nil, fmt.Errorf("%s: unknown expression kind %q", rs.model.Path, e.Kind)
	}
	return out, nil
}

var binaryOps = map[string]decl.BinaryOp{
	"+":   decl.OpAdd,
	"-":   decl.OpSub,
	"*":   decl.OpMul,
	"/":   decl.OpDiv,
	"%":   decl.OpMod,
	"^":   decl.OpPow,
	"and": decl.OpAnd,
	"or":  decl.OpOr,
	"--":  decl.OpEscapedSub,
	"//":  decl.OpEscapedDiv,
	"|":   decl.OpBar,
}

var compareOps = map[string]core.CompareOp{
	"==": core.CompareEq,
	"!=": core.CompareNe,
	"<":  core.CompareLt,
	"<=": core.CompareLe,
	">":  core.CompareGt,
	">=": core.CompareGe,
}

// resolveVariable binds a dotted identifier. A single name is a local
// parameter, an injected test input, or a builtin constant. A
// two-level `ident.alias` path is a parameter of a referenced model.
func (rs *fileResolveState) resolveVariable(e *ast.Expr, injected []string) (*decl.Variable, error) {
	name := strings.Join(e.Ident, ".")
	switch len(e.Ident) {
	case 1:
		id := e.Ident[0]
		if rs.paramIDs[id] {
			return &decl.Variable{Kind: decl.VarLocal, Name: id}, nil
		}
		for _, inj := range injected {
			if inj == id {
				return &decl.Variable{Kind: decl.VarLocal, Name: id}, nil
			}
		}
		if _, ok := rs.loader.registry.Value(id); ok {
			return &decl.Variable{Kind: decl.VarBuiltin, Name: id}, nil
		}

	case 2:
		paramID, alias := e.Ident[0], e.Ident[1]
		path, ok := rs.model.References[alias]
		if !ok {
			break
		}
		foreign := rs.loader.loaded[path]
		if foreign == nil {
			// references resolve before expressions, so a missing
			// entry is a resolver bug
			panic(fmt.Sprintf("reference %q resolved to unloaded model %q", alias, path))
		}
		if _, ok := foreign.Parameter(paramID); !ok {
			return nil, &UnknownIdentifierError{Name: name, Path: rs.model.Path, Span: e.Span}
		}
		return &decl.Variable{Kind: decl.VarExternal, Model: path, Name: paramID}, nil
	}
	return nil, &UnknownIdentifierError{Name: name, Path: rs.model.Path, Span: e.Span}
}

// resolveCall binds a function name: builtin registry first, then the
// model's Python imports.
func (rs *fileResolveState) resolveCall(e *ast.Expr, injected []string) (*decl.CallExpr, error) {
	args := make([]*decl.Expr, 0, len(e.Args))
	for _, arg := range e.Args {
		resolved, err := rs.resolveExpr(arg, injected)
		if err != nil {
			return nil, err
		}
		args = append(args, resolved)
	}

	name := strings.Join(e.Fn, ".")
	if len(e.Fn) == 1 && rs.loader.registry.HasFunction(e.Fn[0]) {
		return &decl.CallExpr{Kind: decl.CallBuiltin, Name: e.Fn[0], Args: args}, nil
	}
	if len(rs.model.PythonImports) > 0 {
		// foreign functions are opaque until evaluation
		return &decl.CallExpr{Kind: decl.CallImported, Name: name, Args: args}, nil
	}
	return nil, &UnknownIdentifierError{Name: name, Path: rs.model.Path, Span: e.Span}
}

// collectDependencies gathers the local parameter ids a value mentions.
func collectDependencies(v *decl.ParameterValue) []string {
	seen := make(map[string]bool)
	visit := func(e *decl.Expr) {
		if e.Kind == decl.ExprVariable && e.Variable.Kind == decl.VarLocal {
			seen[e.Variable.Name] = true
		}
	}
	if v.Simple != nil {
		v.Simple.Walk(visit)
	}
	for _, piece := range v.Pieces {
		piece.Cond.Walk(visit)
		piece.Expr.Walk(visit)
	}
	if v.Otherwise != nil {
		v.Otherwise.Walk(visit)
	}
	deps := make([]string, 0, len(seen))
	for id := range seen {
		deps = append(deps, id)
	}
	sort.Strings(deps)
	return deps
}
