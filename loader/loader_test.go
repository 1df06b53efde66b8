package loader

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gtassert "gotest.tools/v3/assert"

	"github.com/careweather/oneil/ast"
	"github.com/careweather/oneil/builtin"
	"github.com/careweather/oneil/core"
	"github.com/careweather/oneil/decl"
)

// memParser serves pre-built ASTs by canonical path and counts parse
// calls so memoisation is observable.
type memParser struct {
	files  map[string]*ast.File
	parsed map[string]int
}

func (p *memParser) Parse(_ io.Reader, sourceName string) (*ast.File, error) {
	if p.parsed == nil {
		p.parsed = make(map[string]int)
	}
	p.parsed[sourceName]++
	f, ok := p.files[sourceName]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return f, nil
}

// memResolver treats targets as canonical paths; sideFiles emulates
// Python function files.
type memResolver struct {
	known     map[string]bool
	sideFiles map[string]bool
}

func (r *memResolver) Resolve(_, target string) (io.ReadCloser, string, error) {
	if !r.known[target] {
		return nil, "", io.ErrUnexpectedEOF
	}
	return io.NopCloser(strings.NewReader("")), target, nil
}

func (r *memResolver) Exists(_, target string) bool {
	return r.sideFiles[target]
}

func newTestLoader(files map[string]*ast.File, sideFiles ...string) (*Loader, *memParser) {
	known := make(map[string]bool, len(files))
	for path := range files {
		known[path] = true
	}
	side := make(map[string]bool, len(sideFiles))
	for _, f := range sideFiles {
		side[f] = true
	}
	parser := &memParser{files: files}
	return New(parser, &memResolver{known: known, sideFiles: side}, builtin.Std(), nil), parser
}

// AST construction helpers.

func num(v float64) *ast.Expr { return &ast.Expr{Kind: ast.ExprNumber, Number: v} }

func ident(path ...string) *ast.Expr { return &ast.Expr{Kind: ast.ExprIdent, Ident: path} }

func bin(op string, left, right *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprBinary, Op: op, Left: left, Right: right}
}

func param(id string, value *ast.Expr, unitNames ...string) ast.Decl {
	p := &ast.ParameterDecl{ID: id, Name: id, Value: value}
	for _, name := range unitNames {
		p.Unit = append(p.Unit, ast.UnitFactor{Name: name})
	}
	return ast.Decl{Kind: ast.DeclParameter, Parameter: p}
}

func use(target string, with ...ast.WithItem) ast.Decl {
	return ast.Decl{Kind: ast.DeclImportUse, Target: target, With: with}
}

func ref(target, alias string) ast.Decl {
	return ast.Decl{Kind: ast.DeclImportRef, Target: target, Alias: alias}
}

func TestLoadSingleModel(t *testing.T) {
	files := map[string]*ast.File{
		"cyl.on": {Path: "cyl.on", Decls: []ast.Decl{
			param("D", num(0.5), "km"),
			param("r", bin("/", ident("D"), num(2)), "km"),
		}},
	}
	l, _ := newTestLoader(files)

	res, err := l.Load("cyl.on")
	require.NoError(t, err)
	require.Len(t, res.Models, 1)

	model := res.Models["cyl.on"]
	require.NotNil(t, model)
	require.Len(t, model.Parameters, 2)

	d, ok := model.Parameter("D")
	require.True(t, ok)
	assert.InDelta(t, 1000, d.Display.Magnitude, 1e-9)
	assert.Empty(t, d.Dependencies)

	r, ok := model.Parameter("r")
	require.True(t, ok)
	assert.Equal(t, []string{"D"}, r.Dependencies)
	require.Equal(t, decl.ExprBinary, r.Value.Simple.Kind)
	assert.Equal(t, decl.OpDiv, r.Value.Simple.Binary.Op)
}

func TestReferenceImportResolvesForeignParameter(t *testing.T) {
	files := map[string]*ast.File{
		"battery.on": {Path: "battery.on", Decls: []ast.Decl{
			param("m", num(2), "kg"),
		}},
		"sat.on": {Path: "sat.on", Decls: []ast.Decl{
			ref("battery.on", "bat"),
			param("total", bin("*", ident("m", "bat"), num(3)), "kg"),
		}},
	}
	l, _ := newTestLoader(files)

	res, err := l.Load("sat.on")
	require.NoError(t, err)

	sat := res.Models["sat.on"]
	assert.Equal(t, "battery.on", sat.References["bat"])
	assert.Empty(t, sat.Submodels)

	total, _ := sat.Parameter("total")
	left := total.Value.Simple.Binary.Left
	require.Equal(t, decl.ExprVariable, left.Kind)
	assert.Equal(t, decl.VarExternal, left.Variable.Kind)
	assert.Equal(t, "battery.on", left.Variable.Model)
	assert.Equal(t, "m", left.Variable.Name)
}

func TestUseAddsSubmodelAndImplicitReference(t *testing.T) {
	files := map[string]*ast.File{
		"battery.on": {Path: "battery.on", Decls: []ast.Decl{
			param("m", num(2), "kg"),
		}},
		"sat.on": {Path: "sat.on", Decls: []ast.Decl{
			use("battery.on", ast.WithItem{Name: "margin", Alias: "delta"}),
			param("margin", num(0.1)),
		}},
	}
	l, _ := newTestLoader(files)

	res, err := l.Load("sat.on")
	require.NoError(t, err)

	sat := res.Models["sat.on"]
	sub, ok := sat.Submodels["battery"]
	require.True(t, ok)
	assert.Equal(t, "battery.on", sub.Path)
	assert.Equal(t, map[string]string{"delta": "margin"}, sub.Injections)
	assert.Equal(t, "battery.on", sat.References["battery"])
}

func TestCycleDetection(t *testing.T) {
	files := map[string]*ast.File{
		"a.on": {Path: "a.on", Decls: []ast.Decl{use("b.on")}},
		"b.on": {Path: "b.on", Decls: []ast.Decl{use("a.on")}},
	}
	l, _ := newTestLoader(files)

	_, err := l.Load("a.on")
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a.on", "b.on", "a.on"}, cycle.Chain)
}

func TestSelfImportIsACycle(t *testing.T) {
	files := map[string]*ast.File{
		"a.on": {Path: "a.on", Decls: []ast.Decl{use("a.on")}},
	}
	l, _ := newTestLoader(files)

	_, err := l.Load("a.on")
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a.on", "a.on"}, cycle.Chain)
}

func TestUnknownIdentifier(t *testing.T) {
	files := map[string]*ast.File{
		"m.on": {Path: "m.on", Decls: []ast.Decl{
			param("x", ident("nope")),
		}},
	}
	l, _ := newTestLoader(files)

	_, err := l.Load("m.on")
	var unknown *UnknownIdentifierError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)
}

func TestUnknownUnit(t *testing.T) {
	files := map[string]*ast.File{
		"m.on": {Path: "m.on", Decls: []ast.Decl{
			param("x", num(1), "flurbs"),
		}},
	}
	l, _ := newTestLoader(files)

	_, err := l.Load("m.on")
	var unknown *UnknownUnitError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "flurbs", unknown.Name)
}

func TestBuiltinConstantResolves(t *testing.T) {
	files := map[string]*ast.File{
		"m.on": {Path: "m.on", Decls: []ast.Decl{
			param("c", bin("*", num(2), ident("pi"))),
		}},
	}
	l, _ := newTestLoader(files)

	res, err := l.Load("m.on")
	require.NoError(t, err)
	c, _ := res.Models["m.on"].Parameter("c")
	right := c.Value.Simple.Binary.Right
	assert.Equal(t, decl.VarBuiltin, right.Variable.Kind)
	// builtins are not local dependencies
	assert.Empty(t, c.Dependencies)
}

func TestPythonImportValidation(t *testing.T) {
	files := map[string]*ast.File{
		"m.on": {Path: "m.on", Decls: []ast.Decl{
			{Kind: ast.DeclImportPython, Target: "fns.py"},
			param("x", &ast.Expr{Kind: ast.ExprCall, Fn: []string{"orbit_decay"}, Args: []*ast.Expr{num(1)}}),
		}},
	}

	// present: resolves as an imported call
	l, _ := newTestLoader(files, "fns.py")
	res, err := l.Load("m.on")
	require.NoError(t, err)
	x, _ := res.Models["m.on"].Parameter("x")
	assert.Equal(t, decl.CallImported, x.Value.Simple.Call.Kind)

	// absent: resolution fails
	l, _ = newTestLoader(files)
	_, err = l.Load("m.on")
	var missing *PythonImportMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "fns.py", missing.Target)
}

func TestDuplicateParameter(t *testing.T) {
	files := map[string]*ast.File{
		"m.on": {Path: "m.on", Decls: []ast.Decl{
			param("x", num(1)),
			param("x", num(2)),
		}},
	}
	l, _ := newTestLoader(files)

	_, err := l.Load("m.on")
	var dup *DuplicateParameterError
	assert.ErrorAs(t, err, &dup)
}

func TestSharedDependencyResolvesOnce(t *testing.T) {
	files := map[string]*ast.File{
		"shared.on": {Path: "shared.on", Decls: []ast.Decl{param("x", num(1))}},
		"a.on":      {Path: "a.on", Decls: []ast.Decl{ref("shared.on", "s")}},
		"b.on":      {Path: "b.on", Decls: []ast.Decl{ref("shared.on", "s")}},
		"root.on":   {Path: "root.on", Decls: []ast.Decl{use("a.on"), use("b.on")}},
	}
	l, parser := newTestLoader(files)

	_, err := l.Load("root.on")
	require.NoError(t, err)
	assert.Equal(t, 1, parser.parsed["shared.on"])
}

func TestResolverIdempotence(t *testing.T) {
	files := map[string]*ast.File{
		"battery.on": {Path: "battery.on", Decls: []ast.Decl{param("m", num(2), "kg")}},
		"sat.on": {Path: "sat.on", Decls: []ast.Decl{
			use("battery.on"),
			param("total", bin("*", ident("m", "battery"), num(3)), "kg"),
		}},
	}
	l, _ := newTestLoader(files)

	first, err := l.Load("sat.on")
	require.NoError(t, err)
	second, err := l.Load("sat.on")
	require.NoError(t, err)

	gtassert.DeepEqual(t, first.Models, second.Models,
		cmp.AllowUnexported(core.Value{}, core.MeasuredNumber{}, core.Number{}, core.Interval{}, core.Unit{}))
}

func TestContinuousLimitsFoldIntoBaseUnits(t *testing.T) {
	files := map[string]*ast.File{
		"m.on": {Path: "m.on", Decls: []ast.Decl{
			{Kind: ast.DeclParameter, Parameter: &ast.ParameterDecl{
				ID: "d", Name: "d", Value: num(1),
				Unit:   []ast.UnitFactor{{Name: "km"}},
				Limits: &ast.LimitsDecl{Min: num(0), Max: num(2)},
			}},
		}},
	}
	l, _ := newTestLoader(files)

	res, err := l.Load("m.on")
	require.NoError(t, err)
	d, _ := res.Models["m.on"].Parameter("d")
	require.NotNil(t, d.Limits.Continuous)
	assert.Equal(t, 0.0, d.Limits.Continuous.Lo())
	assert.Equal(t, 2000.0, d.Limits.Continuous.Hi())
}

func TestDiscreteLimits(t *testing.T) {
	files := map[string]*ast.File{
		"m.on": {Path: "m.on", Decls: []ast.Decl{
			{Kind: ast.DeclParameter, Parameter: &ast.ParameterDecl{
				ID: "mat", Name: "material",
				Value:  &ast.Expr{Kind: ast.ExprString, Str: "aluminum"},
				Limits: &ast.LimitsDecl{Values: []string{"aluminum", "titanium"}},
			}},
		}},
	}
	l, _ := newTestLoader(files)

	res, err := l.Load("m.on")
	require.NoError(t, err)
	mat, _ := res.Models["m.on"].Parameter("mat")
	assert.Equal(t, []string{"aluminum", "titanium"}, mat.Limits.Discrete)
}

func TestCompositeUnitNormalisation(t *testing.T) {
	files := map[string]*ast.File{
		"m.on": {Path: "m.on", Decls: []ast.Decl{
			{Kind: ast.DeclParameter, Parameter: &ast.ParameterDecl{
				ID: "v", Name: "v", Value: num(1),
				Unit: []ast.UnitFactor{{Name: "km"}, {Name: "hr", Denom: true}},
			}},
		}},
	}
	l, _ := newTestLoader(files)

	res, err := l.Load("m.on")
	require.NoError(t, err)
	v, _ := res.Models["m.on"].Parameter("v")
	assert.InDelta(t, 1000.0/3600.0, v.Display.Magnitude, 1e-12)
	assert.Equal(t, 1.0, v.Display.Unit.Exponent(core.Distance))
	assert.Equal(t, -1.0, v.Display.Unit.Exponent(core.Time))
}

func TestUnitAliasesKeepSharedEntry(t *testing.T) {
	files := map[string]*ast.File{
		"m.on": {Path: "m.on", Decls: []ast.Decl{
			param("a", num(1), "in"),
			param("b", num(2), "inches"),
		}},
	}
	l, _ := newTestLoader(files)

	res, err := l.Load("m.on")
	require.NoError(t, err)
	a, _ := res.Models["m.on"].Parameter("a")
	b, _ := res.Models["m.on"].Parameter("b")
	assert.Same(t, a.Display, b.Display)
}
