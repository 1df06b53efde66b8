package decl

import "github.com/careweather/oneil/ast"

// Test is one resolved model test: a boolean expression, plus the
// names of parameters a parent must inject before the test can run.
type Test struct {
	// Index is the test's position within its model, used to address
	// results.
	Index int

	Expr *Expr

	// Inputs are injected parameter names. A test with inputs that no
	// parent supplies is skipped rather than failed.
	Inputs []string

	Span ast.Span
}
