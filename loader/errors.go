package loader

import (
	"fmt"
	"strings"

	"github.com/careweather/oneil/ast"
)

// CycleError reports a cyclic import chain. The chain starts and ends
// at the same canonical path.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "import cycle: " + strings.Join(e.Chain, " -> ")
}

// UnknownIdentifierError reports an expression identifier that
// resolves to nothing: not a local parameter, not a reference path,
// not an imported function, not a builtin.
type UnknownIdentifierError struct {
	Name string
	Path string
	Span ast.Span
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("%s: unknown identifier %q at offset %d", e.Path, e.Name, e.Span.Start)
}

// UnknownUnitError reports a unit name missing from the registry.
type UnknownUnitError struct {
	Name string
	Path string
	Span ast.Span
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("%s: unknown unit %q at offset %d", e.Path, e.Name, e.Span.Start)
}

// ImportMissingError reports a reference or submodel import whose
// target file cannot be opened.
type ImportMissingError struct {
	Target string
	Path   string
	Span   ast.Span
	Err    error
}

func (e *ImportMissingError) Error() string {
	return fmt.Sprintf("%s: cannot import %q: %v", e.Path, e.Target, e.Err)
}

func (e *ImportMissingError) Unwrap() error { return e.Err }

// PythonImportMissingError reports a Python function import whose file
// does not exist.
type PythonImportMissingError struct {
	Target string
	Path   string
	Span   ast.Span
}

func (e *PythonImportMissingError) Error() string {
	return fmt.Sprintf("%s: python import %q does not exist", e.Path, e.Target)
}

// DuplicateParameterError reports two parameters sharing one id.
type DuplicateParameterError struct {
	ID   string
	Path string
	Span ast.Span
}

func (e *DuplicateParameterError) Error() string {
	return fmt.Sprintf("%s: duplicate parameter %q", e.Path, e.ID)
}

// BadLimitError reports a limit expression that does not reduce to a
// constant of the right shape.
type BadLimitError struct {
	Path   string
	Span   ast.Span
	Reason string
}

func (e *BadLimitError) Error() string {
	return fmt.Sprintf("%s: invalid limit: %s", e.Path, e.Reason)
}
