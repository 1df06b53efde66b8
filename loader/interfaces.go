// Package loader resolves a set of parsed model files into the IR: it
// walks the import graph, detects cycles, resolves every identifier,
// and normalises unit expressions against the builtin registry.
package loader

import (
	"io"

	"github.com/careweather/oneil/ast"
)

// Parser turns model source into an AST. Parsing is an external
// collaborator; implementations adapt whatever frontend is in use.
type Parser interface {
	Parse(input io.Reader, sourceName string) (*ast.File, error)
}

// FileResolver maps import targets to canonical paths and content.
// Implementations own the extension and directory-prefix conventions.
type FileResolver interface {
	// Resolve opens the model file imported as target from the file
	// at importerPath, returning its content and canonical path.
	Resolve(importerPath, target string) (io.ReadCloser, string, error)

	// Exists reports whether a referenced side file (a Python
	// function import) is present. The content is opaque here.
	Exists(importerPath, target string) bool
}
