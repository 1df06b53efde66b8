// Package decl holds the intermediate representation the resolver
// produces: per-model groupings of imports, parameters, and tests,
// with every identifier resolved and every unit expression normalised.
// IR values are immutable once built.
package decl

// Model is one resolved model.
type Model struct {
	// Path is the canonical absolute path of the source file.
	Path string

	// Parameters in source order; the evaluator computes the
	// dependency order.
	Parameters []*Parameter

	// Tests in source order.
	Tests []*Test

	// References maps a local alias to the absolute path of the model
	// it exposes. Every submodel import adds an implicit entry here
	// under its name (or alias).
	References map[string]string

	// Submodels maps a submodel name to its import.
	Submodels map[string]SubmodelImport

	// PythonImports lists imported Python function files as written,
	// validated to exist. The files are opaque at resolution time.
	PythonImports []string
}

// SubmodelImport nests a foreign model as a child.
type SubmodelImport struct {
	// Path is the absolute path of the nested model.
	Path string

	// Injections bind the child's injected test inputs to parameters
	// of this model: child input name -> local parameter id. They come
	// from the `with [a, b as c]` clause on the `use`.
	Injections map[string]string
}

// Parameter looks up a parameter by its local id.
func (m *Model) Parameter(id string) (*Parameter, bool) {
	for _, p := range m.Parameters {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}
