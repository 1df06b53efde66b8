package loader

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/careweather/oneil/builtin"
	"github.com/careweather/oneil/decl"
)

// Result holds the outcome of a load: every model reachable from the
// root, keyed by canonical path.
type Result struct {
	Root   string
	Models map[string]*decl.Model
}

// Loader parses and recursively resolves imported model files.
// Capabilities (parser, file resolver, registry) are injected at
// construction; the loader itself holds only memoisation state.
type Loader struct {
	parser   Parser
	files    FileResolver
	registry *builtin.Registry
	log      logrus.FieldLogger

	// loaded memoises finished models per canonical path; loading is
	// the in-progress stack used for cycle detection.
	loaded  map[string]*decl.Model
	loading []string
}

// New creates a loader over the given capabilities.
func New(parser Parser, files FileResolver, registry *builtin.Registry, log logrus.FieldLogger) *Loader {
	if log == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.WarnLevel)
		log = logger
	}
	return &Loader{
		parser:   parser,
		files:    files,
		registry: registry,
		log:      log,
		loaded:   make(map[string]*decl.Model),
	}
}

// Load resolves the root model and everything it imports. Resolution
// stops at the first error.
func (l *Loader) Load(rootPath string) (*Result, error) {
	// reset state so one loader can serve repeated loads
	l.loaded = make(map[string]*decl.Model)
	l.loading = nil

	root, err := l.loadRecursive(rootPath, rootPath)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", rootPath, err)
	}

	return &Result{Root: root.Path, Models: l.loaded}, nil
}

// loadRecursive loads one model, memoised by canonical path. Re-entry
// through the in-progress stack is an import cycle.
func (l *Loader) loadRecursive(importerPath, target string) (*decl.Model, error) {
	content, canonical, err := l.files.Resolve(importerPath, target)
	if err != nil {
		return nil, &ImportMissingError{Target: target, Path: importerPath, Err: err}
	}
	defer content.Close()

	if model, ok := l.loaded[canonical]; ok {
		return model, nil
	}

	for i, pending := range l.loading {
		if pending == canonical {
			chain := append(append([]string{}, l.loading[i:]...), canonical)
			return nil, &CycleError{Chain: chain}
		}
	}
	l.loading = append(l.loading, canonical)
	defer func() { l.loading = l.loading[:len(l.loading)-1] }()

	l.log.WithField("model", canonical).Debug("parsing model")
	file, err := l.parser.Parse(content, canonical)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", canonical, err)
	}

	model, err := l.resolveFile(file, canonical)
	if err != nil {
		return nil, err
	}

	l.loaded[canonical] = model
	return model, nil
}
