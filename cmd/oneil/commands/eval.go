package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	gfn "github.com/panyam/goutils/fn"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/careweather/oneil/ast"
	"github.com/careweather/oneil/builtin"
	"github.com/careweather/oneil/loader"
	"github.com/careweather/oneil/runtime"
)

var evalCmd = &cobra.Command{
	Use:   "eval <model>",
	Short: "Evaluate a model and print the result tree",
	Long: `Evaluate a model and print the result tree as YAML.

The model is read as a JSON AST produced by an external parser
(the .on.json interchange format).`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	files := loader.NewOSFileResolver()
	files.Extensions = cfg.Extensions

	l := loader.New(&jsonASTParser{}, files, builtin.Std(), logger)
	res, err := l.Load(args[0])
	if err != nil {
		return err
	}

	eval := runtime.New(res, builtin.Std(), runtime.WithLogger(logger))
	out, err := eval.Evaluate(res.Root)
	if err != nil {
		return err
	}

	report := buildReport(out)
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer enc.Close()
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	printTestSummary(cmd.ErrOrStderr(), out)
	return nil
}

// jsonASTParser adapts the ast JSON codec to the loader's Parser
// capability.
type jsonASTParser struct{}

func (jsonASTParser) Parse(input io.Reader, sourceName string) (*ast.File, error) {
	f, err := ast.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", sourceName, err)
	}
	return f, nil
}

// report is the YAML shape of an evaluated model.
type report struct {
	Model       string             `yaml:"model"`
	Values      map[string]string  `yaml:"values,omitempty"`
	Errors      map[string]string  `yaml:"errors,omitempty"`
	Performance []string           `yaml:"performance,omitempty"`
	Tests       []testReport       `yaml:"tests,omitempty"`
	Submodels   map[string]*report `yaml:"submodels,omitempty"`
}

type testReport struct {
	Index     int               `yaml:"index"`
	Status    string            `yaml:"status"`
	Reason    string            `yaml:"reason,omitempty"`
	Witnesses map[string]string `yaml:"witnesses,omitempty"`
}

func buildReport(m *runtime.EvaluatedModel) *report {
	r := &report{
		Model:       m.Path,
		Values:      make(map[string]string, len(m.Values)),
		Performance: m.Performance,
	}
	for id, v := range m.Values {
		r.Values[id] = v.String()
	}
	if len(m.Errors) > 0 {
		r.Errors = make(map[string]string, len(m.Errors))
		for id, err := range m.Errors {
			r.Errors[id] = err.Error()
		}
	}
	r.Tests = gfn.Map(m.Tests, func(t runtime.TestResult) testReport {
		tr := testReport{Index: t.Index, Status: t.Status.String(), Reason: t.Reason}
		if len(t.Witnesses) > 0 {
			tr.Witnesses = make(map[string]string, len(t.Witnesses))
			for name, v := range t.Witnesses {
				tr.Witnesses[name] = v.String()
			}
		}
		return tr
	})
	if len(m.Submodels) > 0 {
		r.Submodels = make(map[string]*report, len(m.Submodels))
		for name, child := range m.Submodels {
			r.Submodels[name] = buildReport(child)
		}
	}
	return r
}

// printTestSummary renders one coloured line per test across the tree.
func printTestSummary(w io.Writer, m *runtime.EvaluatedModel) {
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed, color.Bold)
	skip := color.New(color.FgYellow)

	var walk func(prefix string, node *runtime.EvaluatedModel)
	walk = func(prefix string, node *runtime.EvaluatedModel) {
		for _, t := range node.Tests {
			label := fmt.Sprintf("%stest %d", prefix, t.Index)
			switch t.Status {
			case runtime.TestPassed:
				pass.Fprintf(w, "PASS %s\n", label)
			case runtime.TestFailed:
				fail.Fprintf(w, "FAIL %s\n", label)
			case runtime.TestSkipped:
				skip.Fprintf(w, "SKIP %s (%s)\n", label, t.Reason)
			}
		}
		names := make([]string, 0, len(node.Submodels))
		for name := range node.Submodels {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			walk(prefix+name+".", node.Submodels[name])
		}
	}
	walk("", m)
}
