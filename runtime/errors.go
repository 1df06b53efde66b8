package runtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/careweather/oneil/core"
)

// ErrNotEvaluated marks a parameter skipped because something it
// depends on failed.
var ErrNotEvaluated = errors.New("not evaluated: an upstream parameter failed")

// CircularDependencyError reports a dependency cycle among the
// parameters of one model.
type CircularDependencyError struct {
	Model string
	IDs   []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("%s: circular parameter dependency: %s", e.Model, strings.Join(e.IDs, " -> "))
}

// LimitViolatedError reports an evaluated value outside its declared
// limits.
type LimitViolatedError struct {
	ID    string
	Value core.Value
	Limit string
}

func (e *LimitViolatedError) Error() string {
	return fmt.Sprintf("parameter %q evaluated to %s, outside its limit %s", e.ID, e.Value, e.Limit)
}

// NoPiecewiseMatchError reports a piecewise value in which no
// condition held and no otherwise arm was declared.
type NoPiecewiseMatchError struct {
	ID string
}

func (e *NoPiecewiseMatchError) Error() string {
	return fmt.Sprintf("parameter %q: no piecewise condition matched", e.ID)
}

// TestNotBooleanError reports a test expression that evaluated to a
// non-boolean.
type TestNotBooleanError struct {
	Model string
	Index int
	Got   core.ValueKind
}

func (e *TestNotBooleanError) Error() string {
	return fmt.Sprintf("%s: test %d evaluated to %s, expected boolean", e.Model, e.Index, e.Got)
}

// ParameterUnitMismatchError reports an expression whose unit
// disagrees with the parameter's declared unit.
type ParameterUnitMismatchError struct {
	ID       string
	Declared core.Unit
	Got      core.Unit
}

func (e *ParameterUnitMismatchError) Error() string {
	return fmt.Sprintf("parameter %q: expression has unit %s, declared %s", e.ID, e.Got, e.Declared)
}

// MissingInjectionError reports a test input no parent supplied. It
// marks the test skipped rather than failed.
type MissingInjectionError struct {
	Name string
}

func (e *MissingInjectionError) Error() string {
	return fmt.Sprintf("missing injection %q", e.Name)
}

// ParameterError wraps an evaluation failure with its parameter.
type ParameterError struct {
	Model string
	ID    string
	Err   error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: parameter %q: %v", e.Model, e.ID, e.Err)
}

func (e *ParameterError) Unwrap() error { return e.Err }

// ensureNoErr aborts on invariant violations: failures that indicate a
// bug in the resolver or evaluator rather than in the user's model.
func ensureNoErr(err error, msg string, args ...any) {
	if err != nil {
		panic(fmt.Sprintf(msg+": %v", append(args, err)...))
	}
}
