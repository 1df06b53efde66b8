// Package builtin provides the registry of named constants, functions,
// units, and prefixes that models evaluate against. The registry is a
// capability: the resolver and evaluator take whichever registry they
// are handed, and Std() supplies the standard one.
package builtin

import (
	"errors"
	"fmt"

	"github.com/careweather/oneil/core"
)

// ErrUnimplemented marks a builtin that is named in the registry but
// has no implementation yet.
var ErrUnimplemented = errors.New("builtin is not implemented")

// UnimplementedError identifies which builtin was called.
type UnimplementedError struct {
	Name string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("builtin %q is not implemented", e.Name)
}

func (e *UnimplementedError) Unwrap() error { return ErrUnimplemented }

// ErrBadArgCount reports a builtin call with the wrong arity.
var ErrBadArgCount = errors.New("wrong number of arguments")

// Function is a builtin callable over evaluated values.
type Function func(args []core.Value) (core.Value, error)

// Registry holds the four builtin namespaces. It is immutable once
// constructed and may be shared freely across evaluations.
type Registry struct {
	values    map[string]core.Value
	functions map[string]Function
	units     map[string]*core.SizedUnit
	prefixes  map[string]float64
}

// New builds a registry from the four maps. Unit entries may be
// aliased: several names pointing at one shared SizedUnit.
func New(
	values map[string]core.Value,
	functions map[string]Function,
	units map[string]*core.SizedUnit,
	prefixes map[string]float64,
) *Registry {
	return &Registry{
		values:    values,
		functions: functions,
		units:     units,
		prefixes:  prefixes,
	}
}

// Value looks up a builtin constant.
func (r *Registry) Value(name string) (core.Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Function looks up a builtin function.
func (r *Registry) Function(name string) (Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// HasFunction reports whether a builtin function name exists, whether
// or not it is implemented.
func (r *Registry) HasFunction(name string) bool {
	_, ok := r.functions[name]
	return ok
}

// Unit resolves a unit name, trying the unit table directly and then a
// prefix split: "km" resolves as the "k" prefix applied to "m". A
// prefixed lookup scales the underlying unit's magnitude and returns a
// derived (unshared) SizedUnit.
func (r *Registry) Unit(name string) (*core.SizedUnit, bool) {
	if u, ok := r.units[name]; ok {
		return u, ok
	}
	for plen := 1; plen < len(name); plen++ {
		mag, ok := r.prefixes[name[:plen]]
		if !ok {
			continue
		}
		base, ok := r.units[name[plen:]]
		if !ok {
			continue
		}
		return &core.SizedUnit{
			Name:      name,
			Magnitude: mag * base.Magnitude,
			Unit:      base.Unit,
			DB:        base.DB,
		}, true
	}
	return nil, false
}

// Prefix looks up a prefix magnitude.
func (r *Registry) Prefix(name string) (float64, bool) {
	m, ok := r.prefixes[name]
	return m, ok
}
