package loader

import (
	"github.com/careweather/oneil/ast"
	"github.com/careweather/oneil/core"
)

// normaliseUnit folds a flattened unit expression into a single sized
// unit by looking each factor up in the registry and combining
// magnitudes and exponents. A nil factor list is dimensionless.
func (rs *fileResolveState) normaliseUnit(factors []ast.UnitFactor) (*core.SizedUnit, error) {
	if len(factors) == 0 {
		return core.Unity(), nil
	}
	result := core.Unity()
	for _, factor := range factors {
		entry, ok := rs.loader.registry.Unit(factor.Name)
		if !ok {
			return nil, &UnknownUnitError{Name: factor.Name, Path: rs.model.Path, Span: factor.Span}
		}
		exp := factor.Exp
		if exp == 0 {
			exp = 1
		}
		part := entry
		if exp != 1 {
			part = entry.Pow(exp)
		}
		if factor.Denom {
			result = result.Div(part)
		} else {
			result = result.Mul(part)
		}
	}
	// a single plain factor keeps its shared registry entry so that
	// aliases stay pointer-identical
	if len(factors) == 1 && !factors[0].Denom && (factors[0].Exp == 0 || factors[0].Exp == 1) {
		entry, _ := rs.loader.registry.Unit(factors[0].Name)
		return entry, nil
	}
	return result, nil
}
