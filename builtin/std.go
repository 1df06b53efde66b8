package builtin

import (
	"math"

	"github.com/careweather/oneil/core"
)

// Std returns the standard registry: the constants, functions, units,
// and SI prefixes that ship with the language.
func Std() *Registry {
	return New(stdValues(), stdFunctions(), stdUnits(), stdPrefixes())
}

func stdValues() map[string]core.Value {
	return map[string]core.Value{
		"pi":  core.ScalarValue(math.Pi),
		"e":   core.ScalarValue(math.E),
		"inf": core.ScalarValue(math.Inf(1)),
	}
}

func stdPrefixes() map[string]float64 {
	return map[string]float64{
		"q": 1e-30, // quecto
		"r": 1e-27, // ronto
		"y": 1e-24, // yocto
		"z": 1e-21, // zepto
		"a": 1e-18, // atto
		"f": 1e-15, // femto
		"p": 1e-12, // pico
		"n": 1e-9,  // nano
		"u": 1e-6,  // micro
		"m": 1e-3,  // milli
		"k": 1e3,   // kilo
		"M": 1e6,   // mega
		"G": 1e9,   // giga
		"T": 1e12,  // tera
		"P": 1e15,  // peta
		"E": 1e18,  // exa
		"Z": 1e21,  // zetta
		"Y": 1e24,  // yotta
		"R": 1e27,  // ronna
		"Q": 1e30,  // quetta
	}
}

type unitInfo struct {
	names     []string
	magnitude float64
	unit      core.Unit
	db        bool
}

func dims(pairs map[core.Dimension]float64) core.Unit {
	return core.NewUnit(pairs)
}

func stdUnits() map[string]*core.SizedUnit {
	infos := []unitInfo{
		// base units
		// the kilogram is the base unit of mass, so the gram is 1e-3 of it
		{names: []string{"g", "gram", "grams"}, magnitude: 1e-3, unit: dims(map[core.Dimension]float64{core.Mass: 1})},
		{names: []string{"m", "meter", "meters", "metre", "metres"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Distance: 1})},
		{names: []string{"s", "second", "seconds", "sec", "secs"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Time: 1})},
		{names: []string{"K", "Kelvin"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Temperature: 1})},
		{names: []string{"A", "Ampere", "Amp"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Current: 1})},
		{names: []string{"b", "bit", "bits"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Information: 1})},
		{names: []string{"$", "dollar", "dollars"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Currency: 1})},
		{names: []string{"mol", "mole", "moles"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Substance: 1})},
		{names: []string{"cd", "candela"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.LuminousIntensity: 1})},

		// derived units
		{names: []string{"V", "Volt", "Volts"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: 2, core.Time: -3, core.Current: -1})},
		{names: []string{"W", "Watt", "Watts"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: 2, core.Time: -3})},
		// Hz is 2*pi rad/s, not 1/s; alternate registries must keep this
		{names: []string{"Hz", "Hertz"}, magnitude: 2 * math.Pi, unit: dims(map[core.Dimension]float64{core.Time: -1})},
		{names: []string{"J", "Joule", "Joules"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: 2, core.Time: -2})},
		{names: []string{"Wh", "Watt-hour", "Watt-hours"}, magnitude: 3600, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: 2, core.Time: -2})},
		{names: []string{"Ah", "Amp-hour", "Amp-hours"}, magnitude: 3600, unit: dims(map[core.Dimension]float64{core.Current: 1, core.Time: 1})},
		{names: []string{"T", "Tesla", "Teslas"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Time: -2, core.Current: -1})},
		{names: []string{"Ohm", "Ohms"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: 2, core.Time: -3, core.Current: -2})},
		{names: []string{"N", "Newton", "Newtons"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: 1, core.Time: -2})},
		{names: []string{"Gs", "Gauss"}, magnitude: 1e-4, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Time: -2, core.Current: -1})},
		{names: []string{"lm", "Lumen", "Lumens"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.LuminousIntensity: 1})},
		{names: []string{"lx", "Lux"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.LuminousIntensity: 1, core.Distance: -2})},
		{names: []string{"bps"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Information: 1, core.Time: -1})},
		{names: []string{"B", "byte", "bytes"}, magnitude: 8, unit: dims(map[core.Dimension]float64{core.Information: 1})},
		{names: []string{"Pa", "Pascal", "Pascals"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: -1, core.Time: -2})},

		// legacy units
		{names: []string{"mil", "millennium", "millennia"}, magnitude: 3.1556952e10, unit: dims(map[core.Dimension]float64{core.Time: 1})},
		{names: []string{"cen", "century", "centuries"}, magnitude: 3.1556952e9, unit: dims(map[core.Dimension]float64{core.Time: 1})},
		{names: []string{"dec", "decade", "decades"}, magnitude: 3.1556952e8, unit: dims(map[core.Dimension]float64{core.Time: 1})},
		{names: []string{"yr", "year", "years"}, magnitude: 3.1556952e7, unit: dims(map[core.Dimension]float64{core.Time: 1})},
		{names: []string{"mon", "month", "months"}, magnitude: 2.629746e6, unit: dims(map[core.Dimension]float64{core.Time: 1})},
		{names: []string{"week", "weeks"}, magnitude: 6.048e5, unit: dims(map[core.Dimension]float64{core.Time: 1})},
		{names: []string{"day", "days"}, magnitude: 8.64e4, unit: dims(map[core.Dimension]float64{core.Time: 1})},
		{names: []string{"hr", "hour", "hours"}, magnitude: 3600, unit: dims(map[core.Dimension]float64{core.Time: 1})},
		{names: []string{"min", "minute", "minutes"}, magnitude: 60, unit: dims(map[core.Dimension]float64{core.Time: 1})},
		{names: []string{"rpm"}, magnitude: 2 * math.Pi / 60, unit: dims(map[core.Dimension]float64{core.Time: -1})},
		{names: []string{"k$"}, magnitude: 1e3, unit: dims(map[core.Dimension]float64{core.Currency: 1})},
		{names: []string{"M$"}, magnitude: 1e6, unit: dims(map[core.Dimension]float64{core.Currency: 1})},
		{names: []string{"B$"}, magnitude: 1e9, unit: dims(map[core.Dimension]float64{core.Currency: 1})},
		{names: []string{"T$"}, magnitude: 1e12, unit: dims(map[core.Dimension]float64{core.Currency: 1})},
		// Earth surface gravity, an acceleration
		{names: []string{"g_E"}, magnitude: 9.81, unit: dims(map[core.Dimension]float64{core.Distance: 1, core.Time: -2})},
		{names: []string{"cm", "centimeter", "centimeters", "centimetre", "centimetres"}, magnitude: 0.01, unit: dims(map[core.Dimension]float64{core.Distance: 1})},
		{names: []string{"psi"}, magnitude: 6894.757293168361, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: -1, core.Time: -2})},
		{names: []string{"atm", "atmosphere", "atmospheres"}, magnitude: 101325, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: -1, core.Time: -2})},
		{names: []string{"bar", "bars"}, magnitude: 1e5, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: -1, core.Time: -2})},
		{names: []string{"Ba", "barye", "baryes"}, magnitude: 0.1, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: -1, core.Time: -2})},
		{names: []string{"dyne", "dynes"}, magnitude: 1e-5, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: 1, core.Time: -2})},
		{names: []string{"mmHg"}, magnitude: 133.322387415, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: -1, core.Time: -2})},
		{names: []string{"torr", "torrs"}, magnitude: 133.3224, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: -1, core.Time: -2})},
		{names: []string{"in", "inch", "inches"}, magnitude: 0.0254, unit: dims(map[core.Dimension]float64{core.Distance: 1})},
		{names: []string{"ft", "foot", "feet"}, magnitude: 0.3048, unit: dims(map[core.Dimension]float64{core.Distance: 1})},
		{names: []string{"yd", "yard", "yards"}, magnitude: 0.9144, unit: dims(map[core.Dimension]float64{core.Distance: 1})},
		{names: []string{"mi", "mile", "miles"}, magnitude: 1609.344, unit: dims(map[core.Dimension]float64{core.Distance: 1})},
		{names: []string{"nmi"}, magnitude: 1852, unit: dims(map[core.Dimension]float64{core.Distance: 1})},
		{names: []string{"lb", "lbs", "pound", "pounds"}, magnitude: 0.45359237, unit: dims(map[core.Dimension]float64{core.Mass: 1})},
		{names: []string{"mph"}, magnitude: 0.44704, unit: dims(map[core.Dimension]float64{core.Distance: 1, core.Time: -1})},

		// dimensionless units
		{names: []string{"rev", "revolution", "revolutions", "rotation", "rotations"}, magnitude: 2 * math.Pi, unit: core.Dimensionless()},
		{names: []string{"cyc", "cycle", "cycles"}, magnitude: 2 * math.Pi, unit: core.Dimensionless()},
		{names: []string{"rad", "radian", "radians"}, magnitude: 1, unit: core.Dimensionless()},
		{names: []string{"deg", "degree", "degrees"}, magnitude: math.Pi / 180, unit: core.Dimensionless()},
		{names: []string{"%", "percent"}, magnitude: 0.01, unit: core.Dimensionless()},
		{names: []string{"ppm"}, magnitude: 1e-6, unit: core.Dimensionless()},
		{names: []string{"ppb"}, magnitude: 1e-9, unit: core.Dimensionless()},
		{names: []string{"arcmin", "arcminute", "arcminutes"}, magnitude: math.Pi / 180 / 60, unit: core.Dimensionless()},
		{names: []string{"arcsec", "arcsecond", "arcseconds"}, magnitude: math.Pi / 180 / 3600, unit: core.Dimensionless()},

		// logarithmic display units; stored values are linear
		{names: []string{"dB"}, magnitude: 1, unit: core.Dimensionless(), db: true},
		{names: []string{"dBW"}, magnitude: 1, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: 2, core.Time: -3}), db: true},
		{names: []string{"dBm"}, magnitude: 1e-3, unit: dims(map[core.Dimension]float64{core.Mass: 1, core.Distance: 2, core.Time: -3}), db: true},
	}

	units := make(map[string]*core.SizedUnit)
	for _, info := range infos {
		// all aliases share a single entry
		shared := &core.SizedUnit{
			Name:      info.names[0],
			Magnitude: info.magnitude,
			Unit:      info.unit,
			DB:        info.db,
		}
		for _, name := range info.names {
			units[name] = shared
		}
	}
	return units
}
