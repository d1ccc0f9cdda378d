// Package forecast turns a baseline value and a growth assumption into a
// monthly projection. Every function is pure: same inputs, same series.
// Values are rounded to two decimals only when emitted.
package forecast

import (
	"math"
	"strings"

	"manufacturing_kds/pkg/core/calc"
)

// Point is one projected month. Month runs from 1 to the horizon.
type Point struct {
	Month int     `json:"month"`
	Value float64 `json:"value"`
}

// Series is an ordered projection.
type Series []Point

// Values returns the projected values in month order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Last returns the final projected value, or 0 for an empty series.
func (s Series) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Value
}

// Named scenarios and their annual growth rates in percent.
const (
	ScenarioOptimistic  = "optimistic"
	ScenarioRealistic   = "realistic"
	ScenarioPessimistic = "pessimistic"
)

var scenarioRates = map[string]float64{
	ScenarioOptimistic:  15,
	ScenarioRealistic:   5,
	ScenarioPessimistic: -5,
}

func build(months int, value func(i int) float64) Series {
	if months <= 0 {
		return Series{}
	}
	out := make(Series, 0, months)
	for i := 1; i <= months; i++ {
		out = append(out, Point{Month: i, Value: calc.Round2(value(i))})
	}
	return out
}

// Linear spreads an annual percentage change evenly across months:
// value(i) = base * (1 + annualChangePercent/12 * i / 100). Results are not
// clamped, so a steep decline goes negative.
func Linear(base, annualChangePercent float64, months int) Series {
	monthly := annualChangePercent / 12
	return build(months, func(i int) float64 {
		return base * (1 + monthly*float64(i)/100)
	})
}

// MonthlyRate converts an annual percentage into the equivalent monthly
// compounding rate, as a fraction.
func MonthlyRate(annualPercent float64) float64 {
	return math.Pow(1+annualPercent/100, 1.0/12) - 1
}

// Compound applies monthly compounding equivalent to annualPercent, so the
// value at month 12 equals base * (1 + annualPercent/100).
func Compound(base, annualPercent float64, months int) Series {
	rate := MonthlyRate(annualPercent)
	return build(months, func(i int) float64 {
		return base * math.Pow(1+rate, float64(i))
	})
}

// ScenarioRate maps a scenario name to its annual rate. Unknown names fall
// back to the realistic scenario; the resolved name is returned alongside.
func ScenarioRate(name string) (float64, string) {
	key := strings.ToLower(strings.TrimSpace(name))
	if rate, ok := scenarioRates[key]; ok {
		return rate, key
	}
	return scenarioRates[ScenarioRealistic], ScenarioRealistic
}

// Scenario compounds base at the rate of the named scenario.
func Scenario(base float64, name string, months int) Series {
	rate, _ := ScenarioRate(name)
	return Compound(base, rate, months)
}

// Trend fits an ordinary least-squares line over the history (x = 0..n-1)
// and extends it for months 1..N at x = n-1+i, never below zero. Fewer than
// two historical points give an empty series.
func Trend(history []float64, months int) Series {
	if len(history) < 2 || months <= 0 {
		return Series{}
	}
	fit := calc.FitLine(history)
	last := float64(len(history) - 1)
	return build(months, func(i int) float64 {
		return math.Max(0, fit.At(last+float64(i)))
	})
}

// Crossover returns the first month whose value in rising exceeds the value
// in falling at the same position. ok is false when the series never cross
// within their common length.
func Crossover(falling, rising Series) (month int, ok bool) {
	n := min(len(falling), len(rising))
	for i := 0; i < n; i++ {
		if rising[i].Value > falling[i].Value {
			return rising[i].Month, true
		}
	}
	return 0, false
}
