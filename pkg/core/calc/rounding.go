package calc

import (
	"math"

	"github.com/shopspring/decimal"
)

var half = decimal.New(5, -1)

// Round rounds v to the given number of decimal places, halves toward
// positive infinity (-0.125 becomes -0.12, 0.125 becomes 0.13). The value
// goes through its shortest decimal form first, so 2.675 becomes 2.68 rather
// than the 2.67 binary rounding would give. NaN and infinities round to 0 so
// they never reach a JSON encoder.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Shift(places).Add(half).Floor().Shift(-places).InexactFloat64()
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 { return Round(v, 1) }

// Round2 rounds to two decimal places, the precision of every monetary and
// percentage figure leaving the calculators.
func Round2(v float64) float64 { return Round(v, 2) }

// RoundInt rounds to the nearest whole number.
func RoundInt(v float64) float64 { return Round(v, 0) }

// RoundAll applies Round2 to each element in place and returns the slice.
func RoundAll(xs []float64) []float64 {
	for i, x := range xs {
		xs[i] = Round2(x)
	}
	return xs
}
