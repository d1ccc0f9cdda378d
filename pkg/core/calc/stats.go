package calc

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// =============================================================================
// SERIES STATISTICS
// =============================================================================

// Sum adds the values of a series. An empty series sums to 0.
func Sum(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Sum(xs)
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// PctChanges returns the period-over-period percentage change of each
// consecutive pair whose prior value is strictly positive. Pairs with a
// zero or negative prior are skipped rather than reported as 0.
func PctChanges(series []float64) []float64 {
	changes := make([]float64, 0, len(series))
	for i := 1; i < len(series); i++ {
		prev := series[i-1]
		if prev <= 0 {
			continue
		}
		changes = append(changes, (series[i]-prev)/prev*100)
	}
	return changes
}

// AvgPctChange is the mean of PctChanges. It is 0 when no valid pair exists.
func AvgPctChange(series []float64) float64 {
	return Mean(PctChanges(series))
}

// PctDelta is the percentage change from prior to current. A missing or
// non-positive prior yields 0 instead of an invented baseline.
func PctDelta(current, prior float64) float64 {
	if prior <= 0 {
		return 0
	}
	return (current - prior) / prior * 100
}

// UpperMedian sorts a copy of xs and returns the element at index n/2, so
// even-length series take the upper of the two middle values. The bool is
// false for an empty series.
func UpperMedian(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2], true
}

// SafeDiv divides and returns 0 when the denominator is zero.
func SafeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// LinearFit is an ordinary least-squares line y = Intercept + Slope*x.
type LinearFit struct {
	Intercept float64
	Slope     float64
}

// At evaluates the line at x.
func (f LinearFit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// FitLine fits ys against their positions 0..n-1. A series of length 1 is a
// flat line through its only value, and an empty one is the zero line.
func FitLine(ys []float64) LinearFit {
	switch len(ys) {
	case 0:
		return LinearFit{}
	case 1:
		return LinearFit{Intercept: ys[0]}
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return LinearFit{Intercept: Mean(ys)}
	}
	return LinearFit{Intercept: alpha, Slope: beta}
}
