// Package production projects the ICE/EV production mix and scores line
// capacity.
package production

import (
	"sort"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/calc"
	"manufacturing_kds/pkg/core/forecast"
	"manufacturing_kds/pkg/models"
)

// Default forecast parameters.
const (
	DefaultICEChange = -5.0
	DefaultEVChange  = 15.0
	DefaultMonths    = 12
)

// CrossoverResult is a pair of powertrain projections and the month EV
// output first exceeds ICE output. CrossoverMonth is nil when that does not
// happen inside the horizon.
type CrossoverResult struct {
	ICE            forecast.Series `json:"ice"`
	EV             forecast.Series `json:"ev"`
	CrossoverMonth *int            `json:"crossoverMonth"`
}

// CrossoverForecast compounds both bases and finds the first month where EV
// is strictly above ICE.
func CrossoverForecast(iceBase, evBase, icePct, evPct float64, months int) CrossoverResult {
	r := CrossoverResult{
		ICE: forecast.Compound(iceBase, icePct, months),
		EV:  forecast.Compound(evBase, evPct, months),
	}
	if m, ok := forecast.Crossover(r.ICE, r.EV); ok {
		r.CrossoverMonth = &m
	}
	return r
}

// PowertrainTrend summarizes one powertrain.
type PowertrainTrend struct {
	YearCount    int     `json:"yilSayisi"`
	AvgYoYChange float64 `json:"ortUretimDegisim"`
}

// TrendSummaryResult holds the per-powertrain summaries.
type TrendSummaryResult struct {
	ICE PowertrainTrend `json:"ice"`
	EV  PowertrainTrend `json:"ev"`
}

// yearlyTotals sums production per year for one powertrain within
// [start, end] and returns the totals in year order.
func yearlyTotals(rows []models.ProductionRow, powertrain string, start, end int) []float64 {
	byYear := make(map[int]float64)
	for _, r := range rows {
		if r.Powertrain != powertrain || r.Year < start || r.Year > end {
			continue
		}
		byYear[r.Year] += r.Produced
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	totals := make([]float64, len(years))
	for i, y := range years {
		totals[i] = byYear[y]
	}
	return totals
}

func trendOf(rows []models.ProductionRow, powertrain string, start, end int) PowertrainTrend {
	totals := yearlyTotals(rows, powertrain, start, end)
	return PowertrainTrend{
		YearCount:    len(totals),
		AvgYoYChange: calc.Round2(calc.AvgPctChange(totals)),
	}
}

// TrendSummary averages the year-over-year change of total production per
// powertrain, counting only years whose prior total is positive.
func TrendSummary(rows []models.ProductionRow, startYear, endYear int) TrendSummaryResult {
	return TrendSummaryResult{
		ICE: trendOf(rows, models.PowertrainICE, startYear, endYear),
		EV:  trendOf(rows, models.PowertrainEV, startYear, endYear),
	}
}

// ForecastParams is the production forecast request. Nil fields take the
// package defaults.
type ForecastParams struct {
	Months    *int     `json:"months,omitempty"`
	ICEChange *float64 `json:"iceChangePercent,omitempty"`
	EVChange  *float64 `json:"evChangePercent,omitempty"`
	Scenario  string   `json:"scenario,omitempty"`
}

// ResolvedForecastParams are the parameters the forecast ran with.
type ResolvedForecastParams struct {
	Months    int     `json:"months"`
	ICEChange float64 `json:"iceChangePercent"`
	EVChange  float64 `json:"evChangePercent"`
	Scenario  string  `json:"scenario"`
}

// Resolve applies defaults. Unknown scenario names resolve to realistic.
func (p ForecastParams) Resolve() ResolvedForecastParams {
	r := ResolvedForecastParams{Months: DefaultMonths, ICEChange: DefaultICEChange, EVChange: DefaultEVChange}
	if p.Months != nil {
		r.Months = *p.Months
	}
	if p.ICEChange != nil {
		r.ICEChange = *p.ICEChange
	}
	if p.EVChange != nil {
		r.EVChange = *p.EVChange
	}
	_, r.Scenario = forecast.ScenarioRate(p.Scenario)
	return r
}

// AsMap flattens the parameters for the forecast provenance block.
func (r ResolvedForecastParams) AsMap() map[string]any {
	return map[string]any{
		"months":           r.Months,
		"iceChangePercent": r.ICEChange,
		"evChangePercent":  r.EVChange,
		"scenario":         r.Scenario,
	}
}

// ForecastResult is the powertrain forecast.
type ForecastResult struct {
	BaseYear       int             `json:"baseYear"`
	ICEBase        float64         `json:"iceBase"`
	EVBase         float64         `json:"evBase"`
	ICE            forecast.Series `json:"ice"`
	EV             forecast.Series `json:"ev"`
	CrossoverMonth *int            `json:"crossoverMonth"`
	Total          forecast.Series `json:"total"`
	BaseRows       int             `json:"-"`
}

// Forecast projects the latest year's production per powertrain and the
// combined total under the named scenario. Without rows every series is
// empty.
func Forecast(rows []models.ProductionRow, params ResolvedForecastParams) ForecastResult {
	if len(rows) == 0 {
		return ForecastResult{ICE: forecast.Series{}, EV: forecast.Series{}, Total: forecast.Series{}}
	}
	latest := 0
	for _, r := range rows {
		latest = max(latest, r.Year)
	}
	var iceBase, evBase float64
	n := 0
	for _, r := range rows {
		if r.Year != latest {
			continue
		}
		n++
		switch r.Powertrain {
		case models.PowertrainICE:
			iceBase += r.Produced
		case models.PowertrainEV:
			evBase += r.Produced
		}
	}
	cross := CrossoverForecast(iceBase, evBase, params.ICEChange, params.EVChange, params.Months)
	return ForecastResult{
		BaseYear:       latest,
		ICEBase:        iceBase,
		EVBase:         evBase,
		ICE:            cross.ICE,
		EV:             cross.EV,
		CrossoverMonth: cross.CrossoverMonth,
		Total:          forecast.Scenario(iceBase+evBase, params.Scenario, params.Months),
		BaseRows:       n,
	}
}

// Line utilization statuses.
const (
	StatusOverCapacity = "OVER_CAPACITY"
	StatusHigh         = "HIGH"
	StatusNormal       = "NORMAL"
	StatusLow          = "LOW"
)

// LineUtilization scores one line.
type LineUtilization struct {
	LineCode       string  `json:"hat_kodu"`
	LineName       string  `json:"hat_adi"`
	Capacity       float64 `json:"max_kapasite"`
	Demand         float64 `json:"talep"`
	Produced       float64 `json:"uretim"`
	Utilization    float64 `json:"kullanim_orani"`
	DemandCoverage float64 `json:"talep_karsilama"`
	CapacityGap    float64 `json:"kapasite_farki"`
	Status         string  `json:"durum"`
}

// CapacityResult is the capacity sufficiency of every line.
type CapacityResult struct {
	Lines          []LineUtilization `json:"hatlar"`
	OverCapacity   int               `json:"kapasiteAsimi"`
	AvgUtilization float64           `json:"ortKullanim"`
}

// CapacityUtilization scores each line. Demand above capacity is reported
// first; otherwise the utilization band decides. A line with no capacity
// has 0 utilization.
func CapacityUtilization(lines []models.LineCapacityRow, cfg assumption.ProductionPolicy) CapacityResult {
	out := CapacityResult{Lines: make([]LineUtilization, 0, len(lines))}
	utils := make([]float64, 0, len(lines))
	for _, l := range lines {
		u := calc.SafeDiv(l.Produced, l.Capacity) * 100
		status := StatusNormal
		switch {
		case l.Demand > l.Capacity:
			status = StatusOverCapacity
			out.OverCapacity++
		case u >= cfg.HighUtilization:
			status = StatusHigh
		case u < cfg.LowUtilization:
			status = StatusLow
		}
		utils = append(utils, u)
		out.Lines = append(out.Lines, LineUtilization{
			LineCode:       l.LineCode,
			LineName:       l.LineName,
			Capacity:       l.Capacity,
			Demand:         l.Demand,
			Produced:       l.Produced,
			Utilization:    calc.Round2(u),
			DemandCoverage: calc.Round2(calc.SafeDiv(l.Produced, l.Demand) * 100),
			CapacityGap:    l.Capacity - l.Demand,
			Status:         status,
		})
	}
	out.AvgUtilization = calc.Round2(calc.Mean(utils))
	return out
}
