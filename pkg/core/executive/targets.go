package executive

import (
	"fmt"
	"math"
	"sort"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/calc"
	"manufacturing_kds/pkg/models"
)

// KPIValues is one value per headline metric.
type KPIValues struct {
	ScrapRate    float64 `json:"scrap"`
	Incidents    float64 `json:"kaza"`
	Production   float64 `json:"uretim"`
	DeliveryDays float64 `json:"teslimat"`
}

// Actuals are the measured headline metrics of a year plus the yearly scrap
// history used for the projection.
type Actuals struct {
	Year         int
	ScrapRate    float64
	Incidents    float64
	Production   float64
	DeliveryDays float64
	ScrapHistory []models.PeriodAggregate
}

// Projection extends the scrap rate one year ahead. Scrap is nil when fewer
// than two years of history exist.
type Projection struct {
	Year  int      `json:"yil"`
	Scrap *float64 `json:"scrap"`
}

// Warning is a breached deviation band.
type Warning struct {
	Metric    string  `json:"metrik"`
	Deviation float64 `json:"sapma"`
	Message   string  `json:"mesaj"`
}

// TargetReport scores a year against the targets.
type TargetReport struct {
	Year       int        `json:"yil"`
	Targets    KPIValues  `json:"hedefler"`
	Actuals    KPIValues  `json:"gerceklesen"`
	Deviation  KPIValues  `json:"sapma"`
	Projection Projection `json:"projeksiyon"`
	Warnings   []Warning  `json:"uyarilar"`
}

func deviation(actual, target float64) float64 {
	return calc.RoundInt(calc.SafeDiv(actual-target, target) * 100)
}

// TargetVsActual computes the whole-percent deviation of each actual from
// its target and raises a warning for every band breached. Deviations are
// computed on the displayed, rounded actuals.
func TargetVsActual(in Actuals, cfg assumption.ExecutivePolicy) TargetReport {
	t := cfg.Targets
	actual := KPIValues{
		ScrapRate:    calc.Round2(in.ScrapRate),
		Incidents:    calc.RoundInt(in.Incidents),
		Production:   calc.RoundInt(in.Production),
		DeliveryDays: calc.Round1(in.DeliveryDays),
	}
	r := TargetReport{
		Year: in.Year,
		Targets: KPIValues{
			ScrapRate:    t.ScrapRate,
			Incidents:    t.Incidents,
			Production:   t.Production,
			DeliveryDays: t.DeliveryDays,
		},
		Actuals: actual,
		Deviation: KPIValues{
			ScrapRate:    deviation(actual.ScrapRate, t.ScrapRate),
			Incidents:    deviation(actual.Incidents, t.Incidents),
			Production:   deviation(actual.Production, t.Production),
			DeliveryDays: deviation(actual.DeliveryDays, t.DeliveryDays),
		},
		Projection: Projection{Year: in.Year + 1},
		Warnings:   []Warning{},
	}

	if hist := lastTwoYears(in.ScrapHistory); len(hist) == 2 {
		p := calc.Round2(actual.ScrapRate + hist[1].Value - hist[0].Value)
		r.Projection.Scrap = &p
	}

	b, d := cfg.Bands, r.Deviation
	if d.ScrapRate > b.ScrapOver {
		r.Warnings = append(r.Warnings, Warning{"scrap", d.ScrapRate,
			fmt.Sprintf("Scrap rate is %g%% above target", d.ScrapRate)})
	}
	if d.Incidents > b.IncidentsOver {
		r.Warnings = append(r.Warnings, Warning{"kaza", d.Incidents,
			fmt.Sprintf("Incidents are %g%% above target", d.Incidents)})
	}
	if d.Production < -b.ProductionUnder {
		r.Warnings = append(r.Warnings, Warning{"uretim", d.Production,
			fmt.Sprintf("Production is %g%% below target", math.Abs(d.Production))})
	}
	return r
}

func lastTwoYears(points []models.PeriodAggregate) []models.PeriodAggregate {
	sorted := make([]models.PeriodAggregate, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })
	if len(sorted) > 2 {
		sorted = sorted[len(sorted)-2:]
	}
	return sorted
}
