package welding

import (
	"manufacturing_kds/pkg/core/calc"
	"manufacturing_kds/pkg/models"
)

// SavingsScenario is the saving from cutting scrap cost by Rate percent.
type SavingsScenario struct {
	Rate    float64 `json:"oran"`
	Savings float64 `json:"kazanim"`
}

// RobotSavings is the per-robot breakdown of the savings scenarios.
type RobotSavings struct {
	RobotCode string            `json:"robot_kodu"`
	TotalCost float64           `json:"toplam_maliyet"`
	Scenarios []SavingsScenario `json:"senaryolar"`
}

// SavingsResult bundles aggregate and per-robot savings.
type SavingsResult struct {
	TotalCost float64           `json:"toplamMaliyet"`
	Scenarios []SavingsScenario `json:"senaryolar"`
	Robots    []RobotSavings    `json:"robotlar"`
}

func scenariosFor(cost float64, rates []float64) []SavingsScenario {
	out := make([]SavingsScenario, 0, len(rates))
	for _, rate := range rates {
		out = append(out, SavingsScenario{Rate: rate, Savings: calc.RoundInt(cost * rate / 100)})
	}
	return out
}

// SavingsScenarios prices each scrap reduction rate against the scrap cost of
// every robot and of the plant. Savings are whole currency units.
func SavingsScenarios(rows []models.RobotMetricRow, rates []float64) SavingsResult {
	costs := make([]float64, len(rows))
	robots := make([]RobotSavings, 0, len(rows))
	for i, r := range rows {
		costs[i] = r.ScrapCost
		robots = append(robots, RobotSavings{
			RobotCode: r.RobotCode,
			TotalCost: calc.Round2(r.ScrapCost),
			Scenarios: scenariosFor(r.ScrapCost, rates),
		})
	}
	total := calc.Sum(costs)
	return SavingsResult{
		TotalCost: calc.Round2(total),
		Scenarios: scenariosFor(total, rates),
		Robots:    robots,
	}
}

// LossRow is the projected scrap loss of one robot.
type LossRow struct {
	RobotID        int64   `json:"robot_id"`
	RobotCode      string  `json:"robot_kodu"`
	CurrentCount   int64   `json:"mevcut_scrap_adet"`
	UnitCost       float64 `json:"birim_maliyet"`
	CurrentCost    float64 `json:"mevcut_toplam_maliyet"`
	ProjectedCount int64   `json:"tahmini_scrap_adet"`
	ProjectedCost  float64 `json:"tahmini_yillik_zarar"`
	Difference     float64 `json:"fark"`
}

// LossSummary totals the projection.
type LossSummary struct {
	CurrentTotal   float64 `json:"toplamMevcutZarar"`
	ProjectedTotal float64 `json:"toplamTahminiZarar"`
	Difference     float64 `json:"toplamFark"`
}

// LossProjectionResult is the scrap loss what-if.
type LossProjectionResult struct {
	ChangePct float64     `json:"degisimOrani"`
	Robots    []LossRow   `json:"robotlar"`
	Summary   LossSummary `json:"ozet"`
}

// LossProjection scales each robot's scrap count by pct percent and prices
// the new count at the robot's current unit cost. Unit cost is kept unrounded
// internally, so pct 0 reproduces the current cost and a zero difference.
func LossProjection(rows []models.RobotMetricRow, pct float64) LossProjectionResult {
	robots := make([]LossRow, 0, len(rows))
	var current, projected float64
	for _, r := range rows {
		unit := calc.SafeDiv(r.ScrapCost, float64(r.ScrapCount))
		count := int64(calc.RoundInt(float64(r.ScrapCount) * (1 + pct/100)))
		cost := float64(count) * unit
		if count == r.ScrapCount {
			cost = r.ScrapCost
		}
		if r.ScrapCount == 0 {
			cost = 0
		}

		robots = append(robots, LossRow{
			RobotID:        r.RobotID,
			RobotCode:      r.RobotCode,
			CurrentCount:   r.ScrapCount,
			UnitCost:       calc.Round2(unit),
			CurrentCost:    calc.Round2(r.ScrapCost),
			ProjectedCount: count,
			ProjectedCost:  calc.Round2(cost),
			Difference:     calc.Round2(cost - costBaseline(r)),
		})
		current += costBaseline(r)
		projected += cost
	}
	return LossProjectionResult{
		ChangePct: pct,
		Robots:    robots,
		Summary: LossSummary{
			CurrentTotal:   calc.Round2(current),
			ProjectedTotal: calc.Round2(projected),
			Difference:     calc.Round2(projected - current),
		},
	}
}

// costBaseline is the current cost a projection is compared against. A robot
// with no scrap units has no unit cost, so its projection and baseline are
// both zero.
func costBaseline(r models.RobotMetricRow) float64 {
	if r.ScrapCount == 0 {
		return 0
	}
	return r.ScrapCost
}

// RateScenarioRow is a per-robot scrap rate what-if.
type RateScenarioRow struct {
	RobotCode string  `json:"robot_kodu"`
	Current   float64 `json:"mevcut_scrap"`
	ChangePct float64 `json:"oran"`
	Projected float64 `json:"tahmini_scrap"`
	Delta     float64 `json:"fark"`
}

// RateScenarioSummary totals the rate what-if.
type RateScenarioSummary struct {
	CurrentTotal   float64 `json:"toplamMevcut"`
	ProjectedTotal float64 `json:"toplamTahmini"`
	Delta          float64 `json:"toplamFark"`
	DeltaPct       float64 `json:"yuzdelik"`
}

// RateScenarioResult is the scrap rate what-if.
type RateScenarioResult struct {
	Robots  []RateScenarioRow   `json:"robotlar"`
	Summary RateScenarioSummary `json:"ozet"`
}

// RateScenario applies a per-robot percentage change to the latest average
// scrap rate. Robots absent from changes keep their rate. Rates are small
// fractions, so values carry four decimals.
func RateScenario(rows []models.RobotMetricRow, changes map[string]float64) RateScenarioResult {
	robots := make([]RateScenarioRow, 0, len(rows))
	var current, projected float64
	for _, r := range rows {
		pct := changes[r.RobotCode]
		next := r.AvgScrapRate * (1 + pct/100)
		robots = append(robots, RateScenarioRow{
			RobotCode: r.RobotCode,
			Current:   calc.Round(r.AvgScrapRate, 4),
			ChangePct: pct,
			Projected: calc.Round(next, 4),
			Delta:     calc.Round(next-r.AvgScrapRate, 4),
		})
		current += r.AvgScrapRate
		projected += next
	}
	return RateScenarioResult{
		Robots: robots,
		Summary: RateScenarioSummary{
			CurrentTotal:   calc.Round(current, 4),
			ProjectedTotal: calc.Round(projected, 4),
			Delta:          calc.Round(projected-current, 4),
			DeltaPct:       calc.Round2(calc.PctDelta(projected, current)),
		},
	}
}
