package welding

import (
	"sort"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/calc"
	"manufacturing_kds/pkg/models"
)

// Quadrant is the investment matrix cell of a robot.
type Quadrant string

const (
	QuadrantStable      Quadrant = "STABLE"
	QuadrantMaintenance Quadrant = "MAINTENANCE_PROCESS_IMPROVEMENT"
	QuadrantMonitoring  Quadrant = "COST_MONITORING"
	QuadrantInvestment  Quadrant = "INVESTMENT_REPLACEMENT"
)

type quadrantStyle struct {
	recommendation string
	color          string
}

var quadrantStyles = map[Quadrant]quadrantStyle{
	QuadrantStable:      {"System stable, routine monitoring is enough", "#28A745"},
	QuadrantMaintenance: {"Plan maintenance and process improvement", "#FFC107"},
	QuadrantMonitoring:  {"Costly but stable, keep tracking the data", "#17A2B8"},
	QuadrantInvestment:  {"Evaluate robot replacement or a major investment", "#DC3545"},
}

// Classify places a robot relative to the medians. At the median a robot
// counts as high on the growth axis (>=) and as high on the cost axis
// (not <).
func Classify(growth, cost, growthMedian, costMedian float64) Quadrant {
	lowGrowth := growth < growthMedian
	lowCost := cost < costMedian
	switch {
	case lowGrowth && lowCost:
		return QuadrantStable
	case !lowGrowth && lowCost:
		return QuadrantMaintenance
	case lowGrowth && !lowCost:
		return QuadrantMonitoring
	default:
		return QuadrantInvestment
	}
}

// MatrixRow is one robot in the investment decision matrix.
type MatrixRow struct {
	RobotCode      string   `json:"robot_kodu"`
	ScrapGrowth    float64  `json:"scrap_artis_orani"`
	TotalCost      float64  `json:"toplam_maliyet"`
	ScrapCost      float64  `json:"scrap_maliyet"`
	ServiceCost    float64  `json:"servis_maliyet"`
	Quadrant       Quadrant `json:"bolge"`
	Recommendation string   `json:"oneri"`
	Color          string   `json:"renk"`
}

// Thresholds are the medians the matrix was split on.
type Thresholds struct {
	Cost   float64 `json:"maliyet"`
	Growth float64 `json:"artis"`
}

// QuadrantSummary counts robots per quadrant.
type QuadrantSummary struct {
	Stable      int `json:"stabil"`
	Maintenance int `json:"bakim"`
	Monitoring  int `json:"takip"`
	Investment  int `json:"yatirim"`
}

// InvestmentMatrixResult is the full matrix.
type InvestmentMatrixResult struct {
	Robots     []MatrixRow     `json:"robotlar"`
	Thresholds Thresholds      `json:"esikler"`
	Summary    QuadrantSummary `json:"ozet"`
}

// InvestmentMatrix classifies every robot in the year window. rows holds the
// per-robot yearly scrap count and cost; maintenance maps robot code to its
// maintenance spend summed over the same window.
//
// Growth is the mean year-over-year change of the scrap count (zero priors
// skipped). Cost is the scrap cost of the robot's last year plus the window
// maintenance. Both axes are split on the upper median of the rounded
// per-robot values; an empty window falls back to the configured medians.
func InvestmentMatrix(rows []models.RobotMetricRow, maintenance map[string]float64, cfg assumption.WeldingPolicy) InvestmentMatrixResult {
	byRobot := make(map[string][]models.RobotMetricRow)
	for _, r := range rows {
		byRobot[r.RobotCode] = append(byRobot[r.RobotCode], r)
	}

	robots := make([]MatrixRow, 0, len(byRobot))
	for _, code := range uniqueRobots(rows) {
		history := byRobot[code]
		sort.SliceStable(history, func(i, j int) bool { return history[i].Year < history[j].Year })

		counts := make([]float64, len(history))
		for i, h := range history {
			counts[i] = float64(h.ScrapCount)
		}
		scrapCost := history[len(history)-1].ScrapCost
		serviceCost := maintenance[code]

		robots = append(robots, MatrixRow{
			RobotCode:   code,
			ScrapGrowth: calc.Round2(calc.AvgPctChange(counts)),
			TotalCost:   calc.RoundInt(scrapCost + serviceCost),
			ScrapCost:   calc.RoundInt(scrapCost),
			ServiceCost: calc.RoundInt(serviceCost),
		})
	}

	growths := make([]float64, len(robots))
	costs := make([]float64, len(robots))
	for i, r := range robots {
		growths[i] = r.ScrapGrowth
		costs[i] = r.TotalCost
	}
	costMedian, ok := calc.UpperMedian(costs)
	if !ok {
		costMedian = cfg.FallbackCostMedian
	}
	growthMedian, ok := calc.UpperMedian(growths)
	if !ok {
		growthMedian = cfg.FallbackDeltaMedian
	}

	var summary QuadrantSummary
	for i := range robots {
		q := Classify(robots[i].ScrapGrowth, robots[i].TotalCost, growthMedian, costMedian)
		style := quadrantStyles[q]
		robots[i].Quadrant = q
		robots[i].Recommendation = style.recommendation
		robots[i].Color = style.color

		switch q {
		case QuadrantStable:
			summary.Stable++
		case QuadrantMaintenance:
			summary.Maintenance++
		case QuadrantMonitoring:
			summary.Monitoring++
		case QuadrantInvestment:
			summary.Investment++
		}
	}

	return InvestmentMatrixResult{
		Robots: robots,
		Thresholds: Thresholds{
			Cost:   calc.RoundInt(costMedian),
			Growth: calc.Round2(growthMedian),
		},
		Summary: summary,
	}
}
