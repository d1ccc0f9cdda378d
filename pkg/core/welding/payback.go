package welding

import (
	"sort"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/calc"
	"manufacturing_kds/pkg/models"
)

// Option names the recommended remedy for a robot.
type Option string

const (
	OptionMaintenance Option = "MAINTENANCE"
	OptionInvestment  Option = "INVESTMENT"
	OptionNone        Option = "NONE"
)

// PaybackRow compares maintaining a robot against replacing it.
type PaybackRow struct {
	RobotID             int64   `json:"robot_id"`
	RobotCode           string  `json:"robot_kodu"`
	MaintenanceCost     float64 `json:"bakim_maliyeti"`
	AvgMaintenanceCost  float64 `json:"ort_bakim_maliyeti"`
	FaultCount          int64   `json:"ariza_sayisi"`
	InvestmentCost      float64 `json:"yatirim_maliyeti"`
	InvestmentEstimated bool    `json:"yatirim_tahmini"`
	AnnualScrapCount    int64   `json:"yillik_scrap_adet"`
	AnnualScrapCost     float64 `json:"yillik_scrap_maliyeti"`
	MaintenanceRate     float64 `json:"bakim_iyilesme_orani"`
	InvestmentRate      float64 `json:"yatirim_iyilesme_orani"`
	MaintenanceSavings  float64 `json:"bakim_kazanc_3yil"`
	InvestmentSavings   float64 `json:"yatirim_kazanc_3yil"`
	MaintenanceNet      float64 `json:"bakim_net_kazanc"`
	InvestmentNet       float64 `json:"yatirim_net_kazanc"`
	MaintenancePayback  float64 `json:"bakim_geri_odeme_yil"`
	InvestmentPayback   float64 `json:"yatirim_geri_odeme_yil"`
	Recommended         Option  `json:"oneri"`
}

// PaybackSummary aggregates the comparison. Averages of an empty set are 0.
type PaybackSummary struct {
	MaintenanceTotal   float64 `json:"toplamBakimMaliyeti"`
	InvestmentTotal    float64 `json:"toplamYatirimMaliyeti"`
	AvgMaintenanceRate float64 `json:"ortBakimIyilesme"`
	AvgInvestmentRate  float64 `json:"ortYatirimIyilesme"`
	AnnualScrapTotal   float64 `json:"toplamYillikScrapMaliyet"`
}

// PaybackResult is the maintenance-versus-investment comparison.
type PaybackResult struct {
	Robots  []PaybackRow   `json:"robotlar"`
	Summary PaybackSummary `json:"ozet"`
}

// MaintenanceInvestment projects, for each robot, the savings of a
// maintenance programme and of a replacement over the configured horizon:
// annual scrap cost * improvement rate. A robot without a quoted investment
// figure is priced at a multiple of its maintenance spend.
func MaintenanceInvestment(rows []models.RobotMaintenanceRow, cfg assumption.WeldingPolicy) PaybackResult {
	robots := make([]PaybackRow, 0, len(rows))
	var maintRates, investRates []float64
	var maintTotal, investTotal, scrapTotal float64

	for _, r := range rows {
		investment := r.MaintenanceCost * cfg.InvestmentMultiplier
		estimated := true
		if r.InvestmentCost != nil {
			investment = *r.InvestmentCost
			estimated = false
		}
		investment = calc.RoundInt(investment)

		maintRate := cfg.Improvement.Maintenance(r.RobotCode, r.MaintenanceEvents)
		investRate := cfg.Improvement.Investment(r.RobotCode)
		maintSavings := r.AnnualScrapCost * maintRate / 100 * cfg.SavingsHorizonYears
		investSavings := r.AnnualScrapCost * investRate / 100 * cfg.SavingsHorizonYears

		row := PaybackRow{
			RobotID:             r.RobotID,
			RobotCode:           r.RobotCode,
			MaintenanceCost:     calc.Round2(r.MaintenanceCost),
			AvgMaintenanceCost:  calc.Round2(r.AvgMaintenanceCost),
			FaultCount:          r.FaultCount,
			InvestmentCost:      investment,
			InvestmentEstimated: estimated,
			AnnualScrapCount:    r.AnnualScrapCount,
			AnnualScrapCost:     calc.Round2(r.AnnualScrapCost),
			MaintenanceRate:     maintRate,
			InvestmentRate:      investRate,
			MaintenanceSavings:  calc.RoundInt(maintSavings),
			InvestmentSavings:   calc.RoundInt(investSavings),
			MaintenanceNet:      calc.RoundInt(maintSavings - r.MaintenanceCost),
			InvestmentNet:       calc.RoundInt(investSavings - investment),
			MaintenancePayback:  paybackYears(r.MaintenanceCost, r.AnnualScrapCost*maintRate/100),
			InvestmentPayback:   paybackYears(investment, r.AnnualScrapCost*investRate/100),
		}
		row.Recommended = recommend(row.MaintenanceNet, row.InvestmentNet)
		robots = append(robots, row)

		maintRates = append(maintRates, maintRate)
		investRates = append(investRates, investRate)
		maintTotal += r.MaintenanceCost
		investTotal += investment
		scrapTotal += r.AnnualScrapCost
	}

	return PaybackResult{
		Robots: robots,
		Summary: PaybackSummary{
			MaintenanceTotal:   calc.Round2(maintTotal),
			InvestmentTotal:    calc.Round2(investTotal),
			AvgMaintenanceRate: calc.Round2(calc.Mean(maintRates)),
			AvgInvestmentRate:  calc.Round2(calc.Mean(investRates)),
			AnnualScrapTotal:   calc.Round2(scrapTotal),
		},
	}
}

// paybackYears is cost / annual saving, one decimal, or 0 when nothing is
// saved.
func paybackYears(cost, annualSaving float64) float64 {
	if annualSaving <= 0 {
		return 0
	}
	return calc.Round1(cost / annualSaving)
}

func recommend(maintNet, investNet float64) Option {
	switch {
	case maintNet <= 0 && investNet <= 0:
		return OptionNone
	case investNet > maintNet:
		return OptionInvestment
	default:
		return OptionMaintenance
	}
}

// MaintenanceYears lists, per robot, the distinct years with a maintenance
// event, most recent first and at most limit of them.
func MaintenanceYears(events []models.MaintenanceEvent, limit int) map[string][]int {
	sorted := make([]models.MaintenanceEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year > sorted[j].Year })

	out := make(map[string][]int)
	for _, e := range sorted {
		years := out[e.RobotCode]
		if len(years) >= limit {
			continue
		}
		if len(years) > 0 && years[len(years)-1] == e.Year {
			continue
		}
		out[e.RobotCode] = append(years, e.Year)
	}
	return out
}
