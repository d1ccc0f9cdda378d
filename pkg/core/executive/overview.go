// Package executive composes the dashboard KPIs from the figures the store
// aggregates. Every function degrades to zero values when an input is
// missing, so one empty panel never blanks the others.
package executive

import (
	"fmt"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/calc"
	"manufacturing_kds/pkg/models"
)

// =============================================================================
// OVERVIEW STRIP
// =============================================================================

// PreviousQuarter returns the quarter before (year, quarter). Quarter 1
// rolls back to quarter 4 of the prior year.
func PreviousQuarter(year, quarter int) (int, int) {
	if quarter > 1 {
		return year, quarter - 1
	}
	return year - 1, 4
}

// Freshness scores how far into the year the data reaches, in percent of
// twelve months.
func Freshness(latestMonth int) float64 {
	if latestMonth <= 0 {
		return 0
	}
	return calc.RoundInt(float64(latestMonth) / 12 * 100)
}

// Loss prices the composite loss figure of one period.
func Loss(in models.LossInputs, costs assumption.ExecutiveCosts) float64 {
	return in.ScrapRateSum*costs.ScrapRate +
		in.ErgonomicIncidents*costs.Incident +
		in.WaitMinutes*costs.WaitMinute
}

// OverviewInput carries the current and prior figures of the overview strip.
// Production and loss compare years; scrap and incidents compare quarters.
type OverviewInput struct {
	Latest      models.Period
	ActiveLines int

	Production      float64
	PriorProduction float64

	ScrapRate      float64
	PriorScrapRate float64

	Incidents      float64
	PriorIncidents float64

	Loss      models.LossInputs
	PriorLoss models.LossInputs
}

// Overview is the executive summary strip.
type Overview struct {
	ActiveLines     int     `json:"aktifHatlar"`
	Production      float64 `json:"toplamUretim"`
	ProductionDelta float64 `json:"uretimDegisim"`
	ScrapRate       float64 `json:"scrapOrani"`
	ScrapDelta      float64 `json:"scrapDegisim"`
	Incidents       float64 `json:"kazaEndeksi"`
	IncidentDelta   float64 `json:"kazaDegisim"`
	Loss            float64 `json:"kayipMaliyet"`
	LossDelta       float64 `json:"kayipDegisim"`
	Freshness       float64 `json:"veriGuncellikSkoru"`
	ReferenceYear   int     `json:"referansYil"`
	ReferenceQtr    int     `json:"referansCeyrek"`

	ActionSignals
}

// BuildOverview derives the strip. Every delta is a whole percentage and is
// 0 when the prior figure is zero or absent.
func BuildOverview(in OverviewInput, cfg assumption.ExecutivePolicy) Overview {
	loss := Loss(in.Loss, cfg.Costs)
	priorLoss := Loss(in.PriorLoss, cfg.Costs)
	return Overview{
		ActiveLines:     in.ActiveLines,
		Production:      calc.RoundInt(in.Production),
		ProductionDelta: calc.RoundInt(calc.PctDelta(in.Production, in.PriorProduction)),
		ScrapRate:       calc.Round2(in.ScrapRate),
		ScrapDelta:      calc.RoundInt(calc.PctDelta(in.ScrapRate, in.PriorScrapRate)),
		Incidents:       calc.RoundInt(in.Incidents),
		IncidentDelta:   calc.RoundInt(calc.PctDelta(in.Incidents, in.PriorIncidents)),
		Loss:            calc.RoundInt(loss),
		LossDelta:       calc.RoundInt(calc.PctDelta(loss, priorLoss)),
		Freshness:       Freshness(in.Latest.Month),
		ReferenceYear:   in.Latest.Year,
		ReferenceQtr:    in.Latest.Quarter,
	}
}

// =============================================================================
// ACTION SIGNALS
// =============================================================================

// CountSignal is a counter card with its caption.
type CountSignal struct {
	Count int    `json:"sayi"`
	Text  string `json:"metin"`
}

// BestSeller is the leading model card.
type BestSeller struct {
	Model string  `json:"model"`
	Units float64 `json:"adet"`
	Text  string  `json:"metin"`
}

// ActionSignals are the cards that call for a decision.
type ActionSignals struct {
	BestSeller        BestSeller  `json:"enCokSatan"`
	Suppliers         CountSignal `json:"riskliTedarikci"`
	Robots            CountSignal `json:"robotKPI"`
	AGVRecommendation string      `json:"agvOnerisi"`
}

// SignalInput feeds the action cards for one year. Each robot row carries
// the worst quarterly scrap rate as Primary and the largest single
// maintenance cost as Secondary.
type SignalInput struct {
	Year              int
	Robots            []models.RiskRow
	ForkliftIncidents float64
	SupplierCount     int
	TopModel          *models.TopModel
}

// Signals evaluates the action cards against the alert thresholds.
func Signals(in SignalInput, alerts assumption.ExecutiveAlerts) ActionSignals {
	var s ActionSignals

	if in.TopModel != nil {
		s.BestSeller = BestSeller{
			Model: in.TopModel.ModelName,
			Units: in.TopModel.Units,
			Text:  fmt.Sprintf("%d leader: %s", in.Year, in.TopModel.ModelName),
		}
	} else {
		s.BestSeller = BestSeller{Model: "", Text: fmt.Sprintf("No %d data", in.Year)}
	}

	s.Suppliers = CountSignal{
		Count: in.SupplierCount,
		Text:  "Supplier contract renewals are approaching",
	}

	flagged := 0
	for _, r := range in.Robots {
		if r.Primary > alerts.RobotScrapRate || r.Secondary > alerts.RobotMaintenanceCost {
			flagged++
		}
	}
	s.Robots = CountSignal{Count: flagged, Text: "All robots stable"}
	if flagged > 0 {
		s.Robots.Text = fmt.Sprintf("%d robots need maintenance or investment", flagged)
	}

	s.AGVRecommendation = "Logistics process stable"
	if in.ForkliftIncidents > 0 {
		s.AGVRecommendation = "Evaluate the AGV transition"
	}
	return s
}
