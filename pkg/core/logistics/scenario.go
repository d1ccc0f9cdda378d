package logistics

import (
	"math"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/calc"
	"manufacturing_kds/pkg/core/forecast"
	"manufacturing_kds/pkg/models"
)

// ScenarioParams is the fleet what-if request. Nil fields take their
// default from the assumption set.
type ScenarioParams struct {
	ForkliftCount      *float64 `json:"forkliftSayisi,omitempty"`
	AGVCount           *float64 `json:"agvSayisi,omitempty"`
	AGVEfficiency      *float64 `json:"agvVerimlilik,omitempty"`
	IncidentCost       *float64 `json:"kazaMaliyeti,omitempty"`
	WaitCost           *float64 `json:"beklemeMaliyeti,omitempty"`
	ForkliftMultiplier *float64 `json:"forkliftBakimCarpan,omitempty"`
	AGVMultiplier      *float64 `json:"agvBakimCarpan,omitempty"`
}

// ResolvedParams are the scenario parameters after defaults were applied.
type ResolvedParams struct {
	ForkliftCount      float64 `json:"forkliftSayisi"`
	AGVCount           float64 `json:"agvSayisi"`
	AGVEfficiency      float64 `json:"agvVerimlilik"`
	IncidentCost       float64 `json:"kazaMaliyeti"`
	WaitCost           float64 `json:"beklemeMaliyeti"`
	ForkliftMultiplier float64 `json:"forkliftBakimCarpan"`
	AGVMultiplier      float64 `json:"agvBakimCarpan"`
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Resolve fills unset parameters. A non-positive efficiency would divide
// the AGV wait time by zero, so it falls back to the configured one.
func (p ScenarioParams) Resolve(cfg assumption.LogisticsCosts) ResolvedParams {
	r := ResolvedParams{
		ForkliftCount:      valueOr(p.ForkliftCount, cfg.BaselineForklifts),
		AGVCount:           valueOr(p.AGVCount, cfg.BaselineAGVs),
		AGVEfficiency:      valueOr(p.AGVEfficiency, cfg.AGVEfficiency),
		IncidentCost:       valueOr(p.IncidentCost, cfg.IncidentCost),
		WaitCost:           valueOr(p.WaitCost, cfg.WaitMinuteCost),
		ForkliftMultiplier: valueOr(p.ForkliftMultiplier, 1),
		AGVMultiplier:      valueOr(p.AGVMultiplier, 1),
	}
	if r.AGVEfficiency <= 0 {
		r.AGVEfficiency = cfg.AGVEfficiency
	}
	return r
}

// ScenarioFleet is the projected operation of both fleets.
type ScenarioFleet struct {
	ForkliftIncidents float64 `json:"forkliftKaza"`
	AGVIncidents      float64 `json:"agvKaza"`
	ForkliftWait      float64 `json:"forkliftBekleme"`
	AGVWait           float64 `json:"agvBekleme"`
	ForkliftCost      float64 `json:"forkliftMaliyet"`
	AGVCost           float64 `json:"agvMaliyet"`
}

// ScenarioSavings splits the savings into attributable buckets.
type ScenarioSavings struct {
	Labor    float64 `json:"iscilikTasarruf"`
	Incident float64 `json:"kazaTasarruf"`
	Wait     float64 `json:"beklemeTasarruf"`
	Energy   float64 `json:"enerjiTasarruf"`
}

// ScenarioSummary is the headline of the what-if.
type ScenarioSummary struct {
	TotalSavings float64 `json:"toplamTasarruf"`
	Capital      float64 `json:"yatirimMaliyeti"`
	PaybackYears float64 `json:"amortismanSuresi"`
	ROI          float64 `json:"roi"`
}

// ScenarioResult is the full fleet what-if.
type ScenarioResult struct {
	Fleet   ScenarioFleet   `json:"senaryo"`
	Savings ScenarioSavings `json:"kazanimlar"`
	Summary ScenarioSummary `json:"ozet"`
	Params  ResolvedParams  `json:"parametreler"`
	Inputs  struct {
		Forklift VehicleInputs `json:"forklift"`
		AGV      VehicleInputs `json:"agv"`
	} `json:"girdiler"`
	History []models.LogisticsMetricRow `json:"gecmis,omitempty"`
}

// scenarioAGV reads the AGV baseline of the what-if. Unlike the cost model
// it does not derive missing figures from the forklift; it uses the
// configured sample fleet figures.
func scenarioAGV(rows []models.LogisticsMetricRow, cfg assumption.LogisticsCosts) VehicleInputs {
	row, _ := find(rows, models.TransportAGV)
	fb := cfg.Fallback
	return VehicleInputs{
		Incidents:    measuredCountOr(row.IncidentCount, Input{fb.AGVIncidents, SourceDefault}),
		WaitMinutes:  measuredOr(row.AvgWaitMinutes, Input{fb.AGVWaitMinutes, SourceDefault}),
		Transactions: Input{cfg.TransactionVolume, SourceDefault},
	}
}

// Scenario scales the latest-year baseline to the requested fleet sizes.
// Counts and wait times scale with requested/baseline per vehicle type; the
// AGV wait is further divided by the efficiency multiplier. Capital is only
// needed for AGVs beyond the current fleet, and ROI is savings over that
// capital in percent.
func Scenario(rows []models.LogisticsMetricRow, params ScenarioParams, cfg assumption.LogisticsCosts) ScenarioResult {
	p := params.Resolve(cfg)
	forklift := ResolveForklift(rows, cfg)
	agv := scenarioAGV(rows, cfg)

	fkRatio := calc.SafeDiv(p.ForkliftCount, cfg.BaselineForklifts)
	agvRatio := calc.SafeDiv(p.AGVCount, cfg.BaselineAGVs)

	fkLabor := cfg.ForkliftLabor * p.ForkliftMultiplier
	fkEnergy := cfg.ForkliftEnergy * p.ForkliftMultiplier
	agvLabor := cfg.AGVOversight * p.AGVMultiplier
	agvEnergy := cfg.AGVEnergy * p.AGVMultiplier

	fkIncidents := calc.RoundInt(forklift.Incidents.Value * fkRatio)
	agvIncidents := calc.RoundInt(agv.Incidents.Value * agvRatio)
	fkWait := forklift.WaitMinutes.Value * fkRatio
	agvWait := agv.WaitMinutes.Value * agvRatio / p.AGVEfficiency

	fkIncidentCost := fkIncidents * p.IncidentCost
	agvIncidentCost := agvIncidents * p.IncidentCost
	fkWaitCost := fkWait * cfg.TransactionVolume * p.WaitCost
	agvWaitCost := agvWait * cfg.TransactionVolume * p.WaitCost

	fkTotal := (fkLabor+fkEnergy)*fkRatio + fkIncidentCost + fkWaitCost
	agvTotal := (agvLabor+agvEnergy)*agvRatio + agvIncidentCost + agvWaitCost

	labor := fkLabor*fkRatio - agvLabor*agvRatio
	incident := fkIncidentCost - agvIncidentCost
	wait := fkWaitCost - agvWaitCost
	energy := fkEnergy*fkRatio - agvEnergy*agvRatio
	total := labor + incident + wait + energy

	newAGVs := math.Max(0, p.AGVCount-cfg.BaselineAGVs)
	capital := newAGVs * cfg.AGVCapital
	payback := 0.0
	if total > 0 {
		payback = capital / total
	}
	roi := 0.0
	if capital > 0 {
		roi = calc.RoundInt(total / capital * 100)
	}

	result := ScenarioResult{
		Fleet: ScenarioFleet{
			ForkliftIncidents: fkIncidents,
			AGVIncidents:      agvIncidents,
			ForkliftWait:      calc.Round1(fkWait),
			AGVWait:           calc.Round1(agvWait),
			ForkliftCost:      calc.RoundInt(fkTotal),
			AGVCost:           calc.RoundInt(agvTotal),
		},
		Savings: ScenarioSavings{
			Labor:    calc.RoundInt(labor),
			Incident: calc.RoundInt(incident),
			Wait:     calc.RoundInt(wait),
			Energy:   calc.RoundInt(energy),
		},
		Summary: ScenarioSummary{
			TotalSavings: calc.RoundInt(total),
			Capital:      calc.RoundInt(capital),
			PaybackYears: calc.Round1(payback),
			ROI:          roi,
		},
		Params: p,
	}
	result.Inputs.Forklift = forklift
	result.Inputs.AGV = agv
	return result
}

// IncidentForecastResult projects yearly incidents per vehicle type.
type IncidentForecastResult struct {
	BaseYear         int             `json:"bazYil"`
	ForkliftBase     float64         `json:"forkliftBaz"`
	AGVBase          float64         `json:"agvBaz"`
	ForkliftForecast forecast.Series `json:"forklift"`
	AGVForecast      forecast.Series `json:"agv"`
}

// IncidentForecast compounds the incident totals of the latest year in rows.
// A vehicle type without rows in that year starts from 0.
func IncidentForecast(rows []models.LogisticsMetricRow, forkliftPct, agvPct float64, months int) IncidentForecastResult {
	latest := 0
	for _, r := range rows {
		latest = max(latest, r.Year)
	}
	var fk, agv float64
	for _, r := range rows {
		if r.Year != latest || r.IncidentCount == nil {
			continue
		}
		switch r.TransportType {
		case models.TransportForklift:
			fk += float64(*r.IncidentCount)
		case models.TransportAGV:
			agv += float64(*r.IncidentCount)
		}
	}
	return IncidentForecastResult{
		BaseYear:         latest,
		ForkliftBase:     fk,
		AGVBase:          agv,
		ForkliftForecast: forecast.Compound(fk, forkliftPct, months),
		AGVForecast:      forecast.Compound(agv, agvPct, months),
	}
}
