// Package logistics models the economics of replacing forklifts with AGVs:
// a fully loaded annual cost per vehicle type, the payback of the AGV
// capital, and a parameterized fleet what-if.
package logistics

import (
	"math"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/calc"
	"manufacturing_kds/pkg/models"
)

// Source tells where an input figure came from.
type Source string

const (
	// SourceMeasured figures were read from the store.
	SourceMeasured Source = "measured"
	// SourceDerived figures were computed from the other vehicle type.
	SourceDerived Source = "derived"
	// SourceDefault figures are configured sample values.
	SourceDefault Source = "default"
)

// Input is a model input and its provenance.
type Input struct {
	Value  float64 `json:"deger"`
	Source Source  `json:"kaynak"`
}

// VehicleInputs are the operating figures of one vehicle type.
type VehicleInputs struct {
	Incidents    Input `json:"kaza"`
	WaitMinutes  Input `json:"bekleme"`
	Transactions Input `json:"islem"`
}

// Measured reports whether every figure came from the store.
func (v VehicleInputs) Measured() bool {
	return v.Incidents.Source == SourceMeasured &&
		v.WaitMinutes.Source == SourceMeasured &&
		v.Transactions.Source == SourceMeasured
}

// VehicleCost is the fully loaded annual cost of one vehicle type.
type VehicleCost struct {
	Labor    float64 `json:"iscilik"`
	Incident float64 `json:"kazaMaliyet"`
	Wait     float64 `json:"beklemeMaliyet"`
	Energy   float64 `json:"enerjiMaliyet"`
	Total    float64 `json:"toplam"`
}

// Comparison is the AGV business case.
type Comparison struct {
	AnnualSavings float64 `json:"yillikKazanc"`
	PaybackYears  float64 `json:"amortismanSuresi"`
	Capital       float64 `json:"yatirimMaliyeti"`
}

// UnitProfits attributes the savings to independent cost buckets.
type UnitProfits struct {
	Labor    float64 `json:"iscilikKar"`
	Incident float64 `json:"kazaKar"`
	Wait     float64 `json:"beklemeKar"`
	Energy   float64 `json:"enerjiKar"`
}

// Efficiency sizes the AGV fleet that replaces the forklift baseline.
type Efficiency struct {
	Forklifts       float64 `json:"forkliftSayisi"`
	RequiredAGVs    float64 `json:"gerekliAgvSayisi"`
	CapacityRatio   float64 `json:"verimlilikKatsayisi"`
	OperatingProfit float64 `json:"isletmeKari"`
}

// Detail echoes the inputs the model ran on.
type Detail struct {
	ForkliftIncidents    float64       `json:"forkliftKaza"`
	AGVIncidents         float64       `json:"agvKaza"`
	ForkliftWait         float64       `json:"forkliftBekleme"`
	AGVWait              float64       `json:"agvBekleme"`
	ForkliftTransactions float64       `json:"forkliftIslem"`
	AGVTransactions      float64       `json:"agvIslem"`
	Forklift             VehicleInputs `json:"forkliftGirdi"`
	AGV                  VehicleInputs `json:"agvGirdi"`
}

// CostComparison is the forklift-versus-AGV cost model.
type CostComparison struct {
	Forklift    VehicleCost `json:"forklift"`
	AGV         VehicleCost `json:"agv"`
	Comparison  Comparison  `json:"karsilastirma"`
	UnitProfits UnitProfits `json:"birimKarlar"`
	Efficiency  Efficiency  `json:"verimlilik"`
	Detail      Detail      `json:"detay"`
}

func find(rows []models.LogisticsMetricRow, transport string) (models.LogisticsMetricRow, bool) {
	for _, r := range rows {
		if r.TransportType == transport {
			return r, true
		}
	}
	return models.LogisticsMetricRow{}, false
}

func measuredOr(v *float64, fallback Input) Input {
	if v != nil {
		return Input{Value: *v, Source: SourceMeasured}
	}
	return fallback
}

func measuredCountOr(v *int64, fallback Input) Input {
	if v != nil {
		return Input{Value: float64(*v), Source: SourceMeasured}
	}
	return fallback
}

func transactionsOr(row models.LogisticsMetricRow, present bool, fallback Input) Input {
	if present && row.TransactionCount > 0 {
		return Input{Value: float64(row.TransactionCount), Source: SourceMeasured}
	}
	return fallback
}

// ResolveForklift reads the forklift figures, falling back to the configured
// sample values field by field.
func ResolveForklift(rows []models.LogisticsMetricRow, cfg assumption.LogisticsCosts) VehicleInputs {
	row, ok := find(rows, models.TransportForklift)
	fb := cfg.Fallback
	return VehicleInputs{
		Incidents:    measuredCountOr(row.IncidentCount, Input{fb.ForkliftIncidents, SourceDefault}),
		WaitMinutes:  measuredOr(row.AvgWaitMinutes, Input{fb.ForkliftWaitMinutes, SourceDefault}),
		Transactions: transactionsOr(row, ok, Input{fb.ForkliftTransactions, SourceDefault}),
	}
}

// ResolveAGV reads the AGV figures. A missing figure is derived from the
// forklift one: a share of its incidents and wait time, and the same
// transaction volume.
func ResolveAGV(rows []models.LogisticsMetricRow, forklift VehicleInputs, cfg assumption.LogisticsCosts) VehicleInputs {
	row, ok := find(rows, models.TransportAGV)
	return VehicleInputs{
		Incidents: measuredCountOr(row.IncidentCount, Input{
			Value:  calc.RoundInt(forklift.Incidents.Value * cfg.AGVIncidentShare),
			Source: SourceDerived,
		}),
		WaitMinutes: measuredOr(row.AvgWaitMinutes, Input{
			Value:  forklift.WaitMinutes.Value * cfg.AGVWaitShare,
			Source: SourceDerived,
		}),
		Transactions: transactionsOr(row, ok, Input{
			Value:  forklift.Transactions.Value,
			Source: SourceDerived,
		}),
	}
}

func vehicleCost(labor, energy float64, in VehicleInputs, cfg assumption.LogisticsCosts) VehicleCost {
	c := VehicleCost{
		Labor:    labor,
		Incident: in.Incidents.Value * cfg.IncidentCost,
		Wait:     calc.RoundInt(in.WaitMinutes.Value * in.Transactions.Value * cfg.WaitMinuteCost),
		Energy:   energy,
	}
	c.Total = c.Labor + c.Incident + c.Wait + c.Energy
	return c
}

// CostModel prices both fleets for the latest year and derives the AGV
// business case. Payback is capital / savings and is 0 unless the AGVs save
// money.
func CostModel(rows []models.LogisticsMetricRow, cfg assumption.LogisticsCosts) CostComparison {
	forklift := ResolveForklift(rows, cfg)
	agv := ResolveAGV(rows, forklift, cfg)

	fkCost := vehicleCost(cfg.ForkliftLabor, cfg.ForkliftEnergy, forklift, cfg)
	agvCost := vehicleCost(cfg.AGVOversight, cfg.AGVEnergy, agv, cfg)

	savings := fkCost.Total - agvCost.Total
	payback := 0.0
	if savings > 0 {
		payback = cfg.AGVCapital / savings
	}

	required := 0.0
	if cfg.CapacityRatio > 0 {
		required = math.Ceil(cfg.BaselineForklifts / cfg.CapacityRatio)
	}

	return CostComparison{
		Forklift: fkCost,
		AGV:      agvCost,
		Comparison: Comparison{
			AnnualSavings: calc.RoundInt(savings),
			PaybackYears:  calc.Round1(payback),
			Capital:       cfg.AGVCapital,
		},
		UnitProfits: UnitProfits{
			Labor:    cfg.ForkliftLabor - cfg.AGVOversight,
			Incident: (forklift.Incidents.Value - agv.Incidents.Value) * cfg.IncidentCost,
			Wait:     calc.RoundInt((forklift.WaitMinutes.Value - agv.WaitMinutes.Value) * cfg.WaitMinuteCost * cfg.WorkingDays),
			Energy:   cfg.ForkliftEnergy - cfg.AGVEnergy,
		},
		Efficiency: Efficiency{
			Forklifts:       cfg.BaselineForklifts,
			RequiredAGVs:    required,
			CapacityRatio:   cfg.CapacityRatio,
			OperatingProfit: calc.Round2(calc.SafeDiv(savings*cfg.BaselineForklifts, required)),
		},
		Detail: Detail{
			ForkliftIncidents:    forklift.Incidents.Value,
			AGVIncidents:         agv.Incidents.Value,
			ForkliftWait:         calc.Round1(forklift.WaitMinutes.Value),
			AGVWait:              calc.Round1(agv.WaitMinutes.Value),
			ForkliftTransactions: forklift.Transactions.Value,
			AGVTransactions:      agv.Transactions.Value,
			Forklift:             forklift,
			AGV:                  agv,
		},
	}
}
