package logistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/models"
)

func i64(v int64) *int64 { return &v }
func f64(v float64) *float64 { return &v }

func baselineRows() []models.LogisticsMetricRow {
	return []models.LogisticsMetricRow{
		{TransportType: models.TransportForklift, IncidentCount: i64(12), AvgWaitMinutes: f64(8.5), TransactionCount: 500},
		{TransportType: models.TransportAGV, IncidentCount: i64(3), AvgWaitMinutes: f64(3.5), TransactionCount: 500},
	}
}

func TestCostModelBaseline(t *testing.T) {
	cfg := assumption.Defaults().Logistics
	got := CostModel(baselineRows(), cfg)

	assert.Equal(t, VehicleCost{Labor: 180000, Incident: 180000, Wait: 212500, Energy: 20000, Total: 592500}, got.Forklift)
	assert.Equal(t, VehicleCost{Labor: 30000, Incident: 45000, Wait: 87500, Energy: 8000, Total: 170500}, got.AGV)

	assert.Equal(t, 422000.0, got.Comparison.AnnualSavings)
	assert.Greater(t, got.Comparison.AnnualSavings, 0.0)
	assert.Equal(t, 0.8, got.Comparison.PaybackYears)
	assert.False(t, math.IsInf(got.Comparison.PaybackYears, 0))
	assert.Less(t, got.Comparison.PaybackYears, 10.0)
	assert.Equal(t, 350000.0, got.Comparison.Capital)

	assert.Equal(t, UnitProfits{Labor: 150000, Incident: 135000, Wait: 62500, Energy: 12000}, got.UnitProfits)
	assert.Equal(t, 7.0, got.Efficiency.RequiredAGVs)
	assert.Equal(t, 602857.14, got.Efficiency.OperatingProfit)

	assert.True(t, got.Detail.Forklift.Measured())
	assert.True(t, got.Detail.AGV.Measured())
}

func TestCostModelDerivesMissingAGV(t *testing.T) {
	cfg := assumption.Defaults().Logistics
	rows := baselineRows()[:1]

	got := CostModel(rows, cfg)

	agv := got.Detail.AGV
	assert.Equal(t, Input{Value: 3, Source: SourceDerived}, agv.Incidents)
	assert.InDelta(t, 3.4, agv.WaitMinutes.Value, 1e-9)
	assert.Equal(t, SourceDerived, agv.WaitMinutes.Source)
	assert.Equal(t, Input{Value: 500, Source: SourceDerived}, agv.Transactions)
	assert.False(t, agv.Measured())

	// 30000 + 3*15000 + 3.4*500*50 + 8000
	assert.Equal(t, 168000.0, got.AGV.Total)
}

func TestCostModelWithoutAnyRows(t *testing.T) {
	got := CostModel(nil, assumption.Defaults().Logistics)

	fk := got.Detail.Forklift
	assert.Equal(t, Input{Value: 12, Source: SourceDefault}, fk.Incidents)
	assert.Equal(t, Input{Value: 8.5, Source: SourceDefault}, fk.WaitMinutes)
	assert.Equal(t, Input{Value: 500, Source: SourceDefault}, fk.Transactions)
	assert.Equal(t, SourceDerived, got.Detail.AGV.Incidents.Source)
}

func TestCostModelKeepsMeasuredZero(t *testing.T) {
	rows := []models.LogisticsMetricRow{
		{TransportType: models.TransportForklift, IncidentCount: i64(0), AvgWaitMinutes: f64(8.5), TransactionCount: 500},
	}
	got := CostModel(rows, assumption.Defaults().Logistics)
	assert.Equal(t, Input{Value: 0, Source: SourceMeasured}, got.Detail.Forklift.Incidents)
}

func TestCostModelNoSavingsMeansNoPayback(t *testing.T) {
	cfg := assumption.Defaults().Logistics
	cfg.AGVOversight = 1_000_000

	got := CostModel(baselineRows(), cfg)
	assert.Less(t, got.Comparison.AnnualSavings, 0.0)
	assert.Zero(t, got.Comparison.PaybackYears)
}

func TestScenarioDefaults(t *testing.T) {
	cfg := assumption.Defaults().Logistics
	got := Scenario(baselineRows(), ScenarioParams{}, cfg)

	assert.Equal(t, ResolvedParams{
		ForkliftCount: 10, AGVCount: 5, AGVEfficiency: 1.2,
		IncidentCost: 15000, WaitCost: 50,
		ForkliftMultiplier: 1, AGVMultiplier: 1,
	}, got.Params)

	assert.Equal(t, ScenarioFleet{
		ForkliftIncidents: 12,
		AGVIncidents:      3,
		ForkliftWait:      8.5,
		AGVWait:           2.9,
		ForkliftCost:      592500,
		AGVCost:           155917,
	}, got.Fleet)
	assert.Equal(t, ScenarioSavings{Labor: 150000, Incident: 135000, Wait: 139583, Energy: 12000}, got.Savings)
	assert.Equal(t, ScenarioSummary{TotalSavings: 436583, Capital: 0, PaybackYears: 0, ROI: 0}, got.Summary)
}

func TestScenarioGrowsAGVFleet(t *testing.T) {
	cfg := assumption.Defaults().Logistics
	agvs := 8.0
	got := Scenario(baselineRows(), ScenarioParams{AGVCount: &agvs}, cfg)

	assert.Equal(t, 5.0, got.Fleet.AGVIncidents, "round(3 * 1.6)")
	assert.Equal(t, 4.7, got.Fleet.AGVWait)
	assert.Equal(t, ScenarioSavings{Labor: 132000, Incident: 105000, Wait: 95833, Energy: 7200}, got.Savings)
	assert.Equal(t, 1050000.0, got.Summary.Capital)
	assert.Equal(t, 340033.0, got.Summary.TotalSavings)
	assert.Equal(t, 32.0, got.Summary.ROI)
	assert.Equal(t, 3.1, got.Summary.PaybackYears)
}

func TestScenarioSavingsBucketsAddUp(t *testing.T) {
	cfg := assumption.Defaults().Logistics
	fk, agvs, eff := 14.0, 9.0, 1.6
	got := Scenario(baselineRows(), ScenarioParams{ForkliftCount: &fk, AGVCount: &agvs, AGVEfficiency: &eff}, cfg)

	s := got.Savings
	sum := s.Labor + s.Incident + s.Wait + s.Energy
	assert.InDelta(t, got.Summary.TotalSavings, sum, 2, "bucket rounding may differ by a unit each")
	assert.InDelta(t, got.Fleet.ForkliftCost-got.Fleet.AGVCost, got.Summary.TotalSavings, 1)
}

func TestScenarioMissingAGVUsesSampleFigures(t *testing.T) {
	cfg := assumption.Defaults().Logistics
	got := Scenario(baselineRows()[:1], ScenarioParams{}, cfg)

	assert.Equal(t, Input{Value: 2, Source: SourceDefault}, got.Inputs.AGV.Incidents)
	assert.Equal(t, Input{Value: 3.5, Source: SourceDefault}, got.Inputs.AGV.WaitMinutes)
}

func TestScenarioRejectsZeroEfficiency(t *testing.T) {
	cfg := assumption.Defaults().Logistics
	zero := 0.0
	got := Scenario(baselineRows(), ScenarioParams{AGVEfficiency: &zero}, cfg)
	assert.Equal(t, 1.2, got.Params.AGVEfficiency)
	assert.False(t, math.IsInf(got.Fleet.AGVWait, 0))
}

func TestIncidentForecast(t *testing.T) {
	rows := []models.LogisticsMetricRow{
		{Year: 2024, TransportType: models.TransportForklift, IncidentCount: i64(20)},
		{Year: 2025, TransportType: models.TransportForklift, IncidentCount: i64(10)},
		{Year: 2025, TransportType: models.TransportAGV, IncidentCount: i64(4)},
	}
	got := IncidentForecast(rows, 5, -20, 12)
	assert.Equal(t, 2025, got.BaseYear)
	assert.Equal(t, 10.0, got.ForkliftBase)
	assert.Equal(t, 4.0, got.AGVBase)
	require.Len(t, got.ForkliftForecast, 12)
	assert.Equal(t, 10.5, got.ForkliftForecast.Last())
	assert.Equal(t, 3.2, got.AGVForecast.Last())

	empty := IncidentForecast(nil, 5, -20, 6)
	assert.Zero(t, empty.ForkliftBase)
	assert.Len(t, empty.AGVForecast, 6)
}
