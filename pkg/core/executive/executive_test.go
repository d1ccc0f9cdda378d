package executive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/models"
)

func TestPreviousQuarter(t *testing.T) {
	y, q := PreviousQuarter(2025, 3)
	assert.Equal(t, []int{2025, 2}, []int{y, q})
	y, q = PreviousQuarter(2025, 1)
	assert.Equal(t, []int{2024, 4}, []int{y, q})
}

func TestFreshness(t *testing.T) {
	assert.Equal(t, 75.0, Freshness(9))
	assert.Equal(t, 100.0, Freshness(12))
	assert.Equal(t, 8.0, Freshness(1))
	assert.Zero(t, Freshness(0))
}

func TestBuildOverview(t *testing.T) {
	cfg := assumption.Defaults().Executive
	in := OverviewInput{
		Latest:          models.Period{Year: 2025, Quarter: 3, Month: 9},
		ActiveLines:     4,
		Production:      110000,
		PriorProduction: 100000,
		ScrapRate:       2.456,
		PriorScrapRate:  2,
		Incidents:       9,
		PriorIncidents:  12,
		Loss:            models.LossInputs{ScrapRateSum: 10, ErgonomicIncidents: 5, WaitMinutes: 20},
		PriorLoss:       models.LossInputs{ScrapRateSum: 10, ErgonomicIncidents: 5, WaitMinutes: 45},
	}
	got := BuildOverview(in, cfg)

	assert.Equal(t, 4, got.ActiveLines)
	assert.Equal(t, 10.0, got.ProductionDelta)
	assert.Equal(t, 2.46, got.ScrapRate)
	assert.Equal(t, 23.0, got.ScrapDelta)
	assert.Equal(t, -25.0, got.IncidentDelta)
	// 10*15000 + 5*8000 + 20*1000
	assert.Equal(t, 210000.0, got.Loss)
	// prior 235000
	assert.Equal(t, -11.0, got.LossDelta)
	assert.Equal(t, 75.0, got.Freshness)
	assert.Equal(t, 2025, got.ReferenceYear)
	assert.Equal(t, 3, got.ReferenceQtr)
}

func TestBuildOverviewZeroPriorGivesZeroDelta(t *testing.T) {
	got := BuildOverview(OverviewInput{Production: 500, ScrapRate: 1.2, Incidents: 3}, assumption.Defaults().Executive)
	assert.Zero(t, got.ProductionDelta)
	assert.Zero(t, got.ScrapDelta)
	assert.Zero(t, got.IncidentDelta)
	assert.Zero(t, got.LossDelta)
	assert.Zero(t, got.Freshness)
}

func TestSignals(t *testing.T) {
	alerts := assumption.Defaults().Executive.Alerts
	got := Signals(SignalInput{
		Year: 2025,
		Robots: []models.RiskRow{
			{Name: "K-07", Primary: 2.0, Secondary: 15000},
			{Name: "K-14", Primary: 2.6, Secondary: 10000},
			{Name: "K-20", Primary: 1.0, Secondary: 25000},
			{Name: "M-01", Primary: 2.5, Secondary: 20000},
		},
		ForkliftIncidents: 3,
		SupplierCount:     7,
		TopModel:          &models.TopModel{ModelName: "EQE", Units: 1200},
	}, alerts)

	assert.Equal(t, 2, got.Robots.Count, "thresholds are strict")
	assert.Equal(t, "2 robots need maintenance or investment", got.Robots.Text)
	assert.Equal(t, "Evaluate the AGV transition", got.AGVRecommendation)
	assert.Equal(t, 7, got.Suppliers.Count)
	assert.Equal(t, BestSeller{Model: "EQE", Units: 1200, Text: "2025 leader: EQE"}, got.BestSeller)

	quiet := Signals(SignalInput{Year: 2025}, alerts)
	assert.Equal(t, "All robots stable", quiet.Robots.Text)
	assert.Equal(t, "Logistics process stable", quiet.AGVRecommendation)
	assert.Equal(t, "No 2025 data", quiet.BestSeller.Text)
}

func TestTargetVsActual(t *testing.T) {
	cfg := assumption.Defaults().Executive
	got := TargetVsActual(Actuals{
		Year:         2025,
		ScrapRate:    2.3,
		Incidents:    61,
		Production:   120000,
		DeliveryDays: 3.04,
		ScrapHistory: []models.PeriodAggregate{
			{Year: 2025, Value: 2.3},
			{Year: 2023, Value: 1.0},
			{Year: 2024, Value: 2.1},
		},
	}, cfg)

	want := KPIValues{ScrapRate: 15, Incidents: 22, Production: -20, DeliveryDays: 0}
	if diff := cmp.Diff(want, got.Deviation); diff != "" {
		t.Errorf("deviation mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3.0, got.Actuals.DeliveryDays)
	require.NotNil(t, got.Projection.Scrap)
	assert.Equal(t, 2.5, *got.Projection.Scrap)
	assert.Equal(t, 2026, got.Projection.Year)

	require.Len(t, got.Warnings, 3)
	assert.Equal(t, "scrap", got.Warnings[0].Metric)
	assert.Equal(t, "Production is 20% below target", got.Warnings[2].Message)
}

func TestTargetVsActualWithinBands(t *testing.T) {
	cfg := assumption.Defaults().Executive
	got := TargetVsActual(Actuals{Year: 2025, ScrapRate: 2.2, Incidents: 60, Production: 135000}, cfg)
	assert.Empty(t, got.Warnings, "exactly on the band does not warn")
	assert.NotNil(t, got.Warnings)
	assert.Nil(t, got.Projection.Scrap)
}

func TestTargetVsActualZeroTarget(t *testing.T) {
	cfg := assumption.Defaults().Executive
	cfg.Targets.Incidents = 0
	got := TargetVsActual(Actuals{Incidents: 10}, cfg)
	assert.Zero(t, got.Deviation.Incidents)
}

func TestLossEconomics(t *testing.T) {
	costs := assumption.Defaults().Executive.Costs
	quarters := [4]models.LossInputs{
		{ScrapRateSum: 10, ErgonomicIncidents: 2, WaitMinutes: 30, DeliveryDays: 12},
		{ScrapRateSum: 8},
	}
	got := LossEconomics(2025, quarters, 100, costs)

	assert.Equal(t, []string{"Q1", "Q2", "Q3", "Q4"}, got.Quarters)
	assert.Equal(t, []float64{150000, 120000, 0, 0}, got.Scrap)
	assert.Equal(t, []float64{16000, 0, 0, 0}, got.Incidents)
	assert.Equal(t, []float64{30000, 0, 0, 0}, got.Wait)
	assert.Equal(t, []float64{24000, 0, 0, 0}, got.Supply)
	assert.Equal(t, 340000.0, got.Total)
	// 340000 / (100 * 45000) = 7.56%
	assert.Equal(t, 7.6, got.ProductionShare)

	assert.Zero(t, LossEconomics(2025, quarters, 0, costs).ProductionShare)
}

func TestHealthMap(t *testing.T) {
	got := HealthMap([]models.QuarterSnapshot{
		{Year: 2025, Quarter: 1, Production: 100, ScrapRate: 2.345, Incidents: 3, DeliveryDays: 3.26},
		{Year: 2024, Quarter: 4, Production: 90, ScrapRate: 2.1, Incidents: 4, DeliveryDays: 3.0},
	})
	assert.Equal(t, []string{"2024-Q4", "2025-Q1"}, got.Labels)
	assert.Equal(t, []float64{2.1, 2.35}, got.Scrap)
	assert.Equal(t, []float64{3.0, 3.3}, got.Delivery)

	empty := HealthMap(nil)
	assert.NotNil(t, empty.Labels)
	assert.Empty(t, empty.Production)
}

func TestCriticalPoints(t *testing.T) {
	alerts := assumption.Defaults().Executive.Alerts
	alerts.CriticalLimit = 2
	got := CriticalPoints(CriticalInput{
		Robots: []models.RiskRow{
			{Name: "K-07", Kind: "Kaynak", Primary: 4, Secondary: 1.5},  // 190
			{Name: "K-14", Kind: "Kaynak", Primary: 1, Secondary: 3.0},  // 310
			{Name: "K-20", Kind: "Kaynak", Primary: 10, Secondary: 0.5}, // 150
		},
		Suppliers: []models.RiskRow{
			{Name: "A", Primary: 50, Secondary: 3},
			{Name: "B", Primary: 40, Secondary: 20},
		},
	}, alerts)

	require.Len(t, got.Robots, 2)
	assert.Equal(t, "K-14", got.Robots[0].Name)
	assert.Equal(t, "K-07", got.Robots[1].Name)
	assert.Equal(t, "B", got.Suppliers[0].Name)
	assert.Empty(t, got.Stations)
	assert.NotNil(t, got.Stations)
}

func TestLossSources(t *testing.T) {
	got := LossSources(LossSourceTotals{Human: 4, Supplier: 123.6}, map[string][]NamedValue{
		"sistem": {{Name: "AGV", Value: 2}, {Name: "FORKLIFT", Value: 9}},
	})
	assert.Equal(t, 124.0, got.Totals.Supplier)
	assert.Equal(t, "FORKLIFT", got.Details["sistem"][0].Name)
}

func TestDataTrust(t *testing.T) {
	alerts := assumption.Defaults().Executive.Alerts
	got := DataTrust(models.Period{Year: 2025, Month: 9}, []ModuleCount{
		{Module: "Production", Rows: 24},
		{Module: "Ergonomics", Rows: 3},
	}, alerts)
	assert.Equal(t, "September 2025", got.LastEntry)
	assert.Equal(t, []string{"Ergonomics"}, got.Incomplete)

	none := DataTrust(models.Period{}, nil, alerts)
	assert.Empty(t, none.LastEntry)
	assert.NotNil(t, none.Modules)
}
