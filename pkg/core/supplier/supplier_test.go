package supplier

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manufacturing_kds/pkg/models"
)

func TestTrendWithAverageChangeSkipsZeroPrior(t *testing.T) {
	points := []models.PeriodAggregate{
		{Year: 2024, Value: 110},
		{Year: 2022, Value: 0},
		{Year: 2023, Value: 100},
		{Year: 2025, Value: 121},
	}
	got := TrendWithAverageChange(points)

	assert.Equal(t, []int{2022, 2023, 2024, 2025}, []int{got.Points[0].Year, got.Points[1].Year, got.Points[2].Year, got.Points[3].Year})
	// 0 -> 100 is skipped; 100 -> 110 and 110 -> 121 are both 10%.
	assert.Equal(t, TrendSummary{YearCount: 4, AvgChange: 10}, got.Summary)
	assert.Equal(t, 110.0, points[0].Value, "input order untouched")
}

func TestTrendWithAverageChangeNoValidPairs(t *testing.T) {
	got := TrendWithAverageChange([]models.PeriodAggregate{{Year: 2024, Value: 0}, {Year: 2025, Value: 50}})
	assert.Zero(t, got.Summary.AvgChange)

	empty := TrendWithAverageChange(nil)
	assert.Equal(t, TrendSummary{}, empty.Summary)
	assert.NotNil(t, empty.Points)
}

func TestForecastUsesLatestYearMean(t *testing.T) {
	rows := []models.SupplierMetricRow{
		{SupplierCode: "T-01", Year: 2024, AvgQualityScore: 50, AvgPPMRate: 500},
		{SupplierCode: "T-01", Year: 2025, AvgQualityScore: 80, AvgPPMRate: 100},
		{SupplierCode: "T-02", Year: 2025, AvgQualityScore: 90, AvgPPMRate: 50},
	}
	got := Forecast(rows, 0, -100, 3)

	assert.Equal(t, 2025, got.BaseYear)
	assert.Equal(t, 85.0, got.QualityBase)
	assert.Equal(t, 75.0, got.PPMBase)
	assert.Equal(t, 2, got.BaseRows)
	assert.Equal(t, []float64{85, 85, 85}, got.Quality.Values())
	assert.Equal(t, []float64{0, 0, 0}, got.PPM.Values())
}

func TestForecastEmpty(t *testing.T) {
	got := Forecast(nil, 2, -5, 12)
	assert.Empty(t, got.Quality)
	assert.NotNil(t, got.Quality)
	assert.Empty(t, got.PPM)
}

func TestServiceAnalysis(t *testing.T) {
	rows := []models.ServiceRecordRow{
		{Year: 2025, WarrantyStatus: models.WarrantyIn, FaultCount: 4, ServiceCost: 1000},
		{Year: 2024, WarrantyStatus: models.WarrantyIn, FaultCount: 5, ServiceCost: 1500.5},
		{Year: 2024, WarrantyStatus: "GARANTI_DISI", FaultCount: 2, ServiceCost: 800},
		{Year: 2025, WarrantyStatus: "", FaultCount: 1, ServiceCost: 300},
	}
	got := ServiceAnalysis(rows)

	want := ServiceResult{
		Years: []ServiceYear{
			{Year: 2024, InWarrantyFaults: 5, InWarrantyCost: 1500.5, OutWarrantyFaults: 2, OutWarrantyCost: 800},
			{Year: 2025, InWarrantyFaults: 4, InWarrantyCost: 1000, OutWarrantyFaults: 1, OutWarrantyCost: 300},
		},
		Summary: ServiceSummary{
			InWarrantyTotal:  9,
			OutWarrantyTotal: 3,
			TotalFaults:      12,
			InWarrantyCost:   2500.5,
			OutWarrantyCost:  1100,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ServiceAnalysis mismatch (-want +got):\n%s", diff)
	}
}

func TestDeliveryDelayAllowsEarlyDelivery(t *testing.T) {
	rows := []models.SupplierMetricRow{
		{Year: 2025, AvgDeliveryDays: 2.5, PlannedDeliveryDays: 3},
		{Year: 2024, AvgDeliveryDays: 4.5, PlannedDeliveryDays: 3},
	}
	got := DeliveryDelay(rows)
	require.Len(t, got.Years, 2)
	assert.Equal(t, 2024, got.Years[0].Year)
	assert.Equal(t, 1.5, got.Years[0].Delay)
	assert.Equal(t, -0.5, got.Years[1].Delay)
	assert.Equal(t, 0.5, got.AvgDelay)

	assert.Zero(t, DeliveryDelay(nil).AvgDelay)
}

func TestScorecard(t *testing.T) {
	rows := []models.SupplierMetricRow{
		{SupplierCode: "T-03", AvgQualityScore: 88, AvgPPMRate: 60},
		{SupplierCode: "T-01", AvgQualityScore: 92, AvgPPMRate: 80, AvgDeliveryDays: 3.5, PlannedDeliveryDays: 3},
		{SupplierCode: "T-02", AvgQualityScore: 88, AvgPPMRate: 40},
	}
	got := Scorecard(rows)
	require.Len(t, got, 3)
	assert.Equal(t, "T-01", got[0].SupplierCode)
	assert.Equal(t, 0.5, got[0].Delay)
	assert.Equal(t, "T-02", got[1].SupplierCode, "lower PPM wins the tie")
	assert.Equal(t, 3, got[2].Rank)
}
