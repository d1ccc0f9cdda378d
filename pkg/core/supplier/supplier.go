// Package supplier derives supplier quality trends, forecasts and the
// warranty split of service records.
package supplier

import (
	"sort"

	"manufacturing_kds/pkg/core/calc"
	"manufacturing_kds/pkg/core/forecast"
	"manufacturing_kds/pkg/models"
)

// TrendSummary condenses a yearly series.
type TrendSummary struct {
	YearCount int     `json:"yilSayisi"`
	AvgChange float64 `json:"ortDegisim"`
}

// TrendResult is a yearly series and its average year-over-year change.
type TrendResult struct {
	Points  []models.PeriodAggregate `json:"seri"`
	Summary TrendSummary             `json:"ozet"`
}

// TrendWithAverageChange orders points by year and averages the percentage
// change of every pair with a positive prior. Without such a pair the
// average is 0.
func TrendWithAverageChange(points []models.PeriodAggregate) TrendResult {
	sorted := make([]models.PeriodAggregate, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	values := make([]float64, len(sorted))
	for i, p := range sorted {
		values[i] = p.Value
	}
	return TrendResult{
		Points: sorted,
		Summary: TrendSummary{
			YearCount: len(sorted),
			AvgChange: calc.Round2(calc.AvgPctChange(values)),
		},
	}
}

// ForecastResult projects quality score and PPM.
type ForecastResult struct {
	BaseYear    int             `json:"baseYear"`
	QualityBase float64         `json:"qualityBase"`
	PPMBase     float64         `json:"ppmBase"`
	Quality     forecast.Series `json:"quality"`
	PPM         forecast.Series `json:"ppm"`
	BaseRows    int             `json:"-"`
}

// Forecast compounds the mean quality score and mean PPM of the most recent
// year in rows. Without rows both series are empty.
func Forecast(rows []models.SupplierMetricRow, qualityPct, ppmPct float64, months int) ForecastResult {
	if len(rows) == 0 {
		return ForecastResult{Quality: forecast.Series{}, PPM: forecast.Series{}}
	}
	latest := 0
	for _, r := range rows {
		latest = max(latest, r.Year)
	}
	var quality, ppm []float64
	for _, r := range rows {
		if r.Year != latest {
			continue
		}
		quality = append(quality, r.AvgQualityScore)
		ppm = append(ppm, r.AvgPPMRate)
	}
	qBase, pBase := calc.Mean(quality), calc.Mean(ppm)
	return ForecastResult{
		BaseYear:    latest,
		QualityBase: calc.Round2(qBase),
		PPMBase:     calc.Round2(pBase),
		Quality:     forecast.Compound(qBase, qualityPct, months),
		PPM:         forecast.Compound(pBase, ppmPct, months),
		BaseRows:    len(quality),
	}
}

// ServiceYear splits one year of service records by warranty status.
type ServiceYear struct {
	Year              int     `json:"yil"`
	InWarrantyFaults  int64   `json:"garantiIciAriza"`
	InWarrantyCost    float64 `json:"garantiIciMaliyet"`
	OutWarrantyFaults int64   `json:"garantiDisiAriza"`
	OutWarrantyCost   float64 `json:"garantiDisiMaliyet"`
}

// ServiceSummary holds the totals over all years.
type ServiceSummary struct {
	InWarrantyTotal  int64   `json:"garantiIciToplam"`
	OutWarrantyTotal int64   `json:"garantiDisiToplam"`
	TotalFaults      int64   `json:"toplamAriza"`
	InWarrantyCost   float64 `json:"garantiIciMaliyet"`
	OutWarrantyCost  float64 `json:"garantiDisiMaliyet"`
}

// ServiceResult is the warranty analysis of a supplier.
type ServiceResult struct {
	Years   []ServiceYear  `json:"yillar"`
	Summary ServiceSummary `json:"ozet"`
}

// ServiceAnalysis sums faults and costs per year on each side of the
// warranty flag. Any status other than in-warranty counts as out of warranty.
func ServiceAnalysis(rows []models.ServiceRecordRow) ServiceResult {
	byYear := make(map[int]*ServiceYear)
	var summary ServiceSummary
	for _, r := range rows {
		y, ok := byYear[r.Year]
		if !ok {
			y = &ServiceYear{Year: r.Year}
			byYear[r.Year] = y
		}
		if r.WarrantyStatus == models.WarrantyIn {
			y.InWarrantyFaults += r.FaultCount
			y.InWarrantyCost += r.ServiceCost
			summary.InWarrantyTotal += r.FaultCount
			summary.InWarrantyCost += r.ServiceCost
		} else {
			y.OutWarrantyFaults += r.FaultCount
			y.OutWarrantyCost += r.ServiceCost
			summary.OutWarrantyTotal += r.FaultCount
			summary.OutWarrantyCost += r.ServiceCost
		}
	}
	summary.TotalFaults = summary.InWarrantyTotal + summary.OutWarrantyTotal
	summary.InWarrantyCost = calc.Round2(summary.InWarrantyCost)
	summary.OutWarrantyCost = calc.Round2(summary.OutWarrantyCost)

	years := make([]ServiceYear, 0, len(byYear))
	for _, y := range byYear {
		y.InWarrantyCost = calc.Round2(y.InWarrantyCost)
		y.OutWarrantyCost = calc.Round2(y.OutWarrantyCost)
		years = append(years, *y)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })

	return ServiceResult{Years: years, Summary: summary}
}

// DelayYear is the delivery performance of one year. Negative delay means
// early delivery.
type DelayYear struct {
	Year    int     `json:"yil"`
	Planned float64 `json:"planlanan"`
	Actual  float64 `json:"gerceklesen"`
	Delay   float64 `json:"gecikme"`
}

// DelayResult is the delivery delay history of a supplier.
type DelayResult struct {
	Years     []DelayYear `json:"yillar"`
	AvgDelay  float64     `json:"ortGecikme"`
	YearCount int         `json:"yilSayisi"`
}

// DeliveryDelay computes actual minus planned delivery days per year and
// their plain average.
func DeliveryDelay(rows []models.SupplierMetricRow) DelayResult {
	years := make([]DelayYear, 0, len(rows))
	delays := make([]float64, 0, len(rows))
	for _, r := range rows {
		d := r.AvgDeliveryDays - r.PlannedDeliveryDays
		delays = append(delays, d)
		years = append(years, DelayYear{
			Year:    r.Year,
			Planned: calc.Round2(r.PlannedDeliveryDays),
			Actual:  calc.Round2(r.AvgDeliveryDays),
			Delay:   calc.Round2(d),
		})
	}
	sort.SliceStable(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return DelayResult{Years: years, AvgDelay: calc.Round2(calc.Mean(delays)), YearCount: len(years)}
}

// ScorecardRow ranks a supplier within a year.
type ScorecardRow struct {
	Rank         int     `json:"sira"`
	SupplierID   int64   `json:"tedarikci_id"`
	SupplierCode string  `json:"tedarikci_kodu"`
	SupplierName string  `json:"tedarikci_adi"`
	QualityScore float64 `json:"kalite_skoru"`
	PPMRate      float64 `json:"ppm_orani"`
	Delay        float64 `json:"gecikme"`
}

// Scorecard ranks suppliers by quality score, best first. Ties go to the
// lower PPM, then to the supplier code.
func Scorecard(rows []models.SupplierMetricRow) []ScorecardRow {
	sorted := make([]models.SupplierMetricRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.AvgQualityScore != b.AvgQualityScore {
			return a.AvgQualityScore > b.AvgQualityScore
		}
		if a.AvgPPMRate != b.AvgPPMRate {
			return a.AvgPPMRate < b.AvgPPMRate
		}
		return a.SupplierCode < b.SupplierCode
	})

	out := make([]ScorecardRow, 0, len(sorted))
	for i, r := range sorted {
		out = append(out, ScorecardRow{
			Rank:         i + 1,
			SupplierID:   r.SupplierID,
			SupplierCode: r.SupplierCode,
			SupplierName: r.SupplierName,
			QualityScore: calc.Round2(r.AvgQualityScore),
			PPMRate:      calc.Round2(r.AvgPPMRate),
			Delay:        calc.Round2(r.AvgDeliveryDays - r.PlannedDeliveryDays),
		})
	}
	return out
}
