package store

import (
	"context"

	"manufacturing_kds/pkg/models"
)

const supplierMetricCols = `
		SELECT s.tedarikci_id, s.tedarikci_kodu, s.tedarikci_adi, t.yil,
		       CAST(AVG(q.kalite_skoru) AS DOUBLE PRECISION),
		       CAST(AVG(q.ppm_orani) AS DOUBLE PRECISION),
		       CAST(AVG(q.teslimat_suresi) AS DOUBLE PRECISION),
		       CAST(AVG(q.planlanan_teslimat_suresi) AS DOUBLE PRECISION)
		FROM tedarikci_kalite q
		JOIN tedarikci s ON q.tedarikci_id = s.tedarikci_id
		JOIN tarih t ON q.tarih_id = t.tarih_id`

func scanSupplierMetric(sc scanner) (models.SupplierMetricRow, error) {
	var r models.SupplierMetricRow
	err := sc.Scan(&r.SupplierID, &r.SupplierCode, &r.SupplierName, &r.Year,
		&r.AvgQualityScore, &r.AvgPPMRate, &r.AvgDeliveryDays, &r.PlannedDeliveryDays)
	return r, err
}

// Suppliers lists the supplier master data.
func (s *Store) Suppliers(ctx context.Context) ([]models.SupplierInfo, error) {
	const q = `
		SELECT tedarikci_id, tedarikci_kodu, tedarikci_adi, COALESCE(ulke, '')
		FROM tedarikci
		ORDER BY tedarikci_kodu`
	return collect(ctx, s, "suppliers", func(sc scanner) (models.SupplierInfo, error) {
		var r models.SupplierInfo
		err := sc.Scan(&r.SupplierID, &r.SupplierCode, &r.SupplierName, &r.Country)
		return r, err
	}, q)
}

// SupplierTrend returns yearly quality per supplier over all years.
func (s *Store) SupplierTrend(ctx context.Context) ([]models.SupplierMetricRow, error) {
	q := supplierMetricCols + `
		GROUP BY s.tedarikci_id, s.tedarikci_kodu, s.tedarikci_adi, t.yil
		ORDER BY s.tedarikci_kodu, t.yil`
	return collect(ctx, s, "supplier trend", scanSupplierMetric, q)
}

// SupplierYearly returns one supplier's yearly quality in [startYear, endYear].
func (s *Store) SupplierYearly(ctx context.Context, supplierID int64, startYear, endYear int) ([]models.SupplierMetricRow, error) {
	q := supplierMetricCols + `
		WHERE q.tedarikci_id = ? AND t.yil BETWEEN ? AND ?
		GROUP BY s.tedarikci_id, s.tedarikci_kodu, s.tedarikci_adi, t.yil
		ORDER BY t.yil`
	return collect(ctx, s, "supplier yearly", scanSupplierMetric, q, supplierID, startYear, endYear)
}

// SupplierLatest returns every supplier's quality for year.
func (s *Store) SupplierLatest(ctx context.Context, year int) ([]models.SupplierMetricRow, error) {
	q := supplierMetricCols + `
		WHERE t.yil = ?
		GROUP BY s.tedarikci_id, s.tedarikci_kodu, s.tedarikci_adi, t.yil
		ORDER BY s.tedarikci_kodu`
	return collect(ctx, s, "supplier latest", scanSupplierMetric, q, year)
}

// ServiceRecords sums one supplier's service records per year and warranty
// status in [startYear, endYear].
func (s *Store) ServiceRecords(ctx context.Context, supplierID int64, startYear, endYear int) ([]models.ServiceRecordRow, error) {
	const q = `
		SELECT t.yil, sk.garanti_durumu,
		       CAST(SUM(sk.ariza_sayisi) AS BIGINT),
		       CAST(SUM(sk.servis_maliyeti) AS DOUBLE PRECISION)
		FROM servis_kayitlari sk
		JOIN tarih t ON sk.tarih_id = t.tarih_id
		WHERE sk.tedarikci_id = ? AND t.yil BETWEEN ? AND ?
		GROUP BY t.yil, sk.garanti_durumu
		ORDER BY t.yil, sk.garanti_durumu`
	return collect(ctx, s, "service records", func(sc scanner) (models.ServiceRecordRow, error) {
		var r models.ServiceRecordRow
		err := sc.Scan(&r.Year, &r.WarrantyStatus, &r.FaultCount, &r.ServiceCost)
		return r, err
	}, q, supplierID, startYear, endYear)
}

// LatestYear returns the most recent year in the date dimension, 0 when empty.
func (s *Store) LatestYear(ctx context.Context) (int, error) {
	return scalar[int](ctx, s, "latest year", `SELECT COALESCE(MAX(yil), 0) FROM tarih`)
}
