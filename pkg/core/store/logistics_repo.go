package store

import (
	"context"
	"database/sql"

	"manufacturing_kds/pkg/models"
)

func scanLogistics(withYear bool) func(scanner) (models.LogisticsMetricRow, error) {
	return func(sc scanner) (models.LogisticsMetricRow, error) {
		var r models.LogisticsMetricRow
		var incidents sql.NullInt64
		var wait, cost sql.NullFloat64
		dest := []any{&r.TransportType, &incidents, &wait, &cost, &r.TransactionCount}
		if withYear {
			dest = append([]any{&r.Year}, dest...)
		}
		if err := sc.Scan(dest...); err != nil {
			return r, err
		}
		r.IncidentCount = nullInt(incidents)
		r.AvgWaitMinutes = nullFloat(wait)
		r.Cost = nullFloat(cost)
		return r, nil
	}
}

// LatestLogistics aggregates the most recent year's intralogistics records
// per transport type. Aggregates stay NULL when no record carried a value.
func (s *Store) LatestLogistics(ctx context.Context) ([]models.LogisticsMetricRow, error) {
	q := `
		SELECT l.tasima_tipi,
		       CAST(SUM(l.kaza_sayisi) AS BIGINT),
		       CAST(AVG(l.bekleme_suresi) AS DOUBLE PRECISION),
		       CAST(SUM(l.maliyet) AS DOUBLE PRECISION),
		       CAST(COUNT(*) AS BIGINT)
		FROM intralojistik l
		JOIN tarih t ON l.tarih_id = t.tarih_id
		WHERE t.yil = ` + latestYear + `
		GROUP BY l.tasima_tipi
		ORDER BY l.tasima_tipi`
	return collect(ctx, s, "latest logistics", scanLogistics(false), q)
}

// LogisticsHistory aggregates intralogistics per year and transport type.
func (s *Store) LogisticsHistory(ctx context.Context) ([]models.LogisticsMetricRow, error) {
	const q = `
		SELECT t.yil, l.tasima_tipi,
		       CAST(SUM(l.kaza_sayisi) AS BIGINT),
		       CAST(AVG(l.bekleme_suresi) AS DOUBLE PRECISION),
		       CAST(SUM(l.maliyet) AS DOUBLE PRECISION),
		       CAST(COUNT(*) AS BIGINT)
		FROM intralojistik l
		JOIN tarih t ON l.tarih_id = t.tarih_id
		GROUP BY t.yil, l.tasima_tipi
		ORDER BY t.yil, l.tasima_tipi`
	return collect(ctx, s, "logistics history", scanLogistics(true), q)
}
