package store

import (
	"context"

	"manufacturing_kds/pkg/models"
)

// ProductionByPowertrain aggregates demand and output per year and powertrain.
func (s *Store) ProductionByPowertrain(ctx context.Context) ([]models.ProductionRow, error) {
	const q = `
		SELECT t.yil, m.guc_tipi,
		       CAST(SUM(u.talep_miktari) AS DOUBLE PRECISION),
		       CAST(SUM(u.gerceklesen_miktar) AS DOUBLE PRECISION),
		       CAST(COALESCE(AVG(u.kapasite_kullanimi), 0) AS DOUBLE PRECISION)
		FROM uretim_talep u
		JOIN model m ON u.model_id = m.model_id
		JOIN tarih t ON u.tarih_id = t.tarih_id
		GROUP BY t.yil, m.guc_tipi
		ORDER BY t.yil, m.guc_tipi`
	return collect(ctx, s, "production by powertrain", func(sc scanner) (models.ProductionRow, error) {
		var r models.ProductionRow
		err := sc.Scan(&r.Year, &r.Powertrain, &r.Demand, &r.Produced, &r.AvgCapacityUtilization)
		return r, err
	}, q)
}

// LineCapacity returns each line's demand and output in year against its
// nominal capacity. Lines without records report zero demand.
func (s *Store) LineCapacity(ctx context.Context, year int) ([]models.LineCapacityRow, error) {
	const q = `
		SELECT h.hat_kodu, h.hat_adi,
		       CAST(h.kapasite AS DOUBLE PRECISION),
		       CAST(COALESCE(SUM(u.talep_miktari), 0) AS DOUBLE PRECISION),
		       CAST(COALESCE(SUM(u.gerceklesen_miktar), 0) AS DOUBLE PRECISION)
		FROM hat h
		LEFT JOIN uretim_talep u ON u.hat_id = h.hat_id
		     AND u.tarih_id IN (SELECT tarih_id FROM tarih WHERE yil = ?)
		GROUP BY h.hat_id, h.hat_kodu, h.hat_adi, h.kapasite
		ORDER BY h.hat_kodu`
	return collect(ctx, s, "line capacity", func(sc scanner) (models.LineCapacityRow, error) {
		var r models.LineCapacityRow
		err := sc.Scan(&r.LineCode, &r.LineName, &r.Capacity, &r.Demand, &r.Produced)
		return r, err
	}, q, year)
}

// ProductionYears lists the years that carry production records.
func (s *Store) ProductionYears(ctx context.Context) ([]int, error) {
	const q = `
		SELECT DISTINCT t.yil
		FROM uretim_talep u
		JOIN tarih t ON u.tarih_id = t.tarih_id
		ORDER BY t.yil`
	return collect(ctx, s, "production years", func(sc scanner) (int, error) {
		var y int
		err := sc.Scan(&y)
		return y, err
	}, q)
}
