package store

import (
	"context"
	"database/sql"

	"manufacturing_kds/pkg/models"
)

const latestYear = `(SELECT MAX(yil) FROM tarih)`

// RobotScrapTrend returns the average scrap rate per robot and year.
func (s *Store) RobotScrapTrend(ctx context.Context, startYear, endYear int) ([]models.RobotMetricRow, error) {
	const q = `
		SELECT t.yil, r.robot_id, r.robot_kodu,
		       CAST(AVG(k.scrap_orani) AS DOUBLE PRECISION) AS ort_scrap_orani
		FROM kaynak_kalitesi k
		JOIN robot r ON k.robot_id = r.robot_id
		JOIN tarih t ON k.tarih_id = t.tarih_id
		WHERE t.yil BETWEEN ? AND ?
		GROUP BY t.yil, r.robot_id, r.robot_kodu
		ORDER BY r.robot_kodu, t.yil`
	return collect(ctx, s, "robot scrap trend", func(sc scanner) (models.RobotMetricRow, error) {
		var r models.RobotMetricRow
		err := sc.Scan(&r.Year, &r.RobotID, &r.RobotCode, &r.AvgScrapRate)
		return r, err
	}, q, startYear, endYear)
}

// RobotYearlyScrap returns scrap units and scrap cost per robot and year.
func (s *Store) RobotYearlyScrap(ctx context.Context, startYear, endYear int) ([]models.RobotMetricRow, error) {
	const q = `
		SELECT t.yil, r.robot_id, r.robot_kodu,
		       CAST(SUM(k.scrap_adet) AS BIGINT) AS toplam_scrap,
		       CAST(SUM(k.scrap_maliyeti) AS DOUBLE PRECISION) AS toplam_maliyet
		FROM kaynak_kalitesi k
		JOIN robot r ON k.robot_id = r.robot_id
		JOIN tarih t ON k.tarih_id = t.tarih_id
		WHERE t.yil BETWEEN ? AND ?
		GROUP BY t.yil, r.robot_id, r.robot_kodu
		ORDER BY r.robot_kodu, t.yil`
	return collect(ctx, s, "robot yearly scrap", func(sc scanner) (models.RobotMetricRow, error) {
		var r models.RobotMetricRow
		err := sc.Scan(&r.Year, &r.RobotID, &r.RobotCode, &r.ScrapCount, &r.ScrapCost)
		return r, err
	}, q, startYear, endYear)
}

// MaintenanceByRobot sums maintenance spend per robot code over the years.
func (s *Store) MaintenanceByRobot(ctx context.Context, startYear, endYear int) (map[string]float64, error) {
	const q = `
		SELECT r.robot_kodu, CAST(SUM(b.maliyet) AS DOUBLE PRECISION) AS toplam_bakim
		FROM robot_bakim b
		JOIN robot r ON b.robot_id = r.robot_id
		JOIN tarih t ON b.tarih_id = t.tarih_id
		WHERE t.yil BETWEEN ? AND ?
		GROUP BY r.robot_kodu`
	type pair struct {
		code string
		cost float64
	}
	rows, err := collect(ctx, s, "maintenance by robot", func(sc scanner) (pair, error) {
		var p pair
		err := sc.Scan(&p.code, &p.cost)
		return p, err
	}, q, startYear, endYear)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, p := range rows {
		out[p.code] = p.cost
	}
	return out, nil
}

// LatestRobotScrap returns each welding robot's scrap units, scrap cost and
// average scrap rate in the most recent year.
func (s *Store) LatestRobotScrap(ctx context.Context) ([]models.RobotMetricRow, error) {
	q := `
		SELECT t.yil, r.robot_id, r.robot_kodu,
		       CAST(SUM(k.scrap_adet) AS BIGINT),
		       CAST(SUM(k.scrap_maliyeti) AS DOUBLE PRECISION),
		       CAST(AVG(k.scrap_orani) AS DOUBLE PRECISION)
		FROM kaynak_kalitesi k
		JOIN robot r ON k.robot_id = r.robot_id
		JOIN tarih t ON k.tarih_id = t.tarih_id
		WHERE t.yil = ` + latestYear + `
		GROUP BY t.yil, r.robot_id, r.robot_kodu
		ORDER BY r.robot_kodu`
	return collect(ctx, s, "latest robot scrap", func(sc scanner) (models.RobotMetricRow, error) {
		var r models.RobotMetricRow
		err := sc.Scan(&r.Year, &r.RobotID, &r.RobotCode, &r.ScrapCount, &r.ScrapCost, &r.AvgScrapRate)
		return r, err
	}, q)
}

// RobotMaintenanceAnalysis joins each welding robot's maintenance over the
// last three years with its scrap in the latest year.
func (s *Store) RobotMaintenanceAnalysis(ctx context.Context) ([]models.RobotMaintenanceRow, error) {
	q := `
		SELECT r.robot_kodu,
		       CAST(SUM(b.maliyet) AS DOUBLE PRECISION),
		       CAST(AVG(b.maliyet) AS DOUBLE PRECISION),
		       CAST(SUM(b.ariza_sayisi) AS BIGINT),
		       CAST(COUNT(*) AS BIGINT),
		       r.yatirim_maliyeti
		FROM robot_bakim b
		JOIN robot r ON b.robot_id = r.robot_id
		JOIN tarih t ON b.tarih_id = t.tarih_id
		WHERE t.yil BETWEEN ` + latestYear + ` - 2 AND ` + latestYear + `
		GROUP BY r.robot_id, r.robot_kodu, r.yatirim_maliyeti`
	maint, err := collect(ctx, s, "robot maintenance", func(sc scanner) (models.RobotMaintenanceRow, error) {
		var r models.RobotMaintenanceRow
		var invest sql.NullFloat64
		err := sc.Scan(&r.RobotCode, &r.MaintenanceCost, &r.AvgMaintenanceCost, &r.FaultCount, &r.MaintenanceEvents, &invest)
		r.InvestmentCost = nullFloat(invest)
		return r, err
	}, q)
	if err != nil {
		return nil, err
	}
	scrap, err := s.LatestRobotScrap(ctx)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]models.RobotMaintenanceRow, len(maint))
	for _, m := range maint {
		byCode[m.RobotCode] = m
	}
	out := make([]models.RobotMaintenanceRow, 0, len(scrap))
	for _, sr := range scrap {
		row := byCode[sr.RobotCode]
		row.RobotID = sr.RobotID
		row.RobotCode = sr.RobotCode
		row.AnnualScrapCount = sr.ScrapCount
		row.AnnualScrapCost = sr.ScrapCost
		out = append(out, row)
	}
	return out, nil
}

// MaintenanceEvents lists every maintenance visit, newest first per robot.
func (s *Store) MaintenanceEvents(ctx context.Context) ([]models.MaintenanceEvent, error) {
	const q = `
		SELECT r.robot_kodu, t.yil, CAST(b.maliyet AS DOUBLE PRECISION)
		FROM robot_bakim b
		JOIN robot r ON b.robot_id = r.robot_id
		JOIN tarih t ON b.tarih_id = t.tarih_id
		ORDER BY r.robot_kodu, t.yil DESC`
	return collect(ctx, s, "maintenance events", func(sc scanner) (models.MaintenanceEvent, error) {
		var e models.MaintenanceEvent
		err := sc.Scan(&e.RobotCode, &e.Year, &e.Cost)
		return e, err
	}, q)
}

// YearlyScrapRate returns the plant-wide average scrap rate per year.
func (s *Store) YearlyScrapRate(ctx context.Context) ([]models.PeriodAggregate, error) {
	const q = `
		SELECT t.yil, CAST(AVG(k.scrap_orani) AS DOUBLE PRECISION)
		FROM kaynak_kalitesi k
		JOIN tarih t ON k.tarih_id = t.tarih_id
		GROUP BY t.yil
		ORDER BY t.yil`
	return collect(ctx, s, "yearly scrap rate", scanPeriodAggregate, q)
}

// WeldQualityTrend returns yearly weld quality per robot.
func (s *Store) WeldQualityTrend(ctx context.Context) ([]models.WeldQualityRow, error) {
	const q = `
		SELECT t.yil, r.robot_kodu,
		       CAST(COALESCE(AVG(k.sapma_orani), 0) AS DOUBLE PRECISION),
		       CAST(AVG(k.scrap_orani) AS DOUBLE PRECISION),
		       CAST(COALESCE(AVG(k.olcum_degeri), 0) AS DOUBLE PRECISION)
		FROM kaynak_kalitesi k
		JOIN robot r ON k.robot_id = r.robot_id
		JOIN tarih t ON k.tarih_id = t.tarih_id
		GROUP BY t.yil, r.robot_id, r.robot_kodu
		ORDER BY t.yil, r.robot_kodu`
	return collect(ctx, s, "weld quality trend", func(sc scanner) (models.WeldQualityRow, error) {
		var r models.WeldQualityRow
		err := sc.Scan(&r.Year, &r.RobotCode, &r.AvgDeviation, &r.AvgScrapRate, &r.AvgMeasurement)
		return r, err
	}, q)
}

func scanPeriodAggregate(sc scanner) (models.PeriodAggregate, error) {
	var p models.PeriodAggregate
	err := sc.Scan(&p.Year, &p.Value)
	return p, err
}
