package store

import (
	"context"
	"fmt"

	"manufacturing_kds/pkg/models"
)

// The dashboard reads filter on a year and, optionally, a quarter. Quarter 0
// spans the whole year.
const periodFilter = `t.yil = ? AND (? = 0 OR t.ceyrek = ?)`

func periodArgs(year, quarter int) []any {
	return []any{year, quarter, quarter}
}

// =============================================================================
// OVERVIEW
// =============================================================================

// LatestPeriod returns the most recent year with its last quarter and month.
// An empty date dimension yields the zero Period.
func (s *Store) LatestPeriod(ctx context.Context) (models.Period, error) {
	q := `
		SELECT COALESCE(MAX(yil), 0), COALESCE(MAX(ceyrek), 0), COALESCE(MAX(ay), 0)
		FROM tarih
		WHERE yil = ` + latestYear
	ps, err := collect(ctx, s, "latest period", func(sc scanner) (models.Period, error) {
		var p models.Period
		err := sc.Scan(&p.Year, &p.Quarter, &p.Month)
		return p, err
	}, q)
	if err != nil || len(ps) == 0 {
		return models.Period{}, err
	}
	return ps[0], nil
}

// CountLines returns the number of production lines.
func (s *Store) CountLines(ctx context.Context) (int, error) {
	return scalar[int](ctx, s, "count lines", `SELECT CAST(COUNT(*) AS BIGINT) FROM hat`)
}

// SupplierCount returns the number of suppliers on record.
func (s *Store) SupplierCount(ctx context.Context) (int, error) {
	return scalar[int](ctx, s, "supplier count", `SELECT CAST(COUNT(*) AS BIGINT) FROM tedarikci`)
}

// Production sums the realized output of a year, or of one quarter.
func (s *Store) Production(ctx context.Context, year, quarter int) (float64, error) {
	q := `
		SELECT CAST(COALESCE(SUM(u.gerceklesen_miktar), 0) AS DOUBLE PRECISION)
		FROM uretim_talep u
		JOIN tarih t ON u.tarih_id = t.tarih_id
		WHERE ` + periodFilter
	return scalar[float64](ctx, s, "production", q, periodArgs(year, quarter)...)
}

// ScrapRate averages the welding scrap rate of a year, or of one quarter.
func (s *Store) ScrapRate(ctx context.Context, year, quarter int) (float64, error) {
	q := `
		SELECT CAST(COALESCE(AVG(k.scrap_orani), 0) AS DOUBLE PRECISION)
		FROM kaynak_kalitesi k
		JOIN tarih t ON k.tarih_id = t.tarih_id
		WHERE ` + periodFilter
	return scalar[float64](ctx, s, "scrap rate", q, periodArgs(year, quarter)...)
}

// Incidents counts ergonomic and intralogistics incidents together.
func (s *Store) Incidents(ctx context.Context, year, quarter int) (float64, error) {
	q := `
		SELECT CAST(
		       (SELECT COALESCE(SUM(e.kaza_sayisi), 0) FROM ergonomi e
		        JOIN tarih t ON e.tarih_id = t.tarih_id WHERE ` + periodFilter + `) +
		       (SELECT COALESCE(SUM(l.kaza_sayisi), 0) FROM intralojistik l
		        JOIN tarih t ON l.tarih_id = t.tarih_id WHERE ` + periodFilter + `)
		       AS DOUBLE PRECISION)`
	args := append(periodArgs(year, quarter), periodArgs(year, quarter)...)
	return scalar[float64](ctx, s, "incidents", q, args...)
}

// DeliveryDays averages supplier delivery time in a year, or one quarter.
func (s *Store) DeliveryDays(ctx context.Context, year, quarter int) (float64, error) {
	q := `
		SELECT CAST(COALESCE(AVG(q.teslimat_suresi), 0) AS DOUBLE PRECISION)
		FROM tedarikci_kalite q
		JOIN tarih t ON q.tarih_id = t.tarih_id
		WHERE ` + periodFilter
	return scalar[float64](ctx, s, "delivery days", q, periodArgs(year, quarter)...)
}

// LossInputs gathers the raw quantities the loss figures are priced from.
func (s *Store) LossInputs(ctx context.Context, year, quarter int) (models.LossInputs, error) {
	q := `
		SELECT
		  CAST((SELECT COALESCE(SUM(k.scrap_orani), 0) FROM kaynak_kalitesi k
		        JOIN tarih t ON k.tarih_id = t.tarih_id WHERE ` + periodFilter + `) AS DOUBLE PRECISION),
		  CAST((SELECT COALESCE(SUM(e.kaza_sayisi), 0) FROM ergonomi e
		        JOIN tarih t ON e.tarih_id = t.tarih_id WHERE ` + periodFilter + `) AS DOUBLE PRECISION),
		  CAST((SELECT COALESCE(SUM(l.bekleme_suresi), 0) FROM intralojistik l
		        JOIN tarih t ON l.tarih_id = t.tarih_id WHERE ` + periodFilter + `) AS DOUBLE PRECISION),
		  CAST((SELECT COALESCE(SUM(q.teslimat_suresi), 0) FROM tedarikci_kalite q
		        JOIN tarih t ON q.tarih_id = t.tarih_id WHERE ` + periodFilter + `) AS DOUBLE PRECISION)`
	var args []any
	for i := 0; i < 4; i++ {
		args = append(args, periodArgs(year, quarter)...)
	}
	ls, err := collect(ctx, s, "loss inputs", func(sc scanner) (models.LossInputs, error) {
		var l models.LossInputs
		err := sc.Scan(&l.ScrapRateSum, &l.ErgonomicIncidents, &l.WaitMinutes, &l.DeliveryDays)
		return l, err
	}, q, args...)
	if err != nil || len(ls) == 0 {
		return models.LossInputs{}, err
	}
	return ls[0], nil
}

// QuarterLossInputs returns LossInputs for each quarter of year.
func (s *Store) QuarterLossInputs(ctx context.Context, year int) ([4]models.LossInputs, error) {
	var out [4]models.LossInputs
	for q := 1; q <= 4; q++ {
		l, err := s.LossInputs(ctx, year, q)
		if err != nil {
			return out, err
		}
		out[q-1] = l
	}
	return out, nil
}

// =============================================================================
// ACTION SIGNALS
// =============================================================================

// RobotSignals returns, per robot, the worst scrap rate (Primary) and the
// largest single maintenance cost (Secondary) recorded in year.
func (s *Store) RobotSignals(ctx context.Context, year int) ([]models.RiskRow, error) {
	const q = `
		SELECT r.robot_kodu, r.robot_tipi,
		       CAST(COALESCE((SELECT MAX(k.scrap_orani) FROM kaynak_kalitesi k
		                      JOIN tarih t ON k.tarih_id = t.tarih_id
		                      WHERE k.robot_id = r.robot_id AND t.yil = ?), 0) AS DOUBLE PRECISION),
		       CAST(COALESCE((SELECT MAX(b.maliyet) FROM robot_bakim b
		                      JOIN tarih t ON b.tarih_id = t.tarih_id
		                      WHERE b.robot_id = r.robot_id AND t.yil = ?), 0) AS DOUBLE PRECISION)
		FROM robot r
		ORDER BY r.robot_kodu`
	return collect(ctx, s, "robot signals", scanRiskRow, q, year, year)
}

// ForkliftIncidents sums forklift incidents in year.
func (s *Store) ForkliftIncidents(ctx context.Context, year int) (float64, error) {
	const q = `
		SELECT CAST(COALESCE(SUM(l.kaza_sayisi), 0) AS DOUBLE PRECISION)
		FROM intralojistik l
		JOIN tarih t ON l.tarih_id = t.tarih_id
		WHERE t.yil = ? AND l.tasima_tipi = ?`
	return scalar[float64](ctx, s, "forklift incidents", q, year, models.TransportForklift)
}

// TopModel returns the model with the largest realized output in year, or
// nil when nothing was produced.
func (s *Store) TopModel(ctx context.Context, year int) (*models.TopModel, error) {
	const q = `
		SELECT m.model_adi, CAST(SUM(u.gerceklesen_miktar) AS DOUBLE PRECISION) AS toplam
		FROM uretim_talep u
		JOIN model m ON u.model_id = m.model_id
		JOIN tarih t ON u.tarih_id = t.tarih_id
		WHERE t.yil = ?
		GROUP BY m.model_id, m.model_adi
		ORDER BY toplam DESC, m.model_adi
		LIMIT 1`
	ms, err := collect(ctx, s, "top model", func(sc scanner) (models.TopModel, error) {
		var m models.TopModel
		err := sc.Scan(&m.ModelName, &m.Units)
		return m, err
	}, q, year)
	if err != nil || len(ms) == 0 {
		return nil, err
	}
	return &ms[0], nil
}

// =============================================================================
// PANELS
// =============================================================================

type quarterKey struct{ year, quarter int }

type quarterValue struct {
	key   quarterKey
	value float64
}

func scanQuarterValue(sc scanner) (quarterValue, error) {
	var v quarterValue
	err := sc.Scan(&v.key.year, &v.key.quarter, &v.value)
	return v, err
}

// QuarterSnapshots returns the health figures of every quarter from
// fromYear on. Quarters without records in a table report 0 for it.
func (s *Store) QuarterSnapshots(ctx context.Context, fromYear int) ([]models.QuarterSnapshot, error) {
	const periods = `
		SELECT DISTINCT yil, ceyrek FROM tarih WHERE yil >= ? ORDER BY yil, ceyrek`
	keys, err := collect(ctx, s, "snapshot periods", func(sc scanner) (quarterKey, error) {
		var k quarterKey
		err := sc.Scan(&k.year, &k.quarter)
		return k, err
	}, periods, fromYear)
	if err != nil {
		return nil, err
	}

	grouped := func(op, table, alias, expr string) (map[quarterKey]float64, error) {
		q := fmt.Sprintf(`
			SELECT t.yil, t.ceyrek, CAST(%s AS DOUBLE PRECISION)
			FROM %s %s
			JOIN tarih t ON %s.tarih_id = t.tarih_id
			WHERE t.yil >= ?
			GROUP BY t.yil, t.ceyrek`, expr, table, alias, alias)
		vs, err := collect(ctx, s, op, scanQuarterValue, q, fromYear)
		if err != nil {
			return nil, err
		}
		m := make(map[quarterKey]float64, len(vs))
		for _, v := range vs {
			m[v.key] += v.value
		}
		return m, nil
	}

	production, err := grouped("snapshot production", "uretim_talep", "u", "SUM(u.gerceklesen_miktar)")
	if err != nil {
		return nil, err
	}
	scrap, err := grouped("snapshot scrap", "kaynak_kalitesi", "k", "AVG(k.scrap_orani)")
	if err != nil {
		return nil, err
	}
	ergonomic, err := grouped("snapshot ergonomics", "ergonomi", "e", "SUM(e.kaza_sayisi)")
	if err != nil {
		return nil, err
	}
	logistics, err := grouped("snapshot logistics", "intralojistik", "l", "COALESCE(SUM(l.kaza_sayisi), 0)")
	if err != nil {
		return nil, err
	}
	delivery, err := grouped("snapshot delivery", "tedarikci_kalite", "q", "AVG(q.teslimat_suresi)")
	if err != nil {
		return nil, err
	}

	out := make([]models.QuarterSnapshot, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.QuarterSnapshot{
			Year:         k.year,
			Quarter:      k.quarter,
			Production:   production[k],
			ScrapRate:    scrap[k],
			Incidents:    ergonomic[k] + logistics[k],
			DeliveryDays: delivery[k],
		})
	}
	return out, nil
}

func scanRiskRow(sc scanner) (models.RiskRow, error) {
	var r models.RiskRow
	err := sc.Scan(&r.Name, &r.Kind, &r.Primary, &r.Secondary)
	return r, err
}

// CriticalRobots returns every robot's total faults (Primary) and average
// scrap rate (Secondary) over all years.
func (s *Store) CriticalRobots(ctx context.Context) ([]models.RiskRow, error) {
	const q = `
		SELECT r.robot_kodu, r.robot_tipi,
		       CAST(COALESCE((SELECT SUM(b.ariza_sayisi) FROM robot_bakim b
		                      WHERE b.robot_id = r.robot_id), 0) AS DOUBLE PRECISION),
		       CAST(COALESCE((SELECT AVG(k.scrap_orani) FROM kaynak_kalitesi k
		                      WHERE k.robot_id = r.robot_id), 0) AS DOUBLE PRECISION)
		FROM robot r
		ORDER BY r.robot_kodu`
	return collect(ctx, s, "critical robots", scanRiskRow, q)
}

// CriticalStations returns every station's total incidents (Primary) and
// average risk score (Secondary).
func (s *Store) CriticalStations(ctx context.Context) ([]models.RiskRow, error) {
	const q = `
		SELECT i.istasyon_adi, COALESCE(i.risk_seviyesi, ''),
		       CAST(SUM(e.kaza_sayisi) AS DOUBLE PRECISION),
		       CAST(COALESCE(AVG(e.risk_skoru), 0) AS DOUBLE PRECISION)
		FROM istasyon i
		JOIN ergonomi e ON i.istasyon_id = e.istasyon_id
		GROUP BY i.istasyon_id, i.istasyon_adi, i.risk_seviyesi
		ORDER BY i.istasyon_adi`
	return collect(ctx, s, "critical stations", scanRiskRow, q)
}

// CriticalSuppliers returns every supplier's average PPM (Primary) and
// average delivery days (Secondary).
func (s *Store) CriticalSuppliers(ctx context.Context) ([]models.RiskRow, error) {
	const q = `
		SELECT s.tedarikci_adi, COALESCE(s.kategori, ''),
		       CAST(AVG(q.ppm_orani) AS DOUBLE PRECISION),
		       CAST(AVG(q.teslimat_suresi) AS DOUBLE PRECISION)
		FROM tedarikci s
		JOIN tedarikci_kalite q ON s.tedarikci_id = q.tedarikci_id
		GROUP BY s.tedarikci_id, s.tedarikci_adi, s.kategori
		ORDER BY s.tedarikci_adi`
	return collect(ctx, s, "critical suppliers", scanRiskRow, q)
}

// LossSourceTotals sums the loss drivers of year per origin: ergonomic
// incidents, robot faults, intralogistics incidents and supplier PPM.
func (s *Store) LossSourceTotals(ctx context.Context, year int) (models.LossSourceTotals, error) {
	const q = `
		SELECT
		  CAST((SELECT COALESCE(SUM(e.kaza_sayisi), 0) FROM ergonomi e
		        JOIN tarih t ON e.tarih_id = t.tarih_id WHERE t.yil = ?) AS DOUBLE PRECISION),
		  CAST((SELECT COALESCE(SUM(b.ariza_sayisi), 0) FROM robot_bakim b
		        JOIN tarih t ON b.tarih_id = t.tarih_id WHERE t.yil = ?) AS DOUBLE PRECISION),
		  CAST((SELECT COALESCE(SUM(l.kaza_sayisi), 0) FROM intralojistik l
		        JOIN tarih t ON l.tarih_id = t.tarih_id WHERE t.yil = ?) AS DOUBLE PRECISION),
		  CAST((SELECT COALESCE(SUM(q.ppm_orani), 0) FROM tedarikci_kalite q
		        JOIN tarih t ON q.tarih_id = t.tarih_id WHERE t.yil = ?) AS DOUBLE PRECISION)`
	ts, err := collect(ctx, s, "loss source totals", func(sc scanner) (models.LossSourceTotals, error) {
		var t models.LossSourceTotals
		err := sc.Scan(&t.Human, &t.Robot, &t.System, &t.Supplier)
		return t, err
	}, q, year, year, year, year)
	if err != nil || len(ts) == 0 {
		return models.LossSourceTotals{}, err
	}
	return ts[0], nil
}

// LossSourceDetails breaks the loss origins down over all years: incidents
// by age group, faults by robot type and incidents by transport type.
func (s *Store) LossSourceDetails(ctx context.Context) (map[string][]models.NamedValue, error) {
	breakdowns := []struct {
		key, op, query string
	}{
		{"insan", "human loss detail", `
			SELECT COALESCE(yas_grubu, ''), CAST(SUM(kaza_sayisi) AS DOUBLE PRECISION)
			FROM ergonomi GROUP BY yas_grubu`},
		{"robot", "robot loss detail", `
			SELECT r.robot_tipi, CAST(SUM(b.ariza_sayisi) AS DOUBLE PRECISION)
			FROM robot_bakim b JOIN robot r ON b.robot_id = r.robot_id
			GROUP BY r.robot_tipi`},
		{"sistem", "system loss detail", `
			SELECT tasima_tipi, CAST(COALESCE(SUM(kaza_sayisi), 0) AS DOUBLE PRECISION)
			FROM intralojistik GROUP BY tasima_tipi`},
	}
	out := make(map[string][]models.NamedValue, len(breakdowns))
	for _, b := range breakdowns {
		vs, err := collect(ctx, s, b.op, func(sc scanner) (models.NamedValue, error) {
			var v models.NamedValue
			err := sc.Scan(&v.Name, &v.Value)
			return v, err
		}, b.query)
		if err != nil {
			return nil, err
		}
		out[b.key] = vs
	}
	return out, nil
}

// dataModules are the tables whose yearly row count the data-trust panel
// checks.
var dataModules = []struct {
	name, table string
}{
	{"Production", "uretim_talep"},
	{"Welding", "kaynak_kalitesi"},
	{"Ergonomics", "ergonomi"},
	{"Logistics", "intralojistik"},
}

// ModuleRowCounts counts each data module's records in year.
func (s *Store) ModuleRowCounts(ctx context.Context, year int) ([]models.ModuleCount, error) {
	out := make([]models.ModuleCount, 0, len(dataModules))
	for _, m := range dataModules {
		q := `SELECT CAST(COUNT(*) AS BIGINT) FROM ` + m.table + ` x
		      JOIN tarih t ON x.tarih_id = t.tarih_id WHERE t.yil = ?`
		n, err := scalar[int](ctx, s, "module rows "+m.table, q, year)
		if err != nil {
			return nil, err
		}
		out = append(out, models.ModuleCount{Module: m.name, Rows: n})
	}
	return out, nil
}
