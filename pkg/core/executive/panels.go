package executive

import (
	"fmt"
	"sort"
	"time"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/calc"
	"manufacturing_kds/pkg/models"
)

// =============================================================================
// LOSS ECONOMICS
// =============================================================================

// LossEconomicsResult prices the losses of each quarter of a year.
type LossEconomicsResult struct {
	Year            int       `json:"yil"`
	Quarters        []string  `json:"ceyrekler"`
	Scrap           []float64 `json:"scrap"`
	Incidents       []float64 `json:"kaza"`
	Wait            []float64 `json:"bekleme"`
	Supply          []float64 `json:"tedarik"`
	Total           float64   `json:"toplamKayip"`
	ProductionShare float64   `json:"uretimiOrani"`
}

// LossEconomics prices each quarter's scrap, incident, wait and supply
// losses and relates the yearly total to the value of what was produced.
// The share is 0 when nothing was produced.
func LossEconomics(year int, quarters [4]models.LossInputs, producedUnits float64, costs assumption.ExecutiveCosts) LossEconomicsResult {
	r := LossEconomicsResult{
		Year:      year,
		Quarters:  make([]string, 0, 4),
		Scrap:     make([]float64, 0, 4),
		Incidents: make([]float64, 0, 4),
		Wait:      make([]float64, 0, 4),
		Supply:    make([]float64, 0, 4),
	}
	for i, q := range quarters {
		scrap := calc.RoundInt(q.ScrapRateSum * costs.ScrapRate)
		incidents := calc.RoundInt(q.ErgonomicIncidents * costs.Incident)
		wait := calc.RoundInt(q.WaitMinutes * costs.WaitMinute)
		supply := calc.RoundInt(q.DeliveryDays * costs.DeliveryDay)

		r.Quarters = append(r.Quarters, fmt.Sprintf("Q%d", i+1))
		r.Scrap = append(r.Scrap, scrap)
		r.Incidents = append(r.Incidents, incidents)
		r.Wait = append(r.Wait, wait)
		r.Supply = append(r.Supply, supply)
		r.Total += scrap + incidents + wait + supply
	}
	r.ProductionShare = calc.Round1(calc.SafeDiv(r.Total, producedUnits*costs.VehicleValue) * 100)
	return r
}

// =============================================================================
// HEALTH MAP
// =============================================================================

// HealthMapResult is the quarterly operations heat map.
type HealthMapResult struct {
	Labels     []string  `json:"ceyrekler"`
	Production []float64 `json:"uretim"`
	Scrap      []float64 `json:"scrap"`
	Incidents  []float64 `json:"kaza"`
	Delivery   []float64 `json:"teslimat"`
}

// HealthMap lays the quarter snapshots out as aligned series labelled
// "YYYY-Qn", oldest first.
func HealthMap(points []models.QuarterSnapshot) HealthMapResult {
	sorted := make([]models.QuarterSnapshot, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Quarter < sorted[j].Quarter
	})

	n := len(sorted)
	r := HealthMapResult{
		Labels:     make([]string, 0, n),
		Production: make([]float64, 0, n),
		Scrap:      make([]float64, 0, n),
		Incidents:  make([]float64, 0, n),
		Delivery:   make([]float64, 0, n),
	}
	for _, p := range sorted {
		r.Labels = append(r.Labels, fmt.Sprintf("%d-Q%d", p.Year, p.Quarter))
		r.Production = append(r.Production, calc.RoundInt(p.Production))
		r.Scrap = append(r.Scrap, calc.Round2(p.ScrapRate))
		r.Incidents = append(r.Incidents, calc.RoundInt(p.Incidents))
		r.Delivery = append(r.Delivery, calc.Round1(p.DeliveryDays))
	}
	return r
}

// =============================================================================
// CRITICAL POINTS
// =============================================================================

// RobotRisk is a ranked robot.
type RobotRisk struct {
	Name   string  `json:"ad"`
	Kind   string  `json:"tip"`
	Faults float64 `json:"ariza"`
	Scrap  float64 `json:"scrap"`
}

// StationRisk is a ranked work station.
type StationRisk struct {
	Name      string  `json:"ad"`
	Incidents float64 `json:"kaza"`
	Risk      float64 `json:"risk"`
}

// SupplierRisk is a ranked supplier.
type SupplierRisk struct {
	Name  string  `json:"ad"`
	PPM   float64 `json:"hata"`
	Delay float64 `json:"gecikme"`
}

// CriticalPointsResult lists the riskiest entities per area.
type CriticalPointsResult struct {
	Robots    []RobotRisk    `json:"robotlar"`
	Stations  []StationRisk  `json:"istasyonlar"`
	Suppliers []SupplierRisk `json:"tedarikciler"`
}

// CriticalInput holds the ranking inputs. Robots carry faults and average
// scrap rate, stations incidents and average risk score, suppliers average
// PPM and average delivery days, as Primary and Secondary respectively.
type CriticalInput struct {
	Robots    []models.RiskRow
	Stations  []models.RiskRow
	Suppliers []models.RiskRow
}

func topBy(rows []models.RiskRow, score func(models.RiskRow) float64, limit int) []models.RiskRow {
	sorted := make([]models.RiskRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := score(sorted[i]), score(sorted[j])
		if si != sj {
			return si > sj
		}
		return sorted[i].Name < sorted[j].Name
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// CriticalPoints ranks each area and keeps the top entries. Robots score
// faults*10 + scrap*100, stations their incident count and suppliers
// PPM + delivery days.
func CriticalPoints(in CriticalInput, alerts assumption.ExecutiveAlerts) CriticalPointsResult {
	limit := alerts.CriticalLimit
	r := CriticalPointsResult{
		Robots:    []RobotRisk{},
		Stations:  []StationRisk{},
		Suppliers: []SupplierRisk{},
	}
	for _, x := range topBy(in.Robots, func(x models.RiskRow) float64 { return x.Primary*10 + x.Secondary*100 }, limit) {
		r.Robots = append(r.Robots, RobotRisk{Name: x.Name, Kind: x.Kind, Faults: x.Primary, Scrap: calc.Round2(x.Secondary)})
	}
	for _, x := range topBy(in.Stations, func(x models.RiskRow) float64 { return x.Primary }, limit) {
		r.Stations = append(r.Stations, StationRisk{Name: x.Name, Incidents: x.Primary, Risk: calc.Round1(x.Secondary)})
	}
	for _, x := range topBy(in.Suppliers, func(x models.RiskRow) float64 { return x.Primary + x.Secondary }, limit) {
		r.Suppliers = append(r.Suppliers, SupplierRisk{Name: x.Name, PPM: calc.Round1(x.Primary), Delay: calc.Round1(x.Secondary)})
	}
	return r
}

// =============================================================================
// LOSS SOURCES
// =============================================================================

// LossSourceTotals are the yearly loss drivers per origin.
type LossSourceTotals = models.LossSourceTotals

// NamedValue is one slice of a breakdown.
type NamedValue = models.NamedValue

// LossSourcesResult is the loss-origin breakdown.
type LossSourcesResult struct {
	Totals  LossSourceTotals        `json:"ana"`
	Details map[string][]NamedValue `json:"detay"`
}

// LossSources rounds the totals and orders every breakdown largest first.
func LossSources(totals LossSourceTotals, details map[string][]NamedValue) LossSourcesResult {
	r := LossSourcesResult{
		Totals: LossSourceTotals{
			Human:    calc.RoundInt(totals.Human),
			Robot:    calc.RoundInt(totals.Robot),
			System:   calc.RoundInt(totals.System),
			Supplier: calc.RoundInt(totals.Supplier),
		},
		Details: make(map[string][]NamedValue, len(details)),
	}
	for k, vs := range details {
		sorted := make([]NamedValue, len(vs))
		copy(sorted, vs)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
		r.Details[k] = sorted
	}
	return r
}

// =============================================================================
// DATA TRUST
// =============================================================================

// ModuleCount is the number of rows a module recorded in a year.
type ModuleCount = models.ModuleCount

// DataTrustResult reports how complete the latest year is.
type DataTrustResult struct {
	LastEntry  string        `json:"sonGiris"`
	Modules    []ModuleCount `json:"moduller"`
	Incomplete []string      `json:"eksikModuller"`
}

// DataTrust labels the latest period ("September 2025") and flags every
// module with fewer rows than the configured minimum.
func DataTrust(latest models.Period, counts []ModuleCount, alerts assumption.ExecutiveAlerts) DataTrustResult {
	r := DataTrustResult{Modules: counts, Incomplete: []string{}}
	if r.Modules == nil {
		r.Modules = []ModuleCount{}
	}
	switch {
	case latest.Year == 0:
	case latest.Month >= 1 && latest.Month <= 12:
		r.LastEntry = fmt.Sprintf("%s %d", time.Month(latest.Month), latest.Year)
	default:
		r.LastEntry = fmt.Sprint(latest.Year)
	}
	for _, c := range counts {
		if c.Rows < alerts.MinModuleRows {
			r.Incomplete = append(r.Incomplete, c.Module)
		}
	}
	return r
}
