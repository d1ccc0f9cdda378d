// Package models holds the row shapes exchanged between the aggregation
// store and the calculators. Rows are plain values: the store fills them from
// already-aggregated SQL results and the calculators only read them.
package models

// Transport types recorded in the intralogistics table.
const (
	TransportForklift = "FORKLIFT"
	TransportAGV      = "AGV"
)

// Powertrain types recorded on vehicle models.
const (
	PowertrainICE = "ICE"
	PowertrainEV  = "EV"
)

// WarrantyIn marks a service record raised while the part was under warranty.
// Every other status value counts as out of warranty.
const WarrantyIn = "GARANTI_ICI"

// PeriodAggregate is a single aggregated value for a calendar period.
// Quarter and Month are 0 when the aggregate spans the whole year.
type PeriodAggregate struct {
	Year    int     `json:"yil"`
	Quarter int     `json:"ceyrek,omitempty"`
	Month   int     `json:"ay,omitempty"`
	Value   float64 `json:"deger"`
}

// Period identifies the most recent reporting period known to the schema.
type Period struct {
	Year    int `json:"yil"`
	Quarter int `json:"ceyrek"`
	Month   int `json:"ay"`
}

// RobotMetricRow is a per-robot, per-year aggregate of welding quality.
type RobotMetricRow struct {
	RobotID         int64   `json:"robot_id"`
	RobotCode       string  `json:"robot_kodu"`
	Year            int     `json:"yil"`
	AvgScrapRate    float64 `json:"ort_scrap_orani"`
	ScrapCount      int64   `json:"toplam_scrap"`
	ScrapCost       float64 `json:"toplam_maliyet"`
	MaintenanceCost float64 `json:"bakim_maliyeti"`
	FaultCount      int64   `json:"ariza_sayisi"`
}

// RobotMaintenanceRow carries what the maintenance-vs-investment comparison
// needs for one welding robot. InvestmentCost is nil when no quoted figure
// exists for the robot.
type RobotMaintenanceRow struct {
	RobotID            int64    `json:"robot_id"`
	RobotCode          string   `json:"robot_kodu"`
	MaintenanceCost    float64  `json:"bakim_maliyeti"`
	AvgMaintenanceCost float64  `json:"ort_bakim_maliyeti"`
	FaultCount         int64    `json:"ariza_sayisi"`
	MaintenanceEvents  int64    `json:"bakim_sayisi"`
	InvestmentCost     *float64 `json:"yatirim_maliyeti,omitempty"`
	AnnualScrapCount   int64    `json:"yillik_scrap_adet"`
	AnnualScrapCost    float64  `json:"yillik_scrap_maliyeti"`
}

// WeldQualityRow is the yearly welding quality trend per robot.
type WeldQualityRow struct {
	Year           int     `json:"yil"`
	RobotCode      string  `json:"robot_kodu"`
	AvgDeviation   float64 `json:"ort_sapma"`
	AvgScrapRate   float64 `json:"ort_scrap"`
	AvgMeasurement float64 `json:"ort_olcum"`
}

// SupplierInfo is a row of the supplier master table.
type SupplierInfo struct {
	SupplierID   int64  `json:"tedarikci_id"`
	SupplierCode string `json:"tedarikci_kodu"`
	SupplierName string `json:"tedarikci_adi"`
	Country      string `json:"ulke"`
}

// SupplierMetricRow is a per-supplier, per-year quality aggregate.
// Delay (AvgDeliveryDays - PlannedDeliveryDays) may be negative.
type SupplierMetricRow struct {
	SupplierID          int64   `json:"tedarikci_id"`
	SupplierCode        string  `json:"tedarikci_kodu"`
	SupplierName        string  `json:"tedarikci_adi"`
	Year                int     `json:"yil"`
	AvgQualityScore     float64 `json:"ort_kalite"`
	AvgPPMRate          float64 `json:"ort_ppm"`
	AvgDeliveryDays     float64 `json:"ort_teslimat"`
	PlannedDeliveryDays float64 `json:"planlanan_teslimat"`
}

// ServiceRecordRow sums service records for one year and warranty status.
type ServiceRecordRow struct {
	Year           int     `json:"yil"`
	WarrantyStatus string  `json:"garanti_durumu"`
	FaultCount     int64   `json:"toplam_ariza"`
	ServiceCost    float64 `json:"toplam_maliyet"`
}

// LogisticsMetricRow aggregates intralogistics records for one transport type.
// Nullable fields are nil when SQL returned NULL for the aggregate.
type LogisticsMetricRow struct {
	TransportType    string   `json:"tasima_tipi"`
	Year             int      `json:"yil,omitempty"`
	IncidentCount    *int64   `json:"toplam_kaza"`
	AvgWaitMinutes   *float64 `json:"ort_bekleme"`
	Cost             *float64 `json:"toplam_maliyet"`
	TransactionCount int64    `json:"islem_sayisi"`
}

// ProductionRow aggregates production for one year and powertrain.
type ProductionRow struct {
	Year                   int     `json:"yil"`
	Powertrain             string  `json:"guc_tipi"`
	Demand                 float64 `json:"toplam_talep"`
	Produced               float64 `json:"toplam_uretim"`
	AvgCapacityUtilization float64 `json:"ort_kapasite"`
}

// LineCapacityRow is the yearly demand and output of a production line
// against its nominal capacity.
type LineCapacityRow struct {
	LineCode string  `json:"hat_kodu"`
	LineName string  `json:"hat_adi"`
	Capacity float64 `json:"max_kapasite"`
	Demand   float64 `json:"talep"`
	Produced float64 `json:"uretim"`
}

// QuarterSnapshot holds the operational health figures of one quarter.
type QuarterSnapshot struct {
	Year         int     `json:"yil"`
	Quarter      int     `json:"ceyrek"`
	Production   float64 `json:"uretim"`
	ScrapRate    float64 `json:"scrap"`
	Incidents    float64 `json:"kaza"`
	DeliveryDays float64 `json:"teslimat"`
}

// LossInputs are the raw quantities the loss-economics figure is priced from.
type LossInputs struct {
	ScrapRateSum       float64 `json:"scrap_orani_toplam"`
	ErgonomicIncidents float64 `json:"ergonomi_kaza"`
	WaitMinutes        float64 `json:"bekleme_dakika"`
	DeliveryDays       float64 `json:"teslimat_gun"`
}

// RiskRow is a generic ranking input: a named entity with two risk drivers.
type RiskRow struct {
	Name      string  `json:"ad"`
	Kind      string  `json:"tip,omitempty"`
	Primary   float64 `json:"birincil"`
	Secondary float64 `json:"ikincil"`
}

// TopModel is the best-selling vehicle model of a year.
type TopModel struct {
	ModelName string  `json:"model"`
	Units     float64 `json:"adet"`
}

// MaintenanceEvent is a single maintenance visit on a robot.
type MaintenanceEvent struct {
	RobotCode string  `json:"robot_kodu"`
	Year      int     `json:"yil"`
	Cost      float64 `json:"maliyet"`
}

// LossSourceTotals are the yearly loss drivers per origin.
type LossSourceTotals struct {
	Human    float64 `json:"insan"`
	Robot    float64 `json:"robot"`
	System   float64 `json:"sistem"`
	Supplier float64 `json:"tedarikci"`
}

// NamedValue is one slice of a breakdown.
type NamedValue struct {
	Name  string  `json:"ad"`
	Value float64 `json:"deger"`
}

// ModuleCount is the number of rows a module recorded in a year.
type ModuleCount struct {
	Module string `json:"modul"`
	Rows   int    `json:"kayit"`
}
