package assumption

// =============================================================================
// ASSUMPTION SET
// =============================================================================
// Every currency constant, rate table and threshold the calculators rely on
// lives here. Defaults() carries the production values; a YAML or HJSON file
// can override any subset of them.

// Set is the full assumption table injected into the calculators.
type Set struct {
	Logistics  LogisticsCosts   `yaml:"logistics" json:"logistics"`
	Welding    WeldingPolicy    `yaml:"welding" json:"welding"`
	Production ProductionPolicy `yaml:"production" json:"production"`
	Executive  ExecutivePolicy  `yaml:"executive" json:"executive"`
}

// LogisticsCosts prices the forklift and AGV fleets. Currency values are
// annual amounts unless the name says otherwise.
type LogisticsCosts struct {
	ForkliftLabor     float64 `yaml:"forklift_labor" json:"forklift_labor"`
	AGVOversight      float64 `yaml:"agv_oversight" json:"agv_oversight"`
	ForkliftEnergy    float64 `yaml:"forklift_energy" json:"forklift_energy"`
	AGVEnergy         float64 `yaml:"agv_energy" json:"agv_energy"`
	IncidentCost      float64 `yaml:"incident_cost" json:"incident_cost"`
	WaitMinuteCost    float64 `yaml:"wait_minute_cost" json:"wait_minute_cost"`
	AGVCapital        float64 `yaml:"agv_capital" json:"agv_capital"`
	CapacityRatio     float64 `yaml:"capacity_ratio" json:"capacity_ratio"`
	BaselineForklifts float64 `yaml:"baseline_forklifts" json:"baseline_forklifts"`
	BaselineAGVs      float64 `yaml:"baseline_agvs" json:"baseline_agvs"`
	WorkingDays       float64 `yaml:"working_days" json:"working_days"`
	TransactionVolume float64 `yaml:"transaction_volume" json:"transaction_volume"`
	AGVEfficiency     float64 `yaml:"agv_efficiency" json:"agv_efficiency"`

	// Shares of the forklift figures used when no AGV rows exist.
	AGVIncidentShare float64 `yaml:"agv_incident_share" json:"agv_incident_share"`
	AGVWaitShare     float64 `yaml:"agv_wait_share" json:"agv_wait_share"`

	Fallback LogisticsFallback `yaml:"fallback" json:"fallback"`
}

// LogisticsFallback holds sample figures used only when the store has no
// measurement at all. Outputs built from them are tagged as defaults.
type LogisticsFallback struct {
	ForkliftIncidents    float64 `yaml:"forklift_incidents" json:"forklift_incidents"`
	ForkliftWaitMinutes  float64 `yaml:"forklift_wait_minutes" json:"forklift_wait_minutes"`
	ForkliftTransactions float64 `yaml:"forklift_transactions" json:"forklift_transactions"`
	AGVIncidents         float64 `yaml:"agv_incidents" json:"agv_incidents"`
	AGVWaitMinutes       float64 `yaml:"agv_wait_minutes" json:"agv_wait_minutes"`
}

// WeldingPolicy drives the robot scrap economics.
type WeldingPolicy struct {
	SavingsRates         []float64        `yaml:"savings_rates" json:"savings_rates"`
	InvestmentMultiplier float64          `yaml:"investment_multiplier" json:"investment_multiplier"`
	SavingsHorizonYears  float64          `yaml:"savings_horizon_years" json:"savings_horizon_years"`
	FallbackCostMedian   float64          `yaml:"fallback_cost_median" json:"fallback_cost_median"`
	FallbackDeltaMedian  float64          `yaml:"fallback_delta_median" json:"fallback_delta_median"`
	Improvement          ImprovementRates `yaml:"improvement" json:"improvement"`
}

// ImprovementRates is the per-robot improvement lookup, in percent. Named
// overrides win; otherwise the generic rates apply.
type ImprovementRates struct {
	MaintenanceOverrides map[string]float64 `yaml:"maintenance_overrides" json:"maintenance_overrides"`
	InvestmentOverrides  map[string]float64 `yaml:"investment_overrides" json:"investment_overrides"`
	MaintenanceFrequent  float64            `yaml:"maintenance_frequent" json:"maintenance_frequent"`
	MaintenanceRare      float64            `yaml:"maintenance_rare" json:"maintenance_rare"`
	FrequentEvents       int64              `yaml:"frequent_events" json:"frequent_events"`
	InvestmentDefault    float64            `yaml:"investment_default" json:"investment_default"`
}

// Maintenance returns the maintenance improvement rate for a robot.
func (r ImprovementRates) Maintenance(robotCode string, events int64) float64 {
	if rate, ok := r.MaintenanceOverrides[robotCode]; ok {
		return rate
	}
	if events >= r.FrequentEvents {
		return r.MaintenanceFrequent
	}
	return r.MaintenanceRare
}

// Investment returns the investment improvement rate for a robot.
func (r ImprovementRates) Investment(robotCode string) float64 {
	if rate, ok := r.InvestmentOverrides[robotCode]; ok {
		return rate
	}
	return r.InvestmentDefault
}

// ProductionPolicy holds the line utilization bands, in percent.
type ProductionPolicy struct {
	HighUtilization float64 `yaml:"high_utilization" json:"high_utilization"`
	LowUtilization  float64 `yaml:"low_utilization" json:"low_utilization"`
}

// ExecutivePolicy holds the executive dashboard multipliers and targets.
type ExecutivePolicy struct {
	Costs   ExecutiveCosts   `yaml:"costs" json:"costs"`
	Targets ExecutiveTargets `yaml:"targets" json:"targets"`
	Bands   ExecutiveBands   `yaml:"bands" json:"bands"`
	Alerts  ExecutiveAlerts  `yaml:"alerts" json:"alerts"`
}

// ExecutiveCosts are the per-unit multipliers of the composite loss figure.
type ExecutiveCosts struct {
	ScrapRate    float64 `yaml:"scrap_rate" json:"scrap_rate"`
	Incident     float64 `yaml:"incident" json:"incident"`
	WaitMinute   float64 `yaml:"wait_minute" json:"wait_minute"`
	DeliveryDay  float64 `yaml:"delivery_day" json:"delivery_day"`
	VehicleValue float64 `yaml:"vehicle_value" json:"vehicle_value"`
}

// ExecutiveTargets are the yearly goals actuals are scored against.
type ExecutiveTargets struct {
	ScrapRate    float64 `yaml:"scrap_rate" json:"scrap_rate"`
	Incidents    float64 `yaml:"incidents" json:"incidents"`
	Production   float64 `yaml:"production" json:"production"`
	DeliveryDays float64 `yaml:"delivery_days" json:"delivery_days"`
}

// ExecutiveBands are the deviation percentages that raise a warning.
type ExecutiveBands struct {
	ScrapOver       float64 `yaml:"scrap_over" json:"scrap_over"`
	IncidentsOver   float64 `yaml:"incidents_over" json:"incidents_over"`
	ProductionUnder float64 `yaml:"production_under" json:"production_under"`
}

// ExecutiveAlerts are the thresholds of the action signals.
type ExecutiveAlerts struct {
	RobotScrapRate       float64 `yaml:"robot_scrap_rate" json:"robot_scrap_rate"`
	RobotMaintenanceCost float64 `yaml:"robot_maintenance_cost" json:"robot_maintenance_cost"`
	MinModuleRows        int     `yaml:"min_module_rows" json:"min_module_rows"`
	CriticalLimit        int     `yaml:"critical_limit" json:"critical_limit"`
}

// Defaults returns the production assumption set. Each call builds fresh
// maps and slices, so callers may mutate the result.
func Defaults() *Set {
	return &Set{
		Logistics: LogisticsCosts{
			ForkliftLabor:     180000,
			AGVOversight:      30000,
			ForkliftEnergy:    20000,
			AGVEnergy:         8000,
			IncidentCost:      15000,
			WaitMinuteCost:    50,
			AGVCapital:        350000,
			CapacityRatio:     1.5,
			BaselineForklifts: 10,
			BaselineAGVs:      5,
			WorkingDays:       250,
			TransactionVolume: 500,
			AGVEfficiency:     1.2,
			AGVIncidentShare:  0.25,
			AGVWaitShare:      0.40,
			Fallback: LogisticsFallback{
				ForkliftIncidents:    12,
				ForkliftWaitMinutes:  8.5,
				ForkliftTransactions: 500,
				AGVIncidents:         2,
				AGVWaitMinutes:       3.5,
			},
		},
		Welding: WeldingPolicy{
			SavingsRates:         []float64{5, 10, 15},
			InvestmentMultiplier: 5,
			SavingsHorizonYears:  3,
			FallbackCostMedian:   500000,
			FallbackDeltaMedian:  5,
			Improvement: ImprovementRates{
				MaintenanceOverrides: map[string]float64{"K-20": 25, "K-14": 15},
				InvestmentOverrides:  map[string]float64{"K-20": 35},
				MaintenanceFrequent:  10,
				MaintenanceRare:      25,
				FrequentEvents:       2,
				InvestmentDefault:    40,
			},
		},
		Production: ProductionPolicy{
			HighUtilization: 90,
			LowUtilization:  60,
		},
		Executive: ExecutivePolicy{
			Costs: ExecutiveCosts{
				ScrapRate:    15000,
				Incident:     8000,
				WaitMinute:   1000,
				DeliveryDay:  2000,
				VehicleValue: 45000,
			},
			Targets: ExecutiveTargets{
				ScrapRate:    2.0,
				Incidents:    50,
				Production:   150000,
				DeliveryDays: 3.0,
			},
			Bands: ExecutiveBands{
				ScrapOver:       10,
				IncidentsOver:   20,
				ProductionUnder: 10,
			},
			Alerts: ExecutiveAlerts{
				RobotScrapRate:       2.5,
				RobotMaintenanceCost: 20000,
				MinModuleRows:        10,
				CriticalLimit:        5,
			},
		},
	}
}
