package domain

// Equipment counts units per category. ShovelCrews are crews, not people.
type Equipment struct {
	Loaders       int `json:"loaders"`
	SkidSteers    int `json:"skid_steers"`
	ShovelCrews   int `json:"shovel_crews"`
	Trucks        int `json:"trucks"`
	SaltingTrucks int `json:"salting_trucks"`
}

// Shovelers returns the head count of the shovel crews.
func (e Equipment) Shovelers(crewSize int) int {
	return e.ShovelCrews * crewSize
}

// HourlyRate prices one hour of this fleet on the given card.
func (e Equipment) HourlyRate(r EquipmentRates) float64 {
	return float64(e.Loaders)*r.Loader +
		float64(e.SkidSteers)*r.SkidSteer +
		float64(e.ShovelCrews)*r.ShovelCrew +
		float64(e.Trucks)*r.DumpTruck +
		float64(e.SaltingTrucks)*r.SaltingTruck
}

// Logistics is only populated by the hauling calculator.
type Logistics struct {
	SnowVolumePerEventM3 float64 `json:"snow_volume_per_event_m3"`
	TruckLoads           int     `json:"truck_loads"`
	TruckCapacityM3      float64 `json:"truck_capacity_m3"`
	RoundTripHours       float64 `json:"round_trip_hours"`
	ArrivalIntervalHours float64 `json:"arrival_interval_hours"`
}

// ServiceCostResult is the output of one sub-calculator for one property.
type ServiceCostResult struct {
	Cost        float64   `json:"cost"`
	OnSiteHours float64   `json:"on_site_hours"`
	Equipment   Equipment `json:"equipment"`
	Logistics   Logistics `json:"logistics"`
}

type Totals struct {
	PerEventPrice float64 `json:"per_event_price"`
	MonthlyPrice  float64 `json:"monthly_price"`
	SeasonalPrice float64 `json:"seasonal_price"`
}

// AggregateResult prices one property across all of its services.
type AggregateResult struct {
	Clearing ServiceCostResult `json:"clearing"`
	Hauling  ServiceCostResult `json:"hauling"`
	Salting  ServiceCostResult `json:"salting"`
	Totals   Totals            `json:"totals"`
}
