package domain

import (
	"errors"
	"fmt"
)

// EquipmentRates are hourly rates per equipment unit.
type EquipmentRates struct {
	Loader       float64 `json:"loader"`
	SkidSteer    float64 `json:"skid_steer"`
	ShovelCrew   float64 `json:"shovel_crew"`
	DumpTruck    float64 `json:"dump_truck"`
	SaltingTruck float64 `json:"salting_truck"`
}

// ThroughputRates are clearing rates in sq ft per hour for one unit.
type ThroughputRates struct {
	Loader     float64 `json:"loader"`
	SkidSteer  float64 `json:"skid_steer"`
	ShovelCrew float64 `json:"shovel_crew"`
}

type SeasonalConstants struct {
	EventsPerTrigger       map[ClearingTrigger]int `json:"events_per_trigger"`
	DefaultEventsPerSeason int                     `json:"default_events_per_season"`

	TruckCapacityM3     float64 `json:"truck_capacity_m3"`
	MinimumBillableCost float64 `json:"minimum_billable_cost"`
	MinimumWorkHours    float64 `json:"minimum_work_hours"`
	// AverageSeasonalSnowM is the seasonal snowfall depth in metres.
	AverageSeasonalSnowM float64 `json:"average_seasonal_snow_m"`
	SquareFeetToMeters   float64 `json:"square_feet_to_meters"`

	MinLoadIntervalMinutes float64 `json:"min_load_interval_minutes"`
	MaxLoadIntervalMinutes float64 `json:"max_load_interval_minutes"`
	DefaultLoadTimeMinutes float64 `json:"default_load_time_minutes"`

	SaltingHours           float64 `json:"salting_hours"`
	MobilizationHours      float64 `json:"mobilization_hours"`
	FinalReturnTravelHours float64 `json:"final_return_travel_hours"`
	FallbackTravelHours    float64 `json:"fallback_travel_hours"`
	DefaultContractMonths  int     `json:"default_contract_months"`
	ShovelCrewSize         int     `json:"shovel_crew_size"`
}

// RateCard is the read-only pricing input shared by every request in one computation.
type RateCard struct {
	Equipment  EquipmentRates    `json:"equipment"`
	Throughput ThroughputRates   `json:"throughput"`
	Season     SeasonalConstants `json:"season"`
}

// DefaultRateCard returns the stock card. Each call returns a fresh copy.
func DefaultRateCard() RateCard {
	const loaderRate = 160
	return RateCard{
		Equipment: EquipmentRates{
			Loader:       loaderRate,
			SkidSteer:    110,
			ShovelCrew:   130,
			DumpTruck:    125,
			SaltingTruck: 130,
		},
		Throughput: ThroughputRates{
			Loader:     45000,
			SkidSteer:  12000,
			ShovelCrew: 2000,
		},
		Season: SeasonalConstants{
			EventsPerTrigger: map[ClearingTrigger]int{
				Trigger5cm: 16,
				Trigger3cm: 23,
				Trigger2cm: 30,
			},
			DefaultEventsPerSeason: 16,
			TruckCapacityM3:        17.2,
			MinimumBillableCost:    4 * loaderRate,
			MinimumWorkHours:       3,
			AverageSeasonalSnowM:   1.15,
			SquareFeetToMeters:     0.092903,
			MinLoadIntervalMinutes: 7.5,
			MaxLoadIntervalMinutes: 10,
			DefaultLoadTimeMinutes: 10,
			SaltingHours:           1.5,
			MobilizationHours:      1,
			FinalReturnTravelHours: 1,
			FallbackTravelHours:    0.25,
			DefaultContractMonths:  5,
			ShovelCrewSize:         2,
		},
	}
}

// EventsPerSeason returns the clearing/salting event count for a trigger,
// falling back to the card default for unknown triggers.
func (rc RateCard) EventsPerSeason(t ClearingTrigger) int {
	if n, ok := rc.Season.EventsPerTrigger[t]; ok && n > 0 {
		return n
	}
	return rc.Season.DefaultEventsPerSeason
}

// HaulingEventsPerSeason returns the explicit interval, or the trigger count
// when hauling is enabled without one.
func (rc RateCard) HaulingEventsPerSeason(req ServiceRequest) int {
	if req.HaulingInterval > 0 {
		return req.HaulingInterval
	}
	if req.Hauling.Enabled {
		return rc.EventsPerSeason(req.ClearingTrigger)
	}
	return 0
}

// ContractMonths returns the request's contract duration or the card default.
func (rc RateCard) ContractMonths(req ServiceRequest) int {
	if req.ContractDurationMonths > 0 {
		return req.ContractDurationMonths
	}
	return rc.Season.DefaultContractMonths
}

// Validate checks the card for values the engine cannot price with.
func (rc RateCard) Validate() error {
	var errs []error

	rates := map[string]float64{
		"equipment.loader":        rc.Equipment.Loader,
		"equipment.skid_steer":    rc.Equipment.SkidSteer,
		"equipment.shovel_crew":   rc.Equipment.ShovelCrew,
		"equipment.dump_truck":    rc.Equipment.DumpTruck,
		"equipment.salting_truck": rc.Equipment.SaltingTruck,
		"throughput.loader":       rc.Throughput.Loader,
		"throughput.skid_steer":   rc.Throughput.SkidSteer,
		"throughput.shovel_crew":  rc.Throughput.ShovelCrew,
	}
	for name, v := range rates {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative (got %v)", name, v))
		}
	}

	s := rc.Season
	if s.TruckCapacityM3 <= 0 {
		errs = append(errs, fmt.Errorf("season.truck_capacity_m3 must be positive (got %v)", s.TruckCapacityM3))
	}
	if s.MinimumBillableCost < 0 || s.MinimumWorkHours < 0 {
		errs = append(errs, errors.New("season minimum cost and hours must not be negative"))
	}
	if s.MinLoadIntervalMinutes <= 0 || s.MaxLoadIntervalMinutes < s.MinLoadIntervalMinutes {
		errs = append(errs, fmt.Errorf(
			"season load interval band is invalid: min=%v max=%v",
			s.MinLoadIntervalMinutes, s.MaxLoadIntervalMinutes,
		))
	}
	if s.DefaultEventsPerSeason <= 0 {
		errs = append(errs, errors.New("season.default_events_per_season must be positive"))
	}
	for t, n := range s.EventsPerTrigger {
		if !t.Valid() {
			errs = append(errs, fmt.Errorf("season.events_per_trigger: unknown trigger %q", t))
		}
		if n < 0 {
			errs = append(errs, fmt.Errorf("season.events_per_trigger[%s] must not be negative", t))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validate rate card: %w", errors.Join(errs...))
	}
	return nil
}
