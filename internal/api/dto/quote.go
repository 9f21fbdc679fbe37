package dto

import "snow-route-pricing/internal/domain"

type ClearingRequest struct {
	LoaderAreaSqFt    float64 `json:"loader_area_sqft"`
	SkidSteerAreaSqFt float64 `json:"skid_steer_area_sqft"`
	ShovelAreaSqFt    float64 `json:"shovel_area_sqft"`
}

type HaulingRequest struct {
	Enabled           bool    `json:"enabled"`
	Loaders           int     `json:"loaders"`
	Trucks            int     `json:"trucks"`
	LoadTimeMinutes   float64 `json:"load_time_minutes"`
	UnloadTimeMinutes float64 `json:"unload_time_minutes"`
	RoundTripHours    float64 `json:"round_trip_hours"`
}

type SaltingRequest struct {
	Enabled bool `json:"enabled"`
}

// LocationRequest describes one serviced property.
type LocationRequest struct {
	ID                     string          `json:"id"`
	Address                string          `json:"address"`
	Clearing               ClearingRequest `json:"clearing"`
	Hauling                HaulingRequest  `json:"hauling"`
	Salting                SaltingRequest  `json:"salting"`
	TargetHours            float64         `json:"target_hours"`
	ClearingTrigger        string          `json:"clearing_trigger"`
	HaulingInterval        int             `json:"hauling_interval"`
	ContractDurationMonths int             `json:"contract_duration_months"`
	IncludedEventsPerMonth int             `json:"included_events_per_month"`
}

func (r LocationRequest) ToDomain() domain.ServiceRequest {
	return domain.ServiceRequest{
		ID:      r.ID,
		Address: r.Address,
		Clearing: domain.Clearing{
			LoaderArea:    r.Clearing.LoaderAreaSqFt,
			SkidSteerArea: r.Clearing.SkidSteerAreaSqFt,
			ShovelArea:    r.Clearing.ShovelAreaSqFt,
		},
		Hauling: domain.Hauling{
			Enabled: r.Hauling.Enabled,
			Crew: domain.HaulingCrew{
				Loaders:           r.Hauling.Loaders,
				Trucks:            r.Hauling.Trucks,
				LoadTimeMinutes:   r.Hauling.LoadTimeMinutes,
				UnloadTimeMinutes: r.Hauling.UnloadTimeMinutes,
			},
			RoundTripHours: r.Hauling.RoundTripHours,
		},
		Salting:                domain.Salting{Enabled: r.Salting.Enabled},
		TargetHours:            r.TargetHours,
		ClearingTrigger:        domain.ClearingTrigger(r.ClearingTrigger),
		HaulingInterval:        r.HaulingInterval,
		ContractDurationMonths: r.ContractDurationMonths,
		IncludedEventsPerMonth: r.IncludedEventsPerMonth,
	}
}

// RouteRequest lists stops in visiting order.
type RouteRequest struct {
	Stops []LocationRequest `json:"stops"`
}

type LocationResponse struct {
	ID      string `json:"id,omitempty"`
	Address string `json:"address,omitempty"`
	domain.AggregateResult
	RoundTripHours float64 `json:"round_trip_hours,omitempty"`
	Shovelers      int     `json:"shovelers"`
}
