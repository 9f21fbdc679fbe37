package domain

// RouteStopResult is one stop of a priced route. Its totals come from the
// shared route cost rather than independent pricing.
type RouteStopResult struct {
	ID      string `json:"id"`
	Address string `json:"address,omitempty"`
	AggregateResult
	// OnSiteHours is the longest service at the stop; services at one stop run in parallel.
	OnSiteHours float64 `json:"on_site_hours"`
	// Share is the stop's fraction of the route's total on-site hours.
	Share float64 `json:"share"`
}

// TravelLeg is the travel between two consecutive stops.
type TravelLeg struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Hours float64 `json:"hours"`
}

// RouteQuote is the priced circuit. Stops keep the visiting order of the input.
//
// When TotalOnSiteHours is positive the stops' per-event prices sum to
// TotalRouteCost. When it is zero every stop prices at zero.
type RouteQuote struct {
	Stops            []RouteStopResult `json:"stops"`
	Fleet            Equipment         `json:"fleet"`
	FleetHourlyRate  float64           `json:"fleet_hourly_rate"`
	Legs             []TravelLeg       `json:"legs"`
	TotalOnSiteHours float64           `json:"total_on_site_hours"`
	TotalTravelHours float64           `json:"total_travel_hours"`
	TotalRouteCost   float64           `json:"total_route_cost"`
}
