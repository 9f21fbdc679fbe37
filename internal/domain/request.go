package domain

// ClearingTrigger is the snow depth at which a clearing event is dispatched.
// Shallower triggers mean more events per season.
type ClearingTrigger string

const (
	Trigger5cm ClearingTrigger = "5cm"
	Trigger3cm ClearingTrigger = "3cm"
	Trigger2cm ClearingTrigger = "2cm"
)

// Valid reports whether t is one of the known triggers.
func (t ClearingTrigger) Valid() bool {
	switch t {
	case Trigger5cm, Trigger3cm, Trigger2cm:
		return true
	}
	return false
}

// Clearing holds the area (sq ft) assigned to each equipment category.
// A category is enabled when its area is positive.
type Clearing struct {
	LoaderArea    float64
	SkidSteerArea float64
	ShovelArea    float64
}

func (c Clearing) Enabled() bool {
	return c.LoaderArea > 0 || c.SkidSteerArea > 0 || c.ShovelArea > 0
}

// TotalArea sums the non-negative areas of all categories.
func (c Clearing) TotalArea() float64 {
	total := 0.0
	for _, a := range []float64{c.LoaderArea, c.SkidSteerArea, c.ShovelArea} {
		if a > 0 {
			total += a
		}
	}
	return total
}

// HaulingCrew is the operator's minimum hauling crew and its timings.
type HaulingCrew struct {
	Loaders           int
	Trucks            int
	LoadTimeMinutes   float64
	UnloadTimeMinutes float64
}

type Hauling struct {
	Enabled bool
	Crew    HaulingCrew
	// RoundTripHours is the load point -> disposal site -> load point duration.
	// Zero means unknown; callers resolve it through a TravelTimeProvider.
	RoundTripHours float64
}

type Salting struct {
	Enabled bool
}

// ServiceRequest describes one serviced property. Values are treated as
// immutable by the pricing engine.
type ServiceRequest struct {
	ID      string
	Address string

	Clearing Clearing
	Hauling  Hauling
	Salting  Salting

	// TargetHours caps on-site duration. Zero means use the natural duration.
	TargetHours     float64
	ClearingTrigger ClearingTrigger
	// HaulingInterval overrides hauling events per season when positive.
	HaulingInterval        int
	ContractDurationMonths int
	// IncludedEventsPerMonth switches monthly pricing to per-event x included events.
	IncludedEventsPerMonth int
}
