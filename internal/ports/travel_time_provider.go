package ports

import (
	"context"

	"snow-route-pricing/internal/domain"
)

// TravelTimeProvider is what the pricing engine consumes. Implementations never
// fail: a missing address or an unavailable backend resolves to a fallback value.
type TravelTimeProvider interface {
	// Return driving hours between two addresses.
	TravelTime(ctx context.Context, origin string, destination string) float64
	// Return hours for one load point -> disposal site -> load point cycle.
	RoundTripToDisposal(ctx context.Context, req domain.ServiceRequest) float64
}

// Optional extension of TravelTimeProvider that resolves many legs at once.
type BatchTravelTimeProvider interface {
	TravelTimeProvider
	// Return hours per leg, index-aligned with legs.
	TravelTimes(ctx context.Context, legs []Leg) []float64
}
