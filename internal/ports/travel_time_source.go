package ports

import (
	"context"
	"time"
)

// Leg is an ordered origin -> destination pair of addresses.
type Leg struct {
	Origin      string
	Destination string
}

// Contract for a mapping backend. Unlike TravelTimeProvider it reports failures.
type TravelTimeSource interface {
	// Return estimated driving duration between two locations.
	TravelTime(ctx context.Context, origin string, destination string) (time.Duration, error)
}

// Optional extension of TravelTimeSource that supports batched lookups.
type TravelTimeMatrixSource interface {
	TravelTimeSource
	// Return durations for many legs. Missing legs are absent from the map.
	TravelTimes(ctx context.Context, legs []Leg) (map[Leg]time.Duration, error)
}
