package ports

import (
	"context"
	"time"

	"snow-route-pricing/internal/domain"
)

// TravelTimeCache stores backend durations keyed by leg.
// Keys are expected to be normalized by the caller.
type TravelTimeCache interface {
	GetMany(ctx context.Context, legs []Leg) (map[Leg]time.Duration, error)
	PutMany(ctx context.Context, results map[Leg]time.Duration) error
}

// GeocodeCache maps address strings to coordinates.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
