package services

import (
	"context"

	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/ports"
)

// ResolveRoundTrip fills an unknown hauling round trip from the provider.
// The request is returned unchanged when hauling is off, the round trip is
// already known, or there is no provider.
func ResolveRoundTrip(ctx context.Context, req domain.ServiceRequest, provider ports.TravelTimeProvider) domain.ServiceRequest {
	if !req.Hauling.Enabled || req.Hauling.RoundTripHours > 0 || provider == nil {
		return req
	}

	req.Hauling.RoundTripHours = nonNegative(provider.RoundTripToDisposal(ctx, req))
	return req
}
