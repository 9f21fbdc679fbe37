package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/platform/obs"
	"snow-route-pricing/internal/ports"
)

// maxConcurrentLookups bounds in-flight provider calls for one route.
const maxConcurrentLookups = 5

type stopCosts struct {
	clearing domain.ServiceCostResult
	hauling  domain.ServiceCostResult
	salting  domain.ServiceCostResult
}

// onSiteHours is the longest service at the stop; services run side by side.
func (s stopCosts) onSiteHours() float64 {
	return maxOf(s.clearing.OnSiteHours, s.hauling.OnSiteHours, s.salting.OnSiteHours)
}

// PriceRoute prices several properties serviced by one shared fleet.
//
// Per-stop work is sized without minimum floors, the fleet is sized for the
// busiest stop, and the cost of running that fleet for all on-site and
// travel hours is split back across stops by their share of on-site hours.
// Stop order is taken from reqs as given.
//
// The only error is cancellation of ctx while travel times are resolved.
func PriceRoute(
	ctx context.Context,
	reqs []domain.ServiceRequest,
	rc domain.RateCard,
	provider ports.TravelTimeProvider,
) (_ *domain.RouteQuote, err error) {
	defer obs.Time(ctx, "services.PriceRoute")(&err)

	if len(reqs) == 0 {
		return &domain.RouteQuote{Stops: []domain.RouteStopResult{}, Legs: []domain.TravelLeg{}}, nil
	}

	resolved, err := resolveRoundTrips(ctx, reqs, provider)
	if err != nil {
		return nil, fmt.Errorf("price route: resolve round trips: %w", err)
	}

	costs := make([]stopCosts, len(resolved))
	for i, req := range resolved {
		costs[i] = stopCosts{
			clearing: ClearingCost(req, rc, false),
			hauling:  HaulingCost(req, rc, false),
			salting:  SaltingCost(req, rc, false),
		}
	}

	fleet := routeFleet(costs)
	fleetRate := nonNegative(fleet.HourlyRate(rc.Equipment))

	stopHours := make([]float64, len(costs))
	for i, c := range costs {
		stopHours[i] = c.onSiteHours()
	}
	totalOnSite := nonNegative(floats.Sum(stopHours))

	legs, err := travelLegs(ctx, resolved, rc, provider)
	if err != nil {
		return nil, fmt.Errorf("price route: travel times: %w", err)
	}
	legHours := make([]float64, len(legs))
	for i, l := range legs {
		legHours[i] = l.Hours
	}
	totalTravel := nonNegative(floats.Sum(legHours) + nonNegative(rc.Season.FinalReturnTravelHours))

	totalCost := nonNegative((totalOnSite + totalTravel) * fleetRate)

	stops := make([]domain.RouteStopResult, len(resolved))
	for i, req := range resolved {
		share := safeDiv(stopHours[i], totalOnSite)
		perEvent := nonNegative(totalCost * share)
		seasonal := stopSeasonalPrice(req, rc, costs[i], perEvent)

		stops[i] = domain.RouteStopResult{
			ID:      req.ID,
			Address: req.Address,
			AggregateResult: domain.AggregateResult{
				Clearing: costs[i].clearing,
				Hauling:  costs[i].hauling,
				Salting:  costs[i].salting,
				Totals: domain.Totals{
					PerEventPrice: perEvent,
					SeasonalPrice: seasonal,
					MonthlyPrice:  monthlyPrice(req, rc, perEvent, seasonal),
				},
			},
			OnSiteHours: stopHours[i],
			Share:       share,
		}
	}

	return &domain.RouteQuote{
		Stops:            stops,
		Fleet:            fleet,
		FleetHourlyRate:  fleetRate,
		Legs:             legs,
		TotalOnSiteHours: totalOnSite,
		TotalTravelHours: totalTravel,
		TotalRouteCost:   totalCost,
	}, nil
}

// routeFleet sizes each category for the busiest stop. Clearing and hauling
// loaders at one stop work at the same time, so they add up.
func routeFleet(costs []stopCosts) domain.Equipment {
	var fleet domain.Equipment
	for _, c := range costs {
		fleet.Loaders = max(fleet.Loaders, c.clearing.Equipment.Loaders+c.hauling.Equipment.Loaders)
		fleet.SkidSteers = max(fleet.SkidSteers, c.clearing.Equipment.SkidSteers)
		fleet.ShovelCrews = max(fleet.ShovelCrews, c.clearing.Equipment.ShovelCrews)
		fleet.Trucks = max(fleet.Trucks, c.hauling.Equipment.Trucks)
		fleet.SaltingTrucks = max(fleet.SaltingTrucks, c.salting.Equipment.SaltingTrucks)
	}
	return fleet
}

// stopSeasonalPrice splits the stop's per-event price across its enabled
// services by their raw cost share (equally when all raw costs are zero) and
// scales each part by that service's events per season.
func stopSeasonalPrice(req domain.ServiceRequest, rc domain.RateCard, c stopCosts, perEvent float64) float64 {
	clearingEvents := float64(rc.EventsPerSeason(req.ClearingTrigger))
	haulingEvents := float64(rc.HaulingEventsPerSeason(req))

	type part struct {
		enabled bool
		cost    float64
		events  float64
	}
	parts := []part{
		{req.Clearing.Enabled(), c.clearing.Cost, clearingEvents},
		{req.Hauling.Enabled, c.hauling.Cost, haulingEvents},
		{req.Salting.Enabled, c.salting.Cost, clearingEvents},
	}

	rawTotal := 0.0
	enabled := 0
	for _, p := range parts {
		if p.enabled {
			rawTotal += nonNegative(p.cost)
			enabled++
		}
	}

	seasonal := 0.0
	switch {
	case rawTotal > 0:
		for _, p := range parts {
			if p.enabled {
				seasonal += safeDiv(p.cost, rawTotal) * perEvent * p.events
			}
		}
	case perEvent > 0 && enabled > 0:
		for _, p := range parts {
			if p.enabled {
				seasonal += perEvent / float64(enabled) * p.events
			}
		}
	}
	return nonNegative(seasonal)
}

// resolveRoundTrips fills unknown hauling round trips concurrently.
func resolveRoundTrips(
	ctx context.Context,
	reqs []domain.ServiceRequest,
	provider ports.TravelTimeProvider,
) ([]domain.ServiceRequest, error) {
	out := make([]domain.ServiceRequest, len(reqs))
	copy(out, reqs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i := range out {
		if !out[i].Hauling.Enabled || out[i].Hauling.RoundTripHours > 0 || provider == nil {
			continue
		}
		g.Go(func() error {
			out[i] = ResolveRoundTrip(gctx, out[i], provider)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// travelLegs looks up travel between consecutive stops. Batch-capable
// providers get one call; others get bounded concurrent lookups. Results stay
// index-aligned with the stop pairs.
func travelLegs(
	ctx context.Context,
	reqs []domain.ServiceRequest,
	rc domain.RateCard,
	provider ports.TravelTimeProvider,
) ([]domain.TravelLeg, error) {
	if len(reqs) < 2 {
		return []domain.TravelLeg{}, nil
	}

	pairs := make([]ports.Leg, len(reqs)-1)
	for i := range pairs {
		pairs[i] = ports.Leg{Origin: reqs[i].Address, Destination: reqs[i+1].Address}
	}

	hours := make([]float64, len(pairs))
	fallback := nonNegative(rc.Season.FallbackTravelHours)

	switch p := provider.(type) {
	case nil:
		for i := range hours {
			hours[i] = fallback
		}
	case ports.BatchTravelTimeProvider:
		got := p.TravelTimes(ctx, pairs)
		for i := range hours {
			hours[i] = fallback
			if i < len(got) {
				hours[i] = got[i]
			}
		}
	default:
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentLookups)
		for i, leg := range pairs {
			g.Go(func() error {
				hours[i] = p.TravelTime(gctx, leg.Origin, leg.Destination)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	legs := make([]domain.TravelLeg, len(pairs))
	for i, pair := range pairs {
		h := hours[i]
		// A provider that breaks its contract gets the fallback rather than a NaN total.
		if h != nonNegative(h) {
			h = fallback
		}
		legs[i] = domain.TravelLeg{From: pair.Origin, To: pair.Destination, Hours: h}
	}
	return legs, nil
}
