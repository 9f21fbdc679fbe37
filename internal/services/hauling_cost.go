package services

import (
	"math"

	"snow-route-pricing/internal/domain"
)

// HaulingCost sizes loaders and dump trucks to remove the snow that clearing
// piles up on one property.
//
// Trucks are balanced so loaded trucks reach the load point inside the card's
// arrival-interval band. When trucks arrive faster than one loader can fill
// them, loaders are added until loading keeps pace. Without a known round
// trip or a positive volume the service prices at zero.
func HaulingCost(req domain.ServiceRequest, rc domain.RateCard, applyMinimum bool) domain.ServiceCostResult {
	if !req.Hauling.Enabled {
		return domain.ServiceCostResult{}
	}

	s := rc.Season
	areaM2 := req.Clearing.TotalArea() * nonNegative(s.SquareFeetToMeters)

	haulsPerSeason := 1
	if req.HaulingInterval > 0 {
		haulsPerSeason = req.HaulingInterval
	}
	depthPerHaul := safeDiv(s.AverageSeasonalSnowM, float64(haulsPerSeason))
	volume := nonNegative(areaM2 * depthPerHaul)

	roundTrip := nonNegative(req.Hauling.RoundTripHours)
	if volume <= 0 || roundTrip <= 0 {
		return domain.ServiceCostResult{}
	}

	truckLoads := ceilCount(safeDiv(volume, s.TruckCapacityM3))
	if truckLoads == 0 {
		return domain.ServiceCostResult{}
	}

	crew := req.Hauling.Crew
	loadTimeMinutes := crew.LoadTimeMinutes
	if !(loadTimeMinutes > 0) {
		loadTimeMinutes = s.DefaultLoadTimeMinutes
	}
	loadTimeHours := nonNegative(loadTimeMinutes) / 60
	minInterval := nonNegative(s.MinLoadIntervalMinutes) / 60
	maxInterval := nonNegative(s.MaxLoadIntervalMinutes) / 60

	minLoaders := max(1, crew.Loaders)
	minTrucks := max(1, crew.Trucks)

	trucks := minTrucks
	target := nonNegative(req.TargetHours)
	if target > 0 {
		loadsPerTruck := int(math.Floor(target / roundTrip))
		needed := truckLoads
		if loadsPerTruck > 0 {
			needed = ceilCount(float64(truckLoads) / float64(loadsPerTruck))
		}
		trucks = max(minTrucks, needed)
	} else {
		// One loader sets the pace; a truck should arrive at most every maxInterval.
		interval := loadTimeHours
		if maxInterval > 0 && maxInterval < interval {
			interval = maxInterval
		}
		trucks = max(minTrucks, ceilCount(safeDiv(roundTrip, interval)))
	}
	trucks = max(1, trucks)

	arrivalInterval := roundTrip / float64(trucks)
	loaders := minLoaders
	if arrivalInterval < minInterval {
		loaders = max(minLoaders, ceilCount(safeDiv(loadTimeHours, arrivalInterval)))
	}
	loaders = max(1, loaders)

	onSiteHours := nonNegative(float64(truckLoads) / float64(trucks) * roundTrip)
	if onSiteHours == 0 {
		onSiteHours = s.MinimumWorkHours
	}

	mobilization := nonNegative(s.MobilizationHours)
	fleet := domain.Equipment{Loaders: loaders, Trucks: trucks}
	fleetRate := fleet.HourlyRate(rc.Equipment)
	cost := nonNegative((onSiteHours + mobilization) * fleetRate)

	if applyMinimum && cost > 0 && cost < s.MinimumBillableCost {
		minWorkHours := s.MinimumWorkHours
		if fleetRate > 0 {
			minWorkHours = s.MinimumBillableCost/fleetRate - mobilization
		}
		onSiteHours = maxOf(onSiteHours, minWorkHours, s.MinimumWorkHours)
		cost = s.MinimumBillableCost
	}

	return domain.ServiceCostResult{
		Cost:        cost,
		OnSiteHours: onSiteHours,
		Equipment:   fleet,
		Logistics: domain.Logistics{
			SnowVolumePerEventM3: volume,
			TruckLoads:           truckLoads,
			TruckCapacityM3:      s.TruckCapacityM3,
			RoundTripHours:       roundTrip,
			ArrivalIntervalHours: arrivalInterval,
		},
	}
}
