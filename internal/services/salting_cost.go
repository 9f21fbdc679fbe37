package services

import "snow-route-pricing/internal/domain"

// SaltingCost prices one salting pass: a single salting truck for a fixed
// duration. The minimum floor clamps the cost and leaves the duration alone.
func SaltingCost(req domain.ServiceRequest, rc domain.RateCard, applyMinimum bool) domain.ServiceCostResult {
	if !req.Salting.Enabled {
		return domain.ServiceCostResult{}
	}

	onSiteHours := nonNegative(rc.Season.SaltingHours)
	fleet := domain.Equipment{SaltingTrucks: 1}
	cost := nonNegative((onSiteHours + nonNegative(rc.Season.MobilizationHours)) * fleet.HourlyRate(rc.Equipment))

	if applyMinimum && cost > 0 && cost < rc.Season.MinimumBillableCost {
		cost = rc.Season.MinimumBillableCost
	}

	return domain.ServiceCostResult{
		Cost:        cost,
		OnSiteHours: onSiteHours,
		Equipment:   fleet,
	}
}
