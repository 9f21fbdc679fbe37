package services

import "snow-route-pricing/internal/domain"

// PriceSingleLocation prices a standalone property with the minimum floor
// applied to each service.
func PriceSingleLocation(req domain.ServiceRequest, rc domain.RateCard) domain.AggregateResult {
	clearing := ClearingCost(req, rc, true)
	hauling := HaulingCost(req, rc, true)
	salting := SaltingCost(req, rc, true)

	clearingEvents := float64(rc.EventsPerSeason(req.ClearingTrigger))
	haulingEvents := float64(rc.HaulingEventsPerSeason(req))

	perEvent := nonNegative(clearing.Cost + hauling.Cost + salting.Cost)
	seasonal := nonNegative(clearing.Cost*clearingEvents + hauling.Cost*haulingEvents + salting.Cost*clearingEvents)

	return domain.AggregateResult{
		Clearing: clearing,
		Hauling:  hauling,
		Salting:  salting,
		Totals: domain.Totals{
			PerEventPrice: perEvent,
			SeasonalPrice: seasonal,
			MonthlyPrice:  monthlyPrice(req, rc, perEvent, seasonal),
		},
	}
}

// monthlyPrice bills included events per month when the contract names them,
// otherwise spreads the seasonal price over the contract months.
func monthlyPrice(req domain.ServiceRequest, rc domain.RateCard, perEvent, seasonal float64) float64 {
	if req.IncludedEventsPerMonth > 0 {
		return nonNegative(perEvent * float64(req.IncludedEventsPerMonth))
	}
	return safeDiv(seasonal, float64(rc.ContractMonths(req)))
}
