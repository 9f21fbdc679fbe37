package services

import "snow-route-pricing/internal/domain"

// clearingCategory is one equipment category working its own share of the lot.
type clearingCategory struct {
	area       float64
	throughput float64
	rate       float64
	count      int
}

// hoursWith returns the time for n units to clear the category's area.
func (c clearingCategory) hoursWith(n int) float64 {
	if n <= 0 {
		return 0
	}
	return safeDiv(c.area, float64(n)*c.throughput)
}

// unitsFor returns the units needed to finish the area within hours.
func (c clearingCategory) unitsFor(hours float64) int {
	return ceilCount(safeDiv(safeDiv(c.area, hours), c.throughput))
}

// ClearingCost sizes loaders, skid steers and shovel crews for one property.
//
// Categories work in parallel, so the job lasts as long as the slowest one.
// A target shorter than the natural duration adds units per category; the
// resulting duration is recomputed from the integer counts and usually lands
// at or slightly under the target.
func ClearingCost(req domain.ServiceRequest, rc domain.RateCard, applyMinimum bool) domain.ServiceCostResult {
	if !req.Clearing.Enabled() {
		return domain.ServiceCostResult{}
	}

	cats := []clearingCategory{
		{area: nonNegative(req.Clearing.LoaderArea), throughput: rc.Throughput.Loader, rate: rc.Equipment.Loader},
		{area: nonNegative(req.Clearing.SkidSteerArea), throughput: rc.Throughput.SkidSteer, rate: rc.Equipment.SkidSteer},
		{area: nonNegative(req.Clearing.ShovelArea), throughput: rc.Throughput.ShovelCrew, rate: rc.Equipment.ShovelCrew},
	}

	natural := 0.0
	for _, c := range cats {
		if c.area > 0 {
			natural = maxOf(natural, c.hoursWith(1))
		}
	}

	target := nonNegative(req.TargetHours)
	onSiteHours := 0.0

	if target > 0 && target < natural {
		for i := range cats {
			cats[i].count = cats[i].unitsFor(target)
		}
		for _, c := range cats {
			onSiteHours = maxOf(onSiteHours, c.hoursWith(c.count))
		}
	} else {
		onSiteHours = maxOf(natural, target)
		if onSiteHours > 0 {
			for i := range cats {
				cats[i].count = cats[i].unitsFor(onSiteHours)
			}
		}
	}

	for i := range cats {
		cats[i].count = atLeastOne(cats[i].count, cats[i].area > 0)
	}

	// Degenerate throughput leaves no duration; derive it from the forced counts.
	if onSiteHours == 0 {
		for _, c := range cats {
			onSiteHours = maxOf(onSiteHours, c.hoursWith(c.count))
		}
	}

	billedHours := onSiteHours + nonNegative(rc.Season.MobilizationHours)
	cost := 0.0
	for _, c := range cats {
		cost += float64(c.count) * billedHours * nonNegative(c.rate)
	}
	cost = nonNegative(cost)

	if applyMinimum && cost > 0 && cost < rc.Season.MinimumBillableCost {
		onSiteHours = maxOf(onSiteHours, rc.Season.MinimumWorkHours)
		cost = rc.Season.MinimumBillableCost
	}

	return domain.ServiceCostResult{
		Cost:        cost,
		OnSiteHours: nonNegative(onSiteHours),
		Equipment: domain.Equipment{
			Loaders:     cats[0].count,
			SkidSteers:  cats[1].count,
			ShovelCrews: cats[2].count,
		},
	}
}
