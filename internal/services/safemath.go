package services

import "math"

// Intermediate values in the pricing engine are coalesced here rather than at
// each call site: NaN, infinities and negatives become 0.

// ceilTolerance absorbs floating-point noise such as 1.0000000000000002 so an
// exact fit does not round up to an extra unit.
const ceilTolerance = 1e-9

// maxUnits bounds counts derived from absurd inputs so they still fit an int.
const maxUnits = 1 << 30

func nonNegative(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
		return 0
	}
	return x
}

// safeDiv returns a/b, or 0 when b is not positive or the result is not a
// finite non-negative number.
func safeDiv(a, b float64) float64 {
	if !(b > 0) {
		return 0
	}
	return nonNegative(a / b)
}

// ceilCount rounds a unit requirement up to a whole count.
func ceilCount(x float64) int {
	x = nonNegative(x)
	if x == 0 {
		return 0
	}
	if x >= maxUnits {
		return maxUnits
	}
	// Any positive requirement needs at least one unit.
	return max(1, int(math.Ceil(x-ceilTolerance)))
}

func maxOf(values ...float64) float64 {
	m := 0.0
	for _, v := range values {
		if v = nonNegative(v); v > m {
			m = v
		}
	}
	return m
}

func atLeastOne(count int, enabled bool) int {
	if enabled && count < 1 {
		return 1
	}
	if count < 0 {
		return 0
	}
	return count
}
