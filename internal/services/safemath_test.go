package services

import (
	"math"
	"testing"
)

func TestCeilCount(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{-3, 0},
		{math.NaN(), 0},
		{1e-12, 1},
		{1e-9, 1},
		{0.4, 1},
		{2.0000000000000004, 2},
		{2.01, 3},
	}
	for _, c := range cases {
		if got := ceilCount(c.in); got != c.want {
			t.Errorf("ceilCount(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
