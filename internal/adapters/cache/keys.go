package cache

import (
	"strings"

	"snow-route-pricing/internal/ports"
)

// uniqueLegs drops legs with an empty side and duplicates, keeping order.
func uniqueLegs(legs []ports.Leg) []ports.Leg {
	seen := make(map[ports.Leg]struct{}, len(legs))
	out := make([]ports.Leg, 0, len(legs))
	for _, l := range legs {
		l = ports.Leg{Origin: strings.TrimSpace(l.Origin), Destination: strings.TrimSpace(l.Destination)}
		if l.Origin == "" || l.Destination == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
