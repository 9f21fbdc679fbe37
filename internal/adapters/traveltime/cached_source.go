package traveltime

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"snow-route-pricing/internal/ports"
)

// CachedSource answers from a TravelTimeCache and asks the wrapped source
// only for misses. Cache failures are logged and never fail a lookup.
type CachedSource struct {
	source ports.TravelTimeSource
	cache  ports.TravelTimeCache
}

func NewCachedSource(source ports.TravelTimeSource, cache ports.TravelTimeCache) *CachedSource {
	return &CachedSource{source: source, cache: cache}
}

func (c *CachedSource) TravelTime(ctx context.Context, origin, destination string) (time.Duration, error) {
	leg := ports.Leg{Origin: origin, Destination: destination}
	got, err := c.TravelTimes(ctx, []ports.Leg{leg})
	if err != nil {
		return 0, err
	}
	d, ok := got[leg]
	if !ok {
		return 0, fmt.Errorf("cached travel time: no route for %q -> %q", origin, destination)
	}
	return d, nil
}

// TravelTimes returns durations keyed by the legs as given. Legs are
// normalized for the cache and the backend.
func (c *CachedSource) TravelTimes(ctx context.Context, legs []ports.Leg) (map[ports.Leg]time.Duration, error) {
	log := zerolog.Ctx(ctx)

	keys := make(map[ports.Leg]ports.Leg, len(legs))
	uniq := make([]ports.Leg, 0, len(legs))
	for _, l := range legs {
		k := ports.Leg{Origin: NormalizeAddress(l.Origin), Destination: NormalizeAddress(l.Destination)}
		if _, seen := keys[l]; seen {
			continue
		}
		keys[l] = k
		uniq = append(uniq, k)
	}

	hits := map[ports.Leg]time.Duration{}
	if c.cache != nil && len(uniq) > 0 {
		cached, err := c.cache.GetMany(ctx, uniq)
		if err != nil {
			log.Warn().Err(err).Msg("travel time cache read failed")
		} else {
			hits = cached
		}
	}

	misses := make([]ports.Leg, 0, len(uniq))
	queued := map[ports.Leg]struct{}{}
	for _, k := range uniq {
		if _, ok := hits[k]; ok {
			continue
		}
		if _, ok := queued[k]; ok {
			continue
		}
		queued[k] = struct{}{}
		misses = append(misses, k)
	}

	fresh := map[ports.Leg]time.Duration{}
	if len(misses) > 0 {
		var err error
		fresh, err = c.fetch(ctx, misses)
		if err != nil {
			// Cache hits still answer their legs unless the caller gave up.
			if ctx.Err() != nil || len(hits) == 0 {
				return nil, err
			}
			log.Warn().Err(err).Int("misses", len(misses)).Msg("travel time backend failed, serving cache hits only")
			fresh = map[ports.Leg]time.Duration{}
		}
		if c.cache != nil && len(fresh) > 0 {
			if err := c.cache.PutMany(ctx, fresh); err != nil {
				log.Warn().Err(err).Msg("travel time cache write failed")
			}
		}
	}

	out := make(map[ports.Leg]time.Duration, len(keys))
	for orig, k := range keys {
		if d, ok := hits[k]; ok {
			out[orig] = d
		} else if d, ok := fresh[k]; ok {
			out[orig] = d
		}
	}
	return out, nil
}

func (c *CachedSource) fetch(ctx context.Context, legs []ports.Leg) (map[ports.Leg]time.Duration, error) {
	if m, ok := c.source.(ports.TravelTimeMatrixSource); ok {
		got, err := m.TravelTimes(ctx, legs)
		if err != nil {
			return nil, fmt.Errorf("cached travel times: %w", err)
		}
		return got, nil
	}

	// Failing legs are skipped so one unroutable address does not cost the others.
	out := make(map[ports.Leg]time.Duration, len(legs))
	var lastErr error
	for _, l := range legs {
		d, err := c.source.TravelTime(ctx, l.Origin, l.Destination)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("cached travel times: %w", ctxErr)
			}
			zerolog.Ctx(ctx).Warn().Err(err).Str("from", l.Origin).Str("to", l.Destination).Msg("travel time lookup failed")
			lastErr = fmt.Errorf("cached travel time %q -> %q: %w", l.Origin, l.Destination, err)
			continue
		}
		out[l] = d
	}
	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}
