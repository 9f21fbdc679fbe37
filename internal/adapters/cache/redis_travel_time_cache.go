package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"snow-route-pricing/internal/platform/obs"
	"snow-route-pricing/internal/ports"
)

const travelTimeKeyPrefix = "traveltime:"

// RedisTravelTimeCache is a ports.TravelTimeCache with per-entry expiry.
// Values are durations in seconds.
type RedisTravelTimeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTravelTimeCache returns a cache whose entries expire after ttl.
// A zero ttl keeps entries forever.
func NewRedisTravelTimeCache(client *redis.Client, ttl time.Duration) *RedisTravelTimeCache {
	return &RedisTravelTimeCache{client: client, ttl: ttl}
}

func travelTimeKey(l ports.Leg) string {
	return travelTimeKeyPrefix + l.Origin + "|" + l.Destination
}

func (c *RedisTravelTimeCache) GetMany(ctx context.Context, legs []ports.Leg) (_ map[ports.Leg]time.Duration, err error) {
	defer obs.Time(ctx, "traveltime.redis.GetMany")(&err)

	if c.client == nil {
		return nil, errors.New("redis travel time cache: client is nil")
	}

	uniq := uniqueLegs(legs)
	if len(uniq) == 0 {
		return map[ports.Leg]time.Duration{}, nil
	}

	keys := make([]string, len(uniq))
	for i, l := range uniq {
		keys[i] = travelTimeKey(l)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get redis travel time cache: %w", err)
	}

	out := make(map[ports.Leg]time.Duration, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		seconds, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("get redis travel time cache %q: %w", keys[i], err)
		}
		out[uniq[i]] = time.Duration(seconds * float64(time.Second))
	}
	return out, nil
}

func (c *RedisTravelTimeCache) PutMany(ctx context.Context, results map[ports.Leg]time.Duration) (err error) {
	defer obs.Time(ctx, "traveltime.redis.PutMany")(&err)

	if c.client == nil {
		return errors.New("redis travel time cache: client is nil")
	}
	if len(results) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for l, d := range results {
		if l.Origin == "" || l.Destination == "" {
			return fmt.Errorf("insert redis travel time cache: empty leg %q -> %q", l.Origin, l.Destination)
		}
		pipe.Set(ctx, travelTimeKey(l), strconv.FormatFloat(d.Seconds(), 'f', -1, 64), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert redis travel time cache: %w", err)
	}
	return nil
}
