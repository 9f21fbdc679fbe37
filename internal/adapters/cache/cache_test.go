package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/ports"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisTravelTimeCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTravelTimeCache(client, ttl), mr
}

func TestRedisTravelTimeCacheRoundTrip(t *testing.T) {
	c, mr := newRedisCache(t, time.Hour)
	ctx := context.Background()

	ab := ports.Leg{Origin: "a", Destination: "b"}
	bc := ports.Leg{Origin: "b", Destination: "c"}
	require.NoError(t, c.PutMany(ctx, map[ports.Leg]time.Duration{
		ab: 90 * time.Second,
		bc: 1500 * time.Millisecond,
	}))

	got, err := c.GetMany(ctx, []ports.Leg{ab, bc, {Origin: "c", Destination: "d"}, ab})
	require.NoError(t, err)
	assert.Equal(t, map[ports.Leg]time.Duration{ab: 90 * time.Second, bc: 1500 * time.Millisecond}, got)

	assert.True(t, mr.Exists("traveltime:a|b"))
	assert.Equal(t, time.Hour, mr.TTL("traveltime:a|b"))
}

func TestRedisTravelTimeCacheExpires(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()
	leg := ports.Leg{Origin: "a", Destination: "b"}

	require.NoError(t, c.PutMany(ctx, map[ports.Leg]time.Duration{leg: time.Minute}))
	mr.FastForward(2 * time.Minute)

	got, err := c.GetMany(ctx, []ports.Leg{leg})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisTravelTimeCacheRejectsEmptyLeg(t *testing.T) {
	c, _ := newRedisCache(t, 0)

	err := c.PutMany(context.Background(), map[ports.Leg]time.Duration{{Origin: "a"}: time.Second})
	assert.Error(t, err)
}

func TestRedisTravelTimeCacheCorruptValue(t *testing.T) {
	c, mr := newRedisCache(t, 0)
	require.NoError(t, mr.Set("traveltime:a|b", "soon"))

	_, err := c.GetMany(context.Background(), []ports.Leg{{Origin: "a", Destination: "b"}})
	assert.Error(t, err)
}

func TestSQLCachesRequireDB(t *testing.T) {
	ctx := context.Background()

	_, err := NewSQLTravelTimeCache(nil).GetMany(ctx, []ports.Leg{{Origin: "a", Destination: "b"}})
	assert.Error(t, err)
	assert.Error(t, NewSQLTravelTimeCache(nil).PutMany(ctx, map[ports.Leg]time.Duration{{Origin: "a", Destination: "b"}: 1}))

	_, err = NewSQLGeocodeCache(nil).GetMany(ctx, []string{"a"})
	assert.Error(t, err)
	assert.Error(t, NewSQLGeocodeCache(nil).PutMany(ctx, map[string]domain.Coordinates{"a": {}}))
}

func TestUniqueLegs(t *testing.T) {
	got := uniqueLegs([]ports.Leg{
		{Origin: " a ", Destination: "b"},
		{Origin: "a", Destination: "b"},
		{Origin: "", Destination: "b"},
		{Origin: "b", Destination: "a"},
	})
	assert.Equal(t, []ports.Leg{{Origin: "a", Destination: "b"}, {Origin: "b", Destination: "a"}}, got)
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"x", "y"}, uniqueStrings([]string{"x", " x", "", "y", "y "}))
}
