package traveltime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snow-route-pricing/internal/ports"
)

type memCache struct {
	mu      sync.Mutex
	data    map[ports.Leg]time.Duration
	readErr error
}

func (c *memCache) GetMany(_ context.Context, legs []ports.Leg) (map[ports.Leg]time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	out := map[ports.Leg]time.Duration{}
	for _, l := range legs {
		if d, ok := c.data[l]; ok {
			out[l] = d
		}
	}
	return out, nil
}

func (c *memCache) PutMany(_ context.Context, results map[ports.Leg]time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range results {
		c.data[k] = v
	}
	return nil
}

func TestCachedSourceServesHitsAndStoresMisses(t *testing.T) {
	src := NewMockSource([]MockPair{{From: "a st", To: "b st", Duration: 10 * time.Minute}})
	cache := &memCache{data: map[ports.Leg]time.Duration{}}
	c := NewCachedSource(src, cache)

	d, err := c.TravelTime(context.Background(), "a  st", " b st")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, d)
	assert.Equal(t, 1, src.Calls())
	assert.Equal(t, 10*time.Minute, cache.data[ports.Leg{Origin: "a st", Destination: "b st"}])

	d, err = c.TravelTime(context.Background(), "a st", "b st")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, d)
	assert.Equal(t, 1, src.Calls(), "second lookup should hit the cache")
}

func TestCachedSourceBatchesMissesThroughMatrix(t *testing.T) {
	src := NewMockMatrixSource([]MockPair{
		{From: "a", To: "b", Duration: time.Minute},
		{From: "b", To: "c", Duration: 2 * time.Minute},
	})
	cache := &memCache{data: map[ports.Leg]time.Duration{
		{Origin: "a", Destination: "b"}: time.Minute,
	}}
	c := NewCachedSource(src, cache)

	legs := []ports.Leg{{Origin: "a", Destination: "b"}, {Origin: "b", Destination: "c"}}
	got, err := c.TravelTimes(context.Background(), legs)
	require.NoError(t, err)

	assert.Equal(t, map[ports.Leg]time.Duration{legs[0]: time.Minute, legs[1]: 2 * time.Minute}, got)
	assert.Equal(t, 1, src.Batches())
	assert.Equal(t, 1, src.Calls())
}

func TestCachedSourceIgnoresCacheReadErrors(t *testing.T) {
	src := NewMockSource([]MockPair{{From: "a", To: "b", Duration: time.Minute}})
	c := NewCachedSource(src, &memCache{data: map[ports.Leg]time.Duration{}, readErr: errors.New("db down")})

	d, err := c.TravelTime(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)
}

func TestCachedSourcePropagatesBackendErrors(t *testing.T) {
	c := NewCachedSource(&MockSource{Err: errors.New("quota")}, nil)

	_, err := c.TravelTime(context.Background(), "a", "b")
	assert.ErrorContains(t, err, "quota")
}

func TestCachedSourceSkipsFailingLegs(t *testing.T) {
	src := NewMockSource([]MockPair{{From: "a", To: "b", Duration: time.Hour}})
	cache := &memCache{data: map[ports.Leg]time.Duration{
		{Origin: "c", Destination: "d"}: 30 * time.Minute,
	}}
	c := NewCachedSource(src, cache)

	got, err := c.TravelTimes(context.Background(), []ports.Leg{
		{Origin: "a", Destination: "b"},
		{Origin: "b", Destination: "x"},
		{Origin: "c", Destination: "d"},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, got[ports.Leg{Origin: "a", Destination: "b"}])
	assert.Equal(t, 30*time.Minute, got[ports.Leg{Origin: "c", Destination: "d"}])
	assert.NotContains(t, got, ports.Leg{Origin: "b", Destination: "x"})
	assert.Equal(t, time.Hour, cache.data[ports.Leg{Origin: "a", Destination: "b"}], "resolved legs are still cached")

	e := NewEstimator(c, DefaultConfig(), nil)
	hours := e.TravelTimes(context.Background(), []ports.Leg{
		{Origin: "a", Destination: "b"},
		{Origin: "b", Destination: "x"},
		{Origin: "c", Destination: "d"},
	})
	require.Len(t, hours, 3)
	assert.InDelta(t, 1.1, hours[0], 1e-9)
	assert.InDelta(t, 0.25, hours[1], 1e-9)
	assert.InDelta(t, 0.55, hours[2], 1e-9)
}

func TestCachedSourceServesHitsWhenBackendIsDown(t *testing.T) {
	cache := &memCache{data: map[ports.Leg]time.Duration{
		{Origin: "c", Destination: "d"}: 30 * time.Minute,
	}}
	c := NewCachedSource(&MockSource{Err: errors.New("quota")}, cache)

	got, err := c.TravelTimes(context.Background(), []ports.Leg{
		{Origin: "a", Destination: "b"},
		{Origin: "c", Destination: "d"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[ports.Leg]time.Duration{{Origin: "c", Destination: "d"}: 30 * time.Minute}, got)
}
