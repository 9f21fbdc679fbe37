package traveltime

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/platform/obs"
	"snow-route-pricing/internal/ports"
)

func newMetrics(t *testing.T) (*obs.Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := obs.NewMetrics(reg)
	require.NoError(t, err)
	return m, reg
}

func fallbackCount(t *testing.T, reg *prometheus.Registry, reason string) int {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "travel_time_fallbacks_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "reason" && l.GetValue() == reason {
					return int(m.GetCounter().GetValue())
				}
			}
		}
	}
	return 0
}

func TestEstimatorAppliesSlowTruckFactor(t *testing.T) {
	src := NewMockSource([]MockPair{{From: "a st", To: "b st", Duration: 30 * time.Minute}})
	e := NewEstimator(src, DefaultConfig(), nil)

	got := e.TravelTime(context.Background(), "  a   st", "b st")
	assert.InDelta(t, 0.55, got, 1e-12)
}

func TestEstimatorFallsBack(t *testing.T) {
	cases := []struct {
		name        string
		source      ports.TravelTimeSource
		origin      string
		destination string
		reason      string
	}{
		{"missing origin", NewMockSource(nil), "", "b", ReasonNoAddress},
		{"blank destination", NewMockSource(nil), "a", "   ", ReasonNoAddress},
		{"no backend", nil, "a", "b", ReasonNoBackend},
		{"backend error", &MockSource{Err: errors.New("quota")}, "a", "b", ReasonBackendError},
		{"unknown pair", NewMockSource(nil), "a", "b", ReasonBackendError},
		{"timeout", &MockSource{Delay: time.Second}, "a", "b", ReasonTimeout},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, reg := newMetrics(t)
			cfg := DefaultConfig()
			cfg.Timeout = 10 * time.Millisecond
			e := NewEstimator(c.source, cfg, m)

			got := e.TravelTime(context.Background(), c.origin, c.destination)

			assert.Equal(t, 0.25, got)
			assert.Equal(t, 1, fallbackCount(t, reg, c.reason))
		})
	}
}

func TestEstimatorRoundTripToDisposal(t *testing.T) {
	src := NewMockSource([]MockPair{
		{From: "1 Lot Rd", To: "Dump Site", Duration: 20 * time.Minute},
		{From: "Dump Site", To: "1 Lot Rd", Duration: 20 * time.Minute},
	})
	cfg := DefaultConfig()
	cfg.DisposalSite = "Dump Site"
	cfg.SlowTruckFactor = 1
	e := NewEstimator(src, cfg, nil)

	req := domain.ServiceRequest{
		Address: "1 Lot Rd",
		Hauling: domain.Hauling{Enabled: true, Crew: domain.HaulingCrew{UnloadTimeMinutes: 12}},
	}
	assert.InDelta(t, 20.0/60+20.0/60+0.2, e.RoundTripToDisposal(context.Background(), req), 1e-9)
}

func TestEstimatorRoundTripFixedWithoutDisposalSite(t *testing.T) {
	e := NewEstimator(NewMockSource(nil), DefaultConfig(), nil)

	got := e.RoundTripToDisposal(context.Background(), domain.ServiceRequest{Address: "1 Lot Rd"})
	assert.Equal(t, 0.95, got)
}

func TestEstimatorRoundTripFallsBackToFixed(t *testing.T) {
	m, reg := newMetrics(t)
	cfg := DefaultConfig()
	cfg.DisposalSite = "Dump Site"
	e := NewEstimator(&MockSource{Err: errors.New("down")}, cfg, m)

	got := e.RoundTripToDisposal(context.Background(), domain.ServiceRequest{Address: "1 Lot Rd"})

	assert.Equal(t, 0.95, got)
	assert.Equal(t, 1, fallbackCount(t, reg, ReasonBackendError))
}

func TestEstimatorTravelTimesWithMatrixSource(t *testing.T) {
	src := NewMockMatrixSource([]MockPair{
		{From: "a", To: "b", Duration: time.Hour},
		{From: "b", To: "c", Duration: 30 * time.Minute},
	})
	m, reg := newMetrics(t)
	cfg := DefaultConfig()
	cfg.SlowTruckFactor = 1
	e := NewEstimator(src, cfg, m)

	got := e.TravelTimes(context.Background(), []ports.Leg{
		{Origin: "a", Destination: "b"},
		{Origin: "b", Destination: "c"},
		{Origin: "c", Destination: "d"},
		{Origin: "", Destination: "a"},
	})

	assert.Equal(t, []float64{1, 0.5, 0.25, 0.25}, got)
	assert.Equal(t, 1, src.Batches())
	assert.Equal(t, 1, fallbackCount(t, reg, ReasonNoRoute))
	assert.Equal(t, 1, fallbackCount(t, reg, ReasonNoAddress))
}

func TestEstimatorTravelTimesMatrixFailure(t *testing.T) {
	src := NewMockMatrixSource(nil)
	src.Err = errors.New("down")
	m, reg := newMetrics(t)
	e := NewEstimator(src, DefaultConfig(), m)

	got := e.TravelTimes(context.Background(), []ports.Leg{{Origin: "a", Destination: "b"}, {Origin: "b", Destination: "c"}})

	assert.Equal(t, []float64{0.25, 0.25}, got)
	assert.Equal(t, 2, fallbackCount(t, reg, ReasonBackendError))
}

func TestEstimatorTravelTimesWithoutMatrix(t *testing.T) {
	src := NewMockSource([]MockPair{
		{From: "a", To: "b", Duration: time.Hour},
		{From: "b", To: "c", Duration: 2 * time.Hour},
	})
	cfg := DefaultConfig()
	cfg.SlowTruckFactor = 1
	e := NewEstimator(src, cfg, nil)

	got := e.TravelTimes(context.Background(), []ports.Leg{{Origin: "a", Destination: "b"}, {Origin: "b", Destination: "c"}})

	assert.Equal(t, []float64{1, 2}, got)
	assert.Equal(t, 2, src.Calls())
}

func TestEstimatorSatisfiesBatchProvider(t *testing.T) {
	var _ ports.BatchTravelTimeProvider = NewEstimator(nil, DefaultConfig(), nil)
}

func TestEstimatorFallbackMetricText(t *testing.T) {
	m, reg := newMetrics(t)
	e := NewEstimator(nil, DefaultConfig(), m)
	e.TravelTime(context.Background(), "a", "b")

	expected := `
# HELP travel_time_fallbacks_total Travel-time lookups answered with the fallback duration
# TYPE travel_time_fallbacks_total counter
travel_time_fallbacks_total{reason="no_backend"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "travel_time_fallbacks_total"))
}
