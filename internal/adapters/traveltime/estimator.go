package traveltime

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/platform/obs"
	"snow-route-pricing/internal/ports"
)

// Fallback reasons reported on travel_time_fallbacks_total.
const (
	ReasonNoAddress    = "no_address"
	ReasonNoBackend    = "no_backend"
	ReasonTimeout      = "timeout"
	ReasonBackendError = "backend_error"
	ReasonNoRoute      = "no_route"
)

const maxConcurrentLookups = 5

type Config struct {
	// FallbackHours answers any lookup that cannot be resolved.
	FallbackHours float64
	// SlowTruckFactor scales backend car durations to loaded trucks.
	SlowTruckFactor float64
	// Timeout bounds one backend call. Zero disables it.
	Timeout time.Duration
	// DisposalSite is the snow dump address. Empty means round trips use
	// FixedRoundTripHours.
	DisposalSite        string
	FixedRoundTripHours float64
}

func DefaultConfig() Config {
	return Config{
		FallbackHours:       0.25,
		SlowTruckFactor:     1.10,
		Timeout:             5 * time.Second,
		FixedRoundTripHours: 0.95,
	}
}

// Estimator adapts a TravelTimeSource to the engine's TravelTimeProvider.
// Every failure resolves to the fallback and is logged and counted. A nil
// source is allowed and always falls back.
type Estimator struct {
	source  ports.TravelTimeSource
	cfg     Config
	metrics *obs.Metrics
}

func NewEstimator(source ports.TravelTimeSource, cfg Config, metrics *obs.Metrics) *Estimator {
	if cfg.SlowTruckFactor <= 0 {
		cfg.SlowTruckFactor = 1
	}
	if cfg.FallbackHours < 0 {
		cfg.FallbackHours = 0
	}
	return &Estimator{source: source, cfg: cfg, metrics: metrics}
}

// NormalizeAddress collapses whitespace so equal addresses share cache keys.
func NormalizeAddress(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (e *Estimator) TravelTime(ctx context.Context, origin, destination string) float64 {
	hours, reason := e.lookup(ctx, origin, destination)
	if reason != "" {
		return e.fallback(ctx, reason, origin, destination)
	}
	return hours
}

// RoundTripToDisposal is out to the disposal site, back, plus the crew's
// unload time. Without a disposal site, a request address, or a working
// backend it is the configured fixed round trip.
func (e *Estimator) RoundTripToDisposal(ctx context.Context, req domain.ServiceRequest) float64 {
	site := NormalizeAddress(e.cfg.DisposalSite)
	addr := NormalizeAddress(req.Address)
	if site == "" || addr == "" {
		return e.cfg.FixedRoundTripHours
	}

	out, reason := e.lookup(ctx, addr, site)
	if reason == "" {
		var back float64
		back, reason = e.lookup(ctx, site, addr)
		if reason == "" {
			unload := max(0, req.Hauling.Crew.UnloadTimeMinutes) / 60
			return out + back + unload
		}
	}

	e.metrics.TravelFallback(reason)
	zerolog.Ctx(ctx).Warn().
		Str("reason", reason).
		Str("address", addr).
		Float64("round_trip_hours", e.cfg.FixedRoundTripHours).
		Msg("disposal round trip fell back to fixed value")
	return e.cfg.FixedRoundTripHours
}

// TravelTimes resolves legs in one matrix call when the source supports it,
// otherwise with bounded concurrent lookups. The result is index-aligned
// with legs.
func (e *Estimator) TravelTimes(ctx context.Context, legs []ports.Leg) []float64 {
	out := make([]float64, len(legs))

	matrix, ok := e.source.(ports.TravelTimeMatrixSource)
	if !ok {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentLookups)
		for i, l := range legs {
			g.Go(func() error {
				out[i] = e.TravelTime(gctx, l.Origin, l.Destination)
				return nil
			})
		}
		_ = g.Wait()
		return out
	}

	norm := make([]ports.Leg, len(legs))
	query := make([]ports.Leg, 0, len(legs))
	for i, l := range legs {
		norm[i] = ports.Leg{Origin: NormalizeAddress(l.Origin), Destination: NormalizeAddress(l.Destination)}
		if norm[i].Origin != "" && norm[i].Destination != "" {
			query = append(query, norm[i])
		}
	}

	var got map[ports.Leg]time.Duration
	batchReason := ""
	if len(query) > 0 {
		cctx, cancel := e.withTimeout(ctx)
		var err error
		got, err = matrix.TravelTimes(cctx, query)
		cancel()
		if err != nil {
			batchReason = classify(err)
			zerolog.Ctx(ctx).Warn().Err(err).Int("legs", len(query)).Msg("travel time batch lookup failed")
		}
	}

	for i, l := range norm {
		switch {
		case l.Origin == "" || l.Destination == "":
			out[i] = e.fallback(ctx, ReasonNoAddress, l.Origin, l.Destination)
		case batchReason != "":
			out[i] = e.fallback(ctx, batchReason, l.Origin, l.Destination)
		default:
			d, ok := got[l]
			if !ok || d < 0 {
				out[i] = e.fallback(ctx, ReasonNoRoute, l.Origin, l.Destination)
				continue
			}
			out[i] = e.toHours(d)
		}
	}
	return out
}

// lookup returns scaled hours, or a non-empty fallback reason.
func (e *Estimator) lookup(ctx context.Context, origin, destination string) (float64, string) {
	origin, destination = NormalizeAddress(origin), NormalizeAddress(destination)
	if origin == "" || destination == "" {
		return 0, ReasonNoAddress
	}
	if e.source == nil {
		return 0, ReasonNoBackend
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	d, err := e.source.TravelTime(cctx, origin, destination)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("origin", origin).Str("destination", destination).Msg("travel time lookup failed")
		return 0, classify(err)
	}
	if d < 0 {
		return 0, ReasonNoRoute
	}
	return e.toHours(d), ""
}

func (e *Estimator) toHours(d time.Duration) float64 {
	return d.Hours() * e.cfg.SlowTruckFactor
}

func (e *Estimator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.cfg.Timeout)
}

func (e *Estimator) fallback(ctx context.Context, reason, origin, destination string) float64 {
	e.metrics.TravelFallback(reason)
	zerolog.Ctx(ctx).Warn().
		Str("reason", reason).
		Str("origin", origin).
		Str("destination", destination).
		Float64("hours", e.cfg.FallbackHours).
		Msg("travel time fell back")
	return e.cfg.FallbackHours
}

func classify(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	return ReasonBackendError
}
