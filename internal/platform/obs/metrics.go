package obs

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	opDuration      *prometheus.HistogramVec
	travelFallbacks *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg, or on the default registerer
// when reg is nil. Collectors that are already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	opDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "operation_duration_seconds",
		Help:    "Duration of timed internal operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	travelFallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "travel_time_fallbacks_total",
		Help: "Travel-time lookups answered with the fallback duration",
	}, []string{"reason"})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served",
	}, []string{"method", "route", "status"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	var err error
	if opDuration, err = register(reg, opDuration); err != nil {
		return nil, err
	}
	if travelFallbacks, err = register(reg, travelFallbacks); err != nil {
		return nil, err
	}
	if httpRequests, err = register(reg, httpRequests); err != nil {
		return nil, err
	}
	if httpDuration, err = register(reg, httpDuration); err != nil {
		return nil, err
	}

	return &Metrics{
		opDuration:      opDuration,
		travelFallbacks: travelFallbacks,
		httpRequests:    httpRequests,
		httpDuration:    httpDuration,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) ObserveOp(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.opDuration.WithLabelValues(op).Observe(d.Seconds())
}

// TravelFallback counts one travel-time lookup that fell back.
func (m *Metrics) TravelFallback(reason string) {
	if m == nil {
		return
	}
	m.travelFallbacks.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

type metricsKey struct{}

// WithMetrics attaches m to ctx so Time can observe operation durations.
func WithMetrics(ctx context.Context, m *Metrics) context.Context {
	return context.WithValue(ctx, metricsKey{}, m)
}

func metricsFrom(ctx context.Context) *Metrics {
	m, _ := ctx.Value(metricsKey{}).(*Metrics)
	return m
}
