package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"snow-route-pricing/internal/api/handlers"
	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/platform/obs"
	"snow-route-pricing/internal/ports"
)

type Deps struct {
	RateCard domain.RateCard
	// Provider may be nil; round trips and travel then use the card's fallbacks.
	Provider ports.TravelTimeProvider
	Logger   zerolog.Logger
	Metrics  *obs.Metrics
	// Gatherer backs /metrics. Nil means the default gatherer.
	Gatherer prometheus.Gatherer
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	quotes := &handlers.QuoteHandler{RateCard: d.RateCard, Provider: d.Provider}
	card := &handlers.RateCardHandler{RateCard: d.RateCard}

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/rate-card", card.Get)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/quotes/location", quotes.Location)
	mux.HandleFunc("/quotes/route", quotes.Route)
	mux.HandleFunc("/quotes/route/export", quotes.Export)

	return requestContext(d.Logger, d.Metrics, loggingMiddleware(d.Metrics, mux))
}
