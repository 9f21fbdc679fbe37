package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"snow-route-pricing/internal/api"
	"snow-route-pricing/internal/app"
	"snow-route-pricing/internal/config"
	"snow-route-pricing/internal/platform/obs"
)

// main is the application composition root.
// It wires the rate card and travel-time adapters behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		l := obs.NewLogger(os.Stderr, "", "server")
		l.Fatal().Err(err).Msg("load config")
	}
	log := obs.NewLogger(os.Stdout, cfg.Environment, "server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		stop()
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	card, err := config.LoadRateCard(cfg.RateCardPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := obs.NewMetrics(reg)
	if err != nil {
		return err
	}

	provider, err := app.NewProvider(log.WithContext(ctx), cfg, log, metrics)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Close(); err != nil {
			log.Warn().Err(err).Msg("close travel time provider")
		}
	}()

	router := api.NewRouter(api.Deps{
		RateCard: card,
		Provider: provider,
		Logger:   log,
		Metrics:  metrics,
		Gatherer: reg,
	})

	// Write timeout covers cold-cache route quotes that wait on the mapping backend.
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Str("backend", cfg.TravelTime.Backend).Msg("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
