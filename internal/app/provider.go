// Package app assembles the travel-time stack shared by the server and the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"snow-route-pricing/internal/adapters/cache"
	"snow-route-pricing/internal/adapters/googlemaps"
	"snow-route-pricing/internal/adapters/ors"
	"snow-route-pricing/internal/adapters/traveltime"
	"snow-route-pricing/internal/config"
	"snow-route-pricing/internal/platform/db"
	"snow-route-pricing/internal/platform/obs"
	"snow-route-pricing/internal/ports"
)

// Provider is the engine-facing travel-time provider plus whatever it holds open.
type Provider struct {
	*traveltime.Estimator

	closers []func() error
}

// Close releases cache connections. Safe to call on a nil Provider.
func (p *Provider) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		errs = append(errs, p.closers[i]())
	}
	return errors.Join(errs...)
}

// NewProvider selects the configured backend, puts the configured cache in
// front of it and wraps the result in an Estimator. Redis wins over Postgres
// when both are configured; Postgres still backs the ORS geocode cache.
func NewProvider(ctx context.Context, cfg *config.Config, log zerolog.Logger, metrics *obs.Metrics) (*Provider, error) {
	p := &Provider{}

	var conn *sql.DB
	if cfg.Cache.DatabaseURL != "" {
		c, err := db.Open(ctx, cfg.Cache.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("new provider: %w", err)
		}
		conn = c
		p.closers = append(p.closers, conn.Close)
	}

	source, err := newSource(cfg.TravelTime, conn, log)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("new provider: %w", err)
	}

	if source != nil {
		var ttCache ports.TravelTimeCache
		switch {
		case cfg.Cache.RedisAddr != "":
			client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
			p.closers = append(p.closers, client.Close)
			ttCache = cache.NewRedisTravelTimeCache(client, cfg.Cache.RedisTTL)
			log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("travel time cache: redis")
		case conn != nil:
			ttCache = cache.NewSQLTravelTimeCache(conn)
			log.Info().Msg("travel time cache: postgres")
		}
		if ttCache != nil {
			source = traveltime.NewCachedSource(source, ttCache)
		}
	}

	tt := cfg.TravelTime
	p.Estimator = traveltime.NewEstimator(source, traveltime.Config{
		FallbackHours:       tt.FallbackHours,
		SlowTruckFactor:     tt.SlowTruckFactor,
		Timeout:             tt.Timeout,
		DisposalSite:        tt.DisposalSite,
		FixedRoundTripHours: tt.FixedRoundTripHours,
	}, metrics)
	return p, nil
}

// newSource returns nil for the "none" backend.
func newSource(tt config.TravelTimeConfig, conn *sql.DB, log zerolog.Logger) (ports.TravelTimeSource, error) {
	switch tt.Backend {
	case config.BackendGoogle:
		var opts []googlemaps.Option
		if tt.GoogleRegion != "" {
			opts = append(opts, googlemaps.WithRegion(tt.GoogleRegion))
		}
		src, err := googlemaps.NewSource(tt.GoogleAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("travel time backend: google maps")
		return src, nil

	case config.BackendORS:
		opts := []ors.Option{ors.WithLogger(log)}
		if tt.ORSProfile != "" {
			opts = append(opts, ors.WithProfile(tt.ORSProfile))
		}
		if tt.ORSCountry != "" {
			opts = append(opts, ors.WithCountry(tt.ORSCountry))
		}
		if conn != nil {
			opts = append(opts, ors.WithGeocodeCache(cache.NewSQLGeocodeCache(conn)))
		}
		src, err := ors.NewSource(tt.ORSAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		log.Info().Str("profile", tt.ORSProfile).Msg("travel time backend: openrouteservice")
		return src, nil

	default:
		log.Info().Msg("travel time backend: none, using fallback durations")
		return nil, nil
	}
}
