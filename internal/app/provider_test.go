package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snow-route-pricing/internal/config"
	"snow-route-pricing/internal/domain"
)

func baseConfig() *config.Config {
	return &config.Config{
		TravelTime: config.TravelTimeConfig{
			Backend:             config.BackendNone,
			FallbackHours:       0.25,
			SlowTruckFactor:     1.1,
			FixedRoundTripHours: 0.95,
			Timeout:             time.Second,
		},
	}
}

func TestNewProviderWithoutBackendFallsBack(t *testing.T) {
	p, err := NewProvider(context.Background(), baseConfig(), zerolog.Nop(), nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 0.25, p.TravelTime(context.Background(), "1 King St", "2 Queen St"))
	req := domain.ServiceRequest{Address: "1 King St", Hauling: domain.Hauling{Enabled: true}}
	assert.Equal(t, 0.95, p.RoundTripToDisposal(context.Background(), req))
}

func TestNewProviderWithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := baseConfig()
	cfg.TravelTime.Backend = config.BackendGoogle
	cfg.TravelTime.GoogleAPIKey = "test-key"
	cfg.Cache.RedisAddr = mr.Addr()
	cfg.Cache.RedisTTL = time.Hour

	p, err := NewProvider(context.Background(), cfg, zerolog.Nop(), nil)
	require.NoError(t, err)
	require.NotNil(t, p.Estimator)
	assert.NoError(t, p.Close())
}

func TestNewProviderORSBackend(t *testing.T) {
	cfg := baseConfig()
	cfg.TravelTime.Backend = config.BackendORS
	cfg.TravelTime.ORSAPIKey = "test-key"
	cfg.TravelTime.ORSProfile = "driving-hgv"

	p, err := NewProvider(context.Background(), cfg, zerolog.Nop(), nil)
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestNewProviderBadDatabaseURL(t *testing.T) {
	cfg := baseConfig()
	cfg.Cache.DatabaseURL = "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"

	_, err := NewProvider(context.Background(), cfg, zerolog.Nop(), nil)
	assert.Error(t, err)
}

func TestCloseNilProvider(t *testing.T) {
	var p *Provider
	assert.NoError(t, p.Close())
}
