package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snow-route-pricing/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 120*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, BackendNone, cfg.TravelTime.Backend)
	assert.Equal(t, 0.25, cfg.TravelTime.FallbackHours)
	assert.Equal(t, 1.10, cfg.TravelTime.SlowTruckFactor)
	assert.Equal(t, 0.95, cfg.TravelTime.FixedRoundTripHours)
	assert.Equal(t, 5*time.Second, cfg.TravelTime.Timeout)
	assert.Equal(t, 168*time.Hour, cfg.Cache.RedisTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "DEV")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("TRAVEL_BACKEND", "ORS")
	t.Setenv("ORS_API_KEY", "k")
	t.Setenv("DISPOSAL_SITE_ADDRESS", "1 Dump Rd")
	t.Setenv("TRAVEL_TIMEOUT", "750ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, BackendORS, cfg.TravelTime.Backend)
	assert.Equal(t, "1 Dump Rd", cfg.TravelTime.DisposalSite)
	assert.Equal(t, 750*time.Millisecond, cfg.TravelTime.Timeout)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RATE_CARD_PATH=cards/winter.yaml\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("RATE_CARD_PATH") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cards/winter.yaml", cfg.RateCardPath)
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"google without key", map[string]string{"TRAVEL_BACKEND": "google"}},
		{"ors without key", map[string]string{"TRAVEL_BACKEND": "ors"}},
		{"unknown backend", map[string]string{"TRAVEL_BACKEND": "osrm"}},
		{"negative fallback", map[string]string{"TRAVEL_FALLBACK_HOURS": "-1"}},
		{"zero slow factor", map[string]string{"TRAVEL_SLOW_TRUCK_FACTOR": "0"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRateCardDefaults(t *testing.T) {
	rc, err := LoadRateCard("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRateCard(), rc)
}

func TestLoadRateCardYAMLMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.yaml")
	data := `equipment:
  loader: 175
season:
  minimum_billable_cost: 700
  events_per_trigger:
    3cm: 25
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	rc, err := LoadRateCard(path)
	require.NoError(t, err)

	assert.Equal(t, 175.0, rc.Equipment.Loader)
	assert.Equal(t, 110.0, rc.Equipment.SkidSteer, "unset keys keep defaults")
	assert.Equal(t, 700.0, rc.Season.MinimumBillableCost)
	assert.Equal(t, 25, rc.EventsPerSeason(domain.Trigger3cm))
	assert.Equal(t, 16, rc.EventsPerSeason(domain.Trigger5cm))
}

func TestLoadRateCardJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"throughput":{"shovel_crew":2500}}`), 0o644))

	rc, err := LoadRateCard(path)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, rc.Throughput.ShovelCrew)
}

func TestLoadRateCardEnvOverrides(t *testing.T) {
	t.Setenv("RATECARD_SEASON__TRUCK_CAPACITY_M3", "20")
	t.Setenv("RATECARD_EQUIPMENT__DUMP_TRUCK", "140.5")

	rc, err := LoadRateCard("")
	require.NoError(t, err)
	assert.Equal(t, 20.0, rc.Season.TruckCapacityM3)
	assert.Equal(t, 140.5, rc.Equipment.DumpTruck)
}

func TestLoadRateCardRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.yaml")
	require.NoError(t, os.WriteFile(path, []byte("season:\n  truck_capacity_m3: 0\n"), 0o644))

	_, err := LoadRateCard(path)
	assert.ErrorContains(t, err, "truck_capacity_m3")
}

func TestLoadRateCardUnsupportedFormat(t *testing.T) {
	_, err := LoadRateCard("card.toml")
	assert.Error(t, err)
}

func TestLoadRateCardMissingFile(t *testing.T) {
	_, err := LoadRateCard(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
