package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Travel-time backends.
const (
	BackendNone   = "none"
	BackendGoogle = "google"
	BackendORS    = "ors"
)

type HTTPConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type TravelTimeConfig struct {
	Backend      string
	GoogleAPIKey string
	GoogleRegion string
	ORSAPIKey    string
	ORSProfile   string
	ORSCountry   string

	DisposalSite        string
	FallbackHours       float64
	SlowTruckFactor     float64
	FixedRoundTripHours float64
	Timeout             time.Duration
}

type CacheConfig struct {
	DatabaseURL string
	RedisAddr   string
	RedisTTL    time.Duration
}

type Config struct {
	Environment  string
	HTTP         HTTPConfig
	Cache        CacheConfig
	TravelTime   TravelTimeConfig
	RateCardPath string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "production")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("HTTP_READ_TIMEOUT", "10s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "120s")
	v.SetDefault("REDIS_TTL", "168h")
	v.SetDefault("TRAVEL_BACKEND", BackendNone)
	v.SetDefault("ORS_PROFILE", "driving-hgv")
	v.SetDefault("TRAVEL_FALLBACK_HOURS", 0.25)
	v.SetDefault("TRAVEL_SLOW_TRUCK_FACTOR", 1.10)
	v.SetDefault("HAULING_FIXED_ROUND_TRIP_HOURS", 0.95)
	v.SetDefault("TRAVEL_TIMEOUT", "5s")

	cfg := &Config{
		Environment: strings.ToLower(v.GetString("APP_ENV")),
		HTTP: HTTPConfig{
			Addr:         v.GetString("HTTP_ADDR"),
			ReadTimeout:  v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("HTTP_WRITE_TIMEOUT"),
		},
		Cache: CacheConfig{
			DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),
			RedisAddr:   strings.TrimSpace(v.GetString("REDIS_ADDR")),
			RedisTTL:    v.GetDuration("REDIS_TTL"),
		},
		TravelTime: TravelTimeConfig{
			Backend:             strings.ToLower(strings.TrimSpace(v.GetString("TRAVEL_BACKEND"))),
			GoogleAPIKey:        v.GetString("GOOGLE_MAPS_API_KEY"),
			GoogleRegion:        v.GetString("GOOGLE_MAPS_REGION"),
			ORSAPIKey:           v.GetString("ORS_API_KEY"),
			ORSProfile:          v.GetString("ORS_PROFILE"),
			ORSCountry:          v.GetString("ORS_COUNTRY"),
			DisposalSite:        v.GetString("DISPOSAL_SITE_ADDRESS"),
			FallbackHours:       v.GetFloat64("TRAVEL_FALLBACK_HOURS"),
			SlowTruckFactor:     v.GetFloat64("TRAVEL_SLOW_TRUCK_FACTOR"),
			FixedRoundTripHours: v.GetFloat64("HAULING_FIXED_ROUND_TRIP_HOURS"),
			Timeout:             v.GetDuration("TRAVEL_TIMEOUT"),
		},
		RateCardPath: v.GetString("RATE_CARD_PATH"),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	var errs []error

	tt := cfg.TravelTime
	switch tt.Backend {
	case BackendNone:
	case BackendGoogle:
		if tt.GoogleAPIKey == "" {
			errs = append(errs, errors.New("GOOGLE_MAPS_API_KEY is required for the google backend"))
		}
	case BackendORS:
		if tt.ORSAPIKey == "" {
			errs = append(errs, errors.New("ORS_API_KEY is required for the ors backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("TRAVEL_BACKEND must be one of none, google, ors (got %q)", tt.Backend))
	}

	if tt.FallbackHours < 0 {
		errs = append(errs, fmt.Errorf("TRAVEL_FALLBACK_HOURS must not be negative (got %v)", tt.FallbackHours))
	}
	if tt.SlowTruckFactor <= 0 {
		errs = append(errs, fmt.Errorf("TRAVEL_SLOW_TRUCK_FACTOR must be positive (got %v)", tt.SlowTruckFactor))
	}
	if tt.FixedRoundTripHours < 0 {
		errs = append(errs, fmt.Errorf("HAULING_FIXED_ROUND_TRIP_HOURS must not be negative (got %v)", tt.FixedRoundTripHours))
	}
	if cfg.HTTP.Addr == "" {
		errs = append(errs, errors.New("HTTP_ADDR must not be empty"))
	}

	return errors.Join(errs...)
}
