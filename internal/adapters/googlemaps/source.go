package googlemaps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"googlemaps.github.io/maps"

	"snow-route-pricing/internal/platform/obs"
)

// Source implements ports.TravelTimeSource with the Google Directions API.
type Source struct {
	client *maps.Client
	region string
}

type config struct {
	baseURL    string
	region     string
	httpClient *http.Client
}

type Option func(*config)

func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = u }
}

// WithRegion biases address resolution to a ccTLD region code, e.g. "ca".
func WithRegion(r string) Option {
	return func(c *config) { c.region = r }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *config) { c.httpClient = h }
}

func NewSource(apiKey string, opts ...Option) (*Source, error) {
	if apiKey == "" {
		return nil, errors.New("new google maps source: api key is empty")
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, maps.WithHTTPClient(cfg.httpClient))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("new google maps source: %w", err)
	}
	return &Source{client: client, region: cfg.region}, nil
}

// TravelTime returns the driving duration of the first suggested route,
// summed over its legs.
func (s *Source) TravelTime(ctx context.Context, origin, destination string) (_ time.Duration, err error) {
	defer obs.Time(ctx, "googlemaps.TravelTime")(&err)

	if origin == "" || destination == "" {
		return 0, errors.New("google travel time: origin and destination must be non-empty")
	}

	req := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Region:      s.region,
	}

	routes, _, err := s.client.Directions(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("google directions %q -> %q: %w", origin, destination, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, fmt.Errorf("google directions %q -> %q: no route found", origin, destination)
	}

	var total time.Duration
	for _, leg := range routes[0].Legs {
		total += leg.Duration
	}
	return total, nil
}
