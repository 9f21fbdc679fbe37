package ors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/platform/obs"
	"snow-route-pricing/internal/ports"
)

const defaultBaseURL = "https://api.openrouteservice.org"

// Source implements ports.TravelTimeMatrixSource using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Geocode caching
//   - One matrix request per batch of legs
//   - External API calls with retry/backoff
//
// The source is safe for concurrent use.
type Source struct {
	client   *http.Client
	apiKey   string
	baseURL  string
	profile  string
	country  string
	geocodes ports.GeocodeCache
	log      zerolog.Logger
	backoff  time.Duration
}

type Option func(*Source)

func WithBaseURL(u string) Option {
	return func(s *Source) { s.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) { s.client = c }
}

// WithProfile selects the ORS routing profile, e.g. driving-car.
func WithProfile(p string) Option {
	return func(s *Source) { s.profile = p }
}

// WithCountry restricts geocoding to one ISO country code.
func WithCountry(c string) Option {
	return func(s *Source) { s.country = c }
}

func WithGeocodeCache(c ports.GeocodeCache) Option {
	return func(s *Source) { s.geocodes = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Source) { s.log = l }
}

func NewSource(apiKey string, opts ...Option) (*Source, error) {
	if apiKey == "" {
		return nil, errors.New("new ORS source: api key is empty")
	}

	s := &Source{
		client:  &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		profile: "driving-hgv",
		log:     zerolog.Nop(),
		backoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TravelTime delegates to the batched path to reuse caching and matrix logic.
func (s *Source) TravelTime(ctx context.Context, origin, destination string) (time.Duration, error) {
	leg := ports.Leg{Origin: origin, Destination: destination}
	got, err := s.TravelTimes(ctx, []ports.Leg{leg})
	if err != nil {
		return 0, fmt.Errorf("ORS travel time %q -> %q: %w", origin, destination, err)
	}

	d, ok := got[leg]
	if !ok {
		return 0, fmt.Errorf("ORS travel time: no route for %q -> %q", origin, destination)
	}
	return d, nil
}

// TravelTimes resolves every leg with a single matrix request. Legs with an
// empty address are skipped; legs whose endpoints normalize to the same
// address take zero time.
func (s *Source) TravelTimes(ctx context.Context, legs []ports.Leg) (_ map[ports.Leg]time.Duration, err error) {
	defer obs.Time(ctx, "ors.TravelTimes")(&err)

	out := make(map[ports.Leg]time.Duration, len(legs))

	type normLeg struct {
		leg      ports.Leg
		from, to string
	}
	pending := make([]normLeg, 0, len(legs))
	for _, l := range legs {
		from, to := normalize(l.Origin), normalize(l.Destination)
		if from == "" || to == "" {
			continue
		}
		if from == to {
			out[l] = 0
			continue
		}
		pending = append(pending, normLeg{leg: l, from: from, to: to})
	}
	if len(pending) == 0 {
		return out, nil
	}

	// Index unique origins and destinations separately so the matrix only
	// computes the rows and columns it needs.
	addrIdx := map[string]int{}
	addresses := []string{}
	indexOf := func(a string) int {
		if i, ok := addrIdx[a]; ok {
			return i
		}
		addrIdx[a] = len(addresses)
		addresses = append(addresses, a)
		return addrIdx[a]
	}

	srcPos, dstPos := map[int]int{}, map[int]int{}
	sources, destinations := []int{}, []int{}
	for _, p := range pending {
		oi, di := indexOf(p.from), indexOf(p.to)
		if _, ok := srcPos[oi]; !ok {
			srcPos[oi] = len(sources)
			sources = append(sources, oi)
		}
		if _, ok := dstPos[di]; !ok {
			dstPos[di] = len(destinations)
			destinations = append(destinations, di)
		}
	}

	coords, err := s.resolveCoordinates(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	locations := make([]domain.Coordinates, len(addresses))
	for i, a := range addresses {
		c, ok := coords[a]
		if !ok {
			return nil, fmt.Errorf("missing coordinate for %q", a)
		}
		locations[i] = c
	}

	durations, err := s.fetchMatrix(ctx, locations, sources, destinations)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix: %w", err)
	}

	for _, p := range pending {
		d := durations[srcPos[addrIdx[p.from]]][dstPos[addrIdx[p.to]]]
		if d == nil {
			continue
		}
		out[p.leg] = time.Duration(*d * float64(time.Second))
	}
	return out, nil
}

// resolveCoordinates answers from the geocode cache first and geocodes the
// rest. Cache failures are logged and never fail the lookup.
func (s *Source) resolveCoordinates(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	hits := map[string]domain.Coordinates{}
	if s.geocodes != nil {
		cached, err := s.geocodes.GetMany(ctx, addresses)
		if err != nil {
			s.log.Warn().Err(err).Msg("geocode cache read failed")
		} else {
			hits = cached
		}
	}

	misses := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if _, ok := hits[a]; !ok {
			misses = append(misses, a)
		}
	}
	if len(misses) == 0 {
		return hits, nil
	}

	fresh, err := s.geocodeMany(ctx, misses)
	if err != nil {
		return nil, err
	}

	if s.geocodes != nil && len(fresh) > 0 {
		if err := s.geocodes.PutMany(ctx, fresh); err != nil {
			s.log.Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	out := make(map[string]domain.Coordinates, len(hits)+len(fresh))
	for k, v := range hits {
		out[k] = v
	}
	for k, v := range fresh {
		out[k] = v
	}
	return out, nil
}
