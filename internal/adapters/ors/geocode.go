package ors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocodeMany resolves addresses one by one through /geocode/search.
// Addresses are expected to be normalized and unique.
func (s *Source) geocodeMany(ctx context.Context, addresses []string) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		c, err := s.geocode(ctx, a)
		if err != nil {
			return nil, err
		}
		out[a] = c
	}
	return out, nil
}

func (s *Source) geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	endpoint := s.baseURL + "/geocode/search"

	resp, err := s.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := s.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		q.Set("size", "1")
		if s.country != "" {
			q.Set("boundary.country", s.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
