package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"snow-route-pricing/internal/domain"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type matrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrix returns durations in seconds, indexed [source][destination]
// in the order of sources and destinations. Unroutable pairs are nil.
func (s *Source) fetchMatrix(
	ctx context.Context,
	locations []domain.Coordinates,
	sources []int,
	destinations []int,
) ([][]*float64, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", s.baseURL, s.profile)

	body := matrixRequest{
		Locations:    make([][]float64, 0, len(locations)),
		Sources:      sources,
		Destinations: destinations,
		Metrics:      []string{"duration"},
	}
	for _, c := range locations {
		body.Locations = append(body.Locations, c.CoordsToList())
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := s.doWithRetry(ctx, func() (*http.Request, error) {
		return s.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Durations) != len(sources) {
		return nil, fmt.Errorf("expected %d source rows; got %d", len(sources), len(mr.Durations))
	}
	for i, row := range mr.Durations {
		if len(row) != len(destinations) {
			return nil, fmt.Errorf(
				"row %d length does not match destinations: got %d want %d",
				i, len(row), len(destinations),
			)
		}
	}

	return mr.Durations, nil
}
