package traveltime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/ports"
)

type MockPair struct {
	From, To string
	Duration time.Duration
}

// MockSource is an in-memory TravelTimeSource. Unknown pairs return an error.
type MockSource struct {
	mu    sync.Mutex
	m     map[ports.Leg]time.Duration
	Err   error
	Delay time.Duration
	calls int
}

func NewMockSource(pairs []MockPair) *MockSource {
	m := make(map[ports.Leg]time.Duration, len(pairs))
	for _, p := range pairs {
		m[ports.Leg{Origin: p.From, Destination: p.To}] = p.Duration
	}
	return &MockSource{m: m}
}

func (s *MockSource) TravelTime(ctx context.Context, origin, destination string) (time.Duration, error) {
	s.mu.Lock()
	s.calls++
	d, ok := s.m[ports.Leg{Origin: origin, Destination: destination}]
	err, delay := s.Err, s.Delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("missing pair %q -> %q", origin, destination)
	}
	return d, nil
}

// Calls returns the number of lookups served so far.
func (s *MockSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// MockMatrixSource adds batched lookups to MockSource.
type MockMatrixSource struct {
	*MockSource
	mu      sync.Mutex
	batches int
}

func NewMockMatrixSource(pairs []MockPair) *MockMatrixSource {
	return &MockMatrixSource{MockSource: NewMockSource(pairs)}
}

func (s *MockMatrixSource) TravelTimes(ctx context.Context, legs []ports.Leg) (map[ports.Leg]time.Duration, error) {
	s.mu.Lock()
	s.batches++
	s.mu.Unlock()

	out := make(map[ports.Leg]time.Duration, len(legs))
	for _, l := range legs {
		d, err := s.TravelTime(ctx, l.Origin, l.Destination)
		if err != nil {
			if s.Err != nil {
				return nil, err
			}
			continue
		}
		out[l] = d
	}
	return out, nil
}

func (s *MockMatrixSource) Batches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches
}

// MockProvider is a TravelTimeProvider with fixed answers in hours.
type MockProvider struct {
	Hours          map[ports.Leg]float64
	Fallback       float64
	RoundTripHours float64
}

func (p *MockProvider) TravelTime(_ context.Context, origin, destination string) float64 {
	if h, ok := p.Hours[ports.Leg{Origin: origin, Destination: destination}]; ok {
		return h
	}
	return p.Fallback
}

func (p *MockProvider) RoundTripToDisposal(context.Context, domain.ServiceRequest) float64 {
	return p.RoundTripHours
}
