package ors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	maxAttempts = 4
	// maxRetryAfter caps a server-supplied Retry-After so one quote never stalls for minutes.
	maxRetryAfter = 5 * time.Second
)

// transientStatus lists responses worth another attempt.
var transientStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

type httpStatusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("ors: status %d: %s", e.Code, e.Body)
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		return transientStatus[he.Code]
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func (s *Source) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	h := req.Header
	h.Set("Authorization", s.apiKey)
	h.Set("Accept", "application/json")
	if body != nil {
		h.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send performs one attempt. Non-2xx responses become *httpStatusError with
// the body drained and closed.
func (s *Source) send(req *http.Request) (*http.Response, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return nil, &httpStatusError{
		Code:       resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// parseRetryAfter accepts the delay-seconds form only.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter)
}

// doWithRetry retries transient failures with exponential backoff, honouring
// Retry-After when the server sends a longer delay. makeReq is called per
// attempt so request bodies are fresh.
func (s *Source) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	wait := s.backoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}
		resp, err := s.send(req)
		if err == nil {
			return resp, nil
		}
		if attempt == maxAttempts || !retryable(err) {
			return nil, err
		}

		delay := wait
		var he *httpStatusError
		if errors.As(err, &he) && he.RetryAfter > delay {
			delay = he.RetryAfter
		}
		s.log.Debug().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("retrying ORS request")

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
}
