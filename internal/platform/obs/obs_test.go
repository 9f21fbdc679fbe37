package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "prod", "api")

	log.Info().Str("k", "v").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "api", entry["component"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "v", entry["k"])
}

func TestNewLoggerDevUsesConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "DEV", "cli")

	log.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()), "dev output should not be JSON")
}

func TestNewMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	first.TravelFallback("timeout")
	second.TravelFallback("timeout")
	second.TravelFallback("no_address")

	expected := `
# HELP travel_time_fallbacks_total Travel-time lookups answered with the fallback duration
# TYPE travel_time_fallbacks_total counter
travel_time_fallbacks_total{reason="no_address"} 1
travel_time_fallbacks_total{reason="timeout"} 2
`
	assert.NoError(t, testutil.CollectAndCompare(first.travelFallbacks, strings.NewReader(expected)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TravelFallback("x")
		m.ObserveOp("op", time.Second)
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}

func TestObserveHTTP(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveHTTP("POST", "/quotes/route", 200, 20*time.Millisecond)
	m.ObserveHTTP("POST", "/quotes/route", 400, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/quotes/route", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))
}

func TestTimeLogsAndObserves(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())
	ctx = WithMetrics(WithRequestID(ctx, "req-1"), m)

	func() (err error) {
		defer Time(ctx, "services.PriceRoute")(&err)
		return errors.New("boom")
	}()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "services.PriceRoute", entry["op"])
	assert.Equal(t, "req-1", entry["req_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, 1, testutil.CollectAndCount(m.opDuration))
}

func TestTimeWithoutLoggerOrMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		Time(context.Background(), "noop")(nil)
	})
}
