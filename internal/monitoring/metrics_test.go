package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObservePoll("ok")
	m.ObservePoll("ok")
	m.ObservePoll("object_not_found")
	m.ObserveWrite(123.457, 45.1)
	m.ObserveAck()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Polls.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Polls.WithLabelValues("object_not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SerialWrites))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SerialAcks))
	assert.InDelta(t, 123.457, testutil.ToFloat64(m.Azimuth), 1e-9)
	assert.InDelta(t, 45.1, testutil.ToFloat64(m.Altitude), 1e-9)
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	first.ObserveAck()
	assert.Equal(t, 1.0, testutil.ToFloat64(second.SerialAcks))
}

func TestNewMetrics_IncompatibleCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_polls_total",
		Help: "Stellarium object queries, labeled by result.",
	}))

	_, err := NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePoll("ok")
		m.ObserveWrite(1, 2)
		m.ObserveAck()
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	m.ObservePoll("unable_to_parse")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), `tracker_polls_total{result="unable_to_parse"} 1`), "body:\n%s", body)
}
