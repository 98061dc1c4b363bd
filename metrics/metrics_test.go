package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("test")
	m.ObserveRequest("/api/v1/prediction", 200)
	m.ObserveRequest("/api/v1/prediction", 200)
	m.ObserveRequest("", 404)
	m.UpstreamFailed("yahoo")
	m.Superseded()
	m.SignalServed("BUY")
	m.SignalServed("")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/v1/prediction", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamFailures.WithLabelValues("yahoo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SupersededTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SignalsTotal))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/x", 200)
		m.ObservePrediction("Stock", 0.1)
		m.UpstreamFailed("model")
		m.Superseded()
		m.SignalServed("HOLD")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("")
	m.ObservePrediction("Crypto", 0.2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "quantmind_prediction_duration_seconds")
}
