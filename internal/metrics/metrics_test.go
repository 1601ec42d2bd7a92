package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineMetrics(t *testing.T) {
	m := New()

	m.StartBook()
	m.StartBook()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.processInFlight))

	m.FinishBook(OutcomeCompleted, time.Second)
	m.FinishBook(OutcomeFailed, time.Second)
	m.ObserveStage("fetching")

	assert.Equal(t, 0.0, testutil.ToFloat64(m.processInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.processTotal.WithLabelValues(OutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.processTotal.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageTotal.WithLabelValues("fetching")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/library", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `printingpress_http_requests_total{method="GET",path="/api/library",status="200"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.StartBook()
		m.FinishBook(OutcomeCancelled, time.Second)
		m.ObserveStage("queued")
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
