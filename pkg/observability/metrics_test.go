package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveComputation(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveComputation("growth", 5*time.Millisecond)
	m.ObserveComputation("growth", 5*time.Millisecond)
	m.ObserveComputation("insights", 5*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ComputationsTotal.WithLabelValues("growth")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ComputationsTotal.WithLabelValues("insights")))
}

func TestRecordDatasetRefresh(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordDatasetRefresh(663, nil)
	assert.Equal(t, float64(663), testutil.ToFloat64(m.DatasetRows))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatasetRefreshTotal.WithLabelValues("success")))

	m.RecordDatasetRefresh(0, errors.New("unreachable"))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatasetRefreshTotal.WithLabelValues("error")))
	assert.Equal(t, float64(663), testutil.ToFloat64(m.DatasetRows), "failed refresh keeps the last good size")
}

func TestHTTPMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/overview", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/analytics/overview", "418")))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.DatasetRows.Set(12)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "regipulse_dataset_rows 12")
}
