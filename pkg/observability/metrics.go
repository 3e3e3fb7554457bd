package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Dataset metrics
	DatasetRows          prometheus.Gauge
	DatasetRefreshTotal  *prometheus.CounterVec
	DatasetRefreshedAt   prometheus.Gauge

	// Engine metrics
	ComputationsTotal   *prometheus.CounterVec
	ComputationDuration *prometheus.HistogramVec

	// Result cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regipulse_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "regipulse_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		DatasetRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "regipulse_dataset_rows",
				Help: "Number of registration events in the active dataset",
			},
		),
		DatasetRefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regipulse_dataset_refresh_total",
				Help: "Dataset refresh attempts by outcome",
			},
			[]string{"status"},
		),
		DatasetRefreshedAt: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "regipulse_dataset_refreshed_at_seconds",
				Help: "Unix timestamp of the last successful dataset refresh",
			},
		),
		ComputationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regipulse_computations_total",
				Help: "Analytics engine computations by operation",
			},
			[]string{"operation"},
		),
		ComputationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "regipulse_computation_duration_seconds",
				Help:    "Analytics engine computation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "regipulse_result_cache_hits_total",
				Help: "Result cache hits",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "regipulse_result_cache_misses_total",
				Help: "Result cache misses",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DatasetRows,
		m.DatasetRefreshTotal,
		m.DatasetRefreshedAt,
		m.ComputationsTotal,
		m.ComputationDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Handler returns an HTTP handler exposing the registry in Prometheus format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveComputation records one engine computation
func (m *Metrics) ObserveComputation(operation string, duration time.Duration) {
	m.ComputationsTotal.WithLabelValues(operation).Inc()
	m.ComputationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordDatasetRefresh records a refresh attempt and, on success, the
// dataset size and timestamp
func (m *Metrics) RecordDatasetRefresh(rows int, err error) {
	if err != nil {
		m.DatasetRefreshTotal.WithLabelValues("error").Inc()
		return
	}
	m.DatasetRefreshTotal.WithLabelValues("success").Inc()
	m.DatasetRows.Set(float64(rows))
	m.DatasetRefreshedAt.Set(float64(time.Now().Unix()))
}

// Middleware instruments an HTTP handler with request counts and latency
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		m.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rw.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration.Seconds())
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
