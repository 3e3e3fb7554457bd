// Package observability provides structured logging, Prometheus metrics,
// health probes, and graceful shutdown for the analytics service.
//
// # Overview
//
// This package centralizes observability infrastructure: JSON logging on
// stdlib slog, metrics for the HTTP surface and the analytics engine, and
// liveness/readiness probes driven by dataset availability.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("rows", len(table)).Info("dataset refreshed")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.ComputationsTotal.WithLabelValues("growth").Inc()
//	metrics.DatasetRows.Set(float64(len(table)))
//
// # Related Packages
//
//   - pkg/config: Supplies log level and metrics settings
//   - pkg/api: Wraps handlers with the metrics middleware
package observability
