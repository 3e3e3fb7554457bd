// Package api implements the HTTP analytics API.
//
// # Overview
//
// The Server holds an in-memory snapshot of the registration dataset,
// refreshed from a datasource.Provider, and exposes analytics endpoints
// under /api/v1/analytics:
//
//   - overview: KPI summary (totals, leading category, year-over-year growth)
//   - growth: quarterly aggregates with YoY/QoQ deltas per dimension group
//   - composition: category shares and the top-manufacturer ranking
//   - seasonality: per-calendar-month averages with peak and low months
//   - insights: the ordered narrative findings
//
// All endpoints accept the shared filter parameters from, to, categories
// and manufacturers. Results are memoized per dataset fingerprint through
// pkg/resultcache, so repeated queries against an unchanged dataset skip
// recomputation.
//
// # Usage Example
//
//	server := api.NewServer(datasource.NewSynthetic(), nil, logger, metrics)
//	if err := server.Refresh(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	r := mux.NewRouter()
//	server.RegisterRoutes(r)
//
// # Related Packages
//
//   - pkg/analytics: the computation engine behind every endpoint
//   - pkg/datasource: dataset providers
//   - pkg/resultcache: result memoization
//   - pkg/httputil: response helpers and middleware
package api
