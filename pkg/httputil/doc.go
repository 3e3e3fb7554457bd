// Package httputil provides shared HTTP helpers for request parsing,
// JSON response writing, and standard middleware.
//
// # Overview
//
// The package centralizes the small amount of HTTP plumbing every
// handler needs so that handlers stay focused on domain logic:
//
//   - WriteJSON, WriteError and friends for consistent response bodies
//   - ParseQueryInt, ParseQueryDate, ParseQueryList for query parameters
//   - RequestIDMiddleware, LoggingMiddleware, RecoveryMiddleware for the
//     standard middleware chain
//
// # Usage Example
//
//	r := mux.NewRouter()
//	r.Use(httputil.RequestIDMiddleware)
//	r.Use(httputil.LoggingMiddleware(logger))
//	r.Use(httputil.RecoveryMiddleware(logger))
//
//	r.HandleFunc("/thing", func(w http.ResponseWriter, req *http.Request) {
//		top, err := httputil.ParseQueryInt(req, "top", 10)
//		if err != nil {
//			httputil.WriteBadRequest(w, err)
//			return
//		}
//		httputil.WriteJSON(w, http.StatusOK, result)
//	})
//
// # Related Packages
//
//   - pkg/api: the analytics HTTP handlers built on these helpers
//   - pkg/observability: logger and request-ID context plumbing
package httputil
