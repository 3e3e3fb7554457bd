// Package registrations defines the vehicle-registration event model shared by
// the data sources, the analytics engine, and the API layer.
//
// # Overview
//
// A dataset is a flat table of events: one row per (date, category,
// manufacturer) with a non-negative registration count. The package also
// provides cleaning (deduplication, label normalization) and pure filtering
// (date range, category set, manufacturer set) applied before analysis.
//
// # Usage Example
//
// Clean and filter a raw table:
//
//	table := registrations.Clean(raw)
//	filtered := registrations.Filter{
//		From:       time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
//		Categories: []registrations.Category{registrations.CategoryTwoWheeler},
//	}.Apply(table)
//
// # Related Packages
//
//   - pkg/analytics: Consumes tables produced here
//   - pkg/datasource: Produces tables from files, SQLite, or synthetic data
package registrations
