// Package analytics computes growth metrics and market insights over a
// vehicle-registration event table.
//
// # Overview
//
// Every operation is a pure function of its input table and explicit
// parameters: the package holds no state between calls and the same input
// always produces the same output. Callers may run any operation
// concurrently; memoization, when wanted, belongs to the caller (see
// pkg/resultcache).
//
// # Operations
//
// Period growth:
//   - AggregateGrowth groups events by (dimensions, year, quarter), sums the
//     value column, and derives year-over-year and quarter-over-quarter
//     growth per dimension-value sequence after an explicit sort by
//     (year, quarter).
//
// Market composition:
//   - MarketComposition computes per-category market share, the top-N
//     manufacturers by volume, and the top-5 concentration ratio.
//
// Seasonality:
//   - Seasonality averages registration counts per calendar month across all
//     years and identifies the peak and low months.
//
// Insights:
//   - DeriveInsights composes the above into an ordered list of textual
//     findings: market leadership, growth leader, market concentration,
//     seasonality.
//
// # Growth Semantics
//
// Growth values are percentages carried as *float64; nil means undefined.
// A growth value is undefined for the first record of a sequence, when no
// matching prior-year quarter exists, and when the denominator is zero.
// Undefined values are never reported as 0, NaN, or Inf.
//
// # Usage Example
//
//	records, err := analytics.AggregateGrowth(table, []string{analytics.DimensionCategory}, "")
//	if err != nil {
//		return err
//	}
//	for _, rec := range records {
//		if rec.YoYGrowth != nil {
//			fmt.Printf("%s %d-Q%d: %.1f%% YoY\n",
//				rec.Dimensions[analytics.DimensionCategory], rec.Year, rec.Quarter, *rec.YoYGrowth)
//		}
//	}
//
// # Related Packages
//
//   - pkg/registrations: Input table model
//   - pkg/resultcache: Caller-owned memoization of results
package analytics
