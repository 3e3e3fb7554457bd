// Package datasource supplies registration-event tables to the analytics
// engine from synthetic generation, CSV files, SQLite databases, or the
// upstream registration dashboard.
//
// # Overview
//
// Every source implements Provider. Sources return cleaned, validated tables;
// the engine never sees raw labels or malformed rows. The file-backed sources
// can be combined with Watcher to re-fetch when the underlying file changes.
//
// # Usage Example
//
//	provider := datasource.NewCSV("registrations.csv")
//	table, err := provider.Fetch(ctx)
//	if err != nil {
//		return err
//	}
//	findings, err := analytics.DeriveInsights(table)
//
// # Related Packages
//
//   - pkg/registrations: Table model and cleaning
//   - pkg/analytics: Consumes the fetched tables
package datasource
