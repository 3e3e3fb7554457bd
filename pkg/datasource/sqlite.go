package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/regipulse/regipulse/pkg/registrations"
)

// SQLite reads registration events from a local SQLite database. The
// expected schema is a registrations table with date (TEXT, ISO-8601),
// category, manufacturer, and count columns.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite provider for the given database path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Fetch implements Provider.
func (s *SQLite) Fetch(ctx context.Context) (registrations.Table, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, category, manufacturer, count
		FROM registrations
		ORDER BY date, category, manufacturer
	`)
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	var raw registrations.Table
	for rows.Next() {
		var dateStr, category, manufacturer string
		var count int64
		if err := rows.Scan(&dateStr, &category, &manufacturer, &count); err != nil {
			return nil, fmt.Errorf("scan registration row: %w", err)
		}

		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", dateStr, err)
		}
		raw = append(raw, registrations.Event{
			Date:         date,
			Category:     registrations.Category(category),
			Manufacturer: manufacturer,
			Count:        count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}

	return registrations.Clean(raw), nil
}
