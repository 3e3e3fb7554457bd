package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/regipulse/regipulse/pkg/registrations"
)

// CSV reads a flat registration file with a header row containing the
// columns date, category, manufacturer, and count in any order.
type CSV struct {
	Path string
}

// NewCSV creates a CSV provider for the given file path.
func NewCSV(path string) *CSV {
	return &CSV{Path: path}
}

// Fetch implements Provider. The parsed table is cleaned before it is
// returned: duplicates and rows with unmappable categories are dropped.
func (c *CSV) Fetch(ctx context.Context) (registrations.Table, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Path, err)
	}
	defer f.Close()

	table, err := ParseCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.Path, err)
	}
	return table, nil
}

// ParseCSV decodes registration events from CSV data and cleans the result.
func ParseCSV(ctx context.Context, r io.Reader) (registrations.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "category", "manufacturer", "count"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var raw registrations.Table
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		date, err := time.Parse("2006-01-02", record[columns["date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date: %w", line, err)
		}
		count, err := strconv.ParseInt(strings.TrimSpace(record[columns["count"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad count: %w", line, err)
		}

		raw = append(raw, registrations.Event{
			Date:         date,
			Category:     registrations.Category(record[columns["category"]]),
			Manufacturer: record[columns["manufacturer"]],
			Count:        count,
		})
	}

	return registrations.Clean(raw), nil
}
