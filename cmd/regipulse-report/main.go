// Command regipulse-report generates a one-off analytics report from any
// supported data source and writes it to a file or stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/regipulse/regipulse/pkg/datasource"
	"github.com/regipulse/regipulse/pkg/registrations"
	"github.com/regipulse/regipulse/pkg/report"
)

var (
	source        = flag.String("source", "synthetic", "Data source: synthetic, csv, sqlite or vahan")
	sourcePath    = flag.String("path", "", "Data file for the csv and sqlite sources")
	output        = flag.String("output", "vehicle_insights_report.txt", "Output file, - for stdout")
	from          = flag.String("from", "", "Start date filter (YYYY-MM-DD)")
	to            = flag.String("to", "", "End date filter (YYYY-MM-DD)")
	categories    = flag.String("categories", "", "Comma-separated category filter (2W, 3W, 4W)")
	manufacturers = flag.String("manufacturers", "", "Comma-separated manufacturer filter")
	timeout       = flag.Duration("timeout", time.Minute, "Fetch timeout")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	provider, closeProvider, err := buildProvider()
	if err != nil {
		return err
	}
	if closeProvider != nil {
		defer closeProvider()
	}

	filter, err := buildFilter()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	table, err := provider.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetching data: %w", err)
	}
	if !filter.IsZero() {
		table = filter.Apply(table)
	}

	var w io.Writer = os.Stdout
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *output, err)
		}
		defer f.Close()
		w = f
	}

	writer := &report.Writer{}
	if err := writer.Write(w, table); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if *output != "-" {
		fmt.Printf("Report exported to %s\n", *output)
	}
	return nil
}

func buildProvider() (datasource.Provider, func() error, error) {
	switch *source {
	case "synthetic":
		return datasource.NewSynthetic(), nil, nil
	case "csv":
		if *sourcePath == "" {
			return nil, nil, fmt.Errorf("-path is required for the csv source")
		}
		return datasource.NewCSV(*sourcePath), nil, nil
	case "sqlite":
		if *sourcePath == "" {
			return nil, nil, fmt.Errorf("-path is required for the sqlite source")
		}
		db, err := datasource.OpenSQLite(*sourcePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case "vahan":
		return datasource.NewVahanClient(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown source: %q", *source)
	}
}

func buildFilter() (registrations.Filter, error) {
	var filter registrations.Filter
	var err error

	if *from != "" {
		if filter.From, err = time.Parse("2006-01-02", *from); err != nil {
			return filter, fmt.Errorf("invalid -from date: %w", err)
		}
	}
	if *to != "" {
		if filter.To, err = time.Parse("2006-01-02", *to); err != nil {
			return filter, fmt.Errorf("invalid -to date: %w", err)
		}
	}

	for _, raw := range splitList(*categories) {
		category, err := registrations.ParseCategory(raw)
		if err != nil {
			return filter, err
		}
		filter.Categories = append(filter.Categories, category)
	}
	filter.Manufacturers = splitList(*manufacturers)

	return filter, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
