// Package report renders plain-text analytics reports.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/regipulse/regipulse/pkg/analytics"
	"github.com/regipulse/regipulse/pkg/registrations"
)

// topManufacturerLines caps the manufacturer section of the report.
const topManufacturerLines = 5

// Writer renders text reports over a registration table.
type Writer struct {
	// Now supplies the generation timestamp, defaulting to time.Now.
	// Tests pin it for stable output.
	Now func() time.Time
}

// Write renders the full analytics report for table to w.
func (rw *Writer) Write(w io.Writer, table registrations.Table) error {
	comp, err := analytics.MarketComposition(table, topManufacturerLines)
	if err != nil {
		return fmt.Errorf("computing market composition: %w", err)
	}
	findings, err := analytics.DeriveInsights(table)
	if err != nil {
		return fmt.Errorf("deriving insights: %w", err)
	}

	var b strings.Builder
	b.WriteString("VEHICLE REGISTRATION ANALYTICS REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("KEY METRICS:\n")
	fmt.Fprintf(&b, "Total Registrations: %s\n", formatCount(comp.TotalRegistrations))

	b.WriteString("\nMarket Share by Category:\n")
	for _, category := range sortedCategories(comp.CategoryShares) {
		fmt.Fprintf(&b, "  %s: %.1f%%\n", category, comp.CategoryShares[category])
	}

	b.WriteString("\nTop Manufacturers:\n")
	for _, m := range comp.TopManufacturers {
		fmt.Fprintf(&b, "  %s: %s\n", m.Manufacturer, formatCount(m.Registrations))
	}

	b.WriteString("\nKEY FINDINGS:\n")
	for _, finding := range findings {
		fmt.Fprintf(&b, "- %s\n", finding)
	}

	now := time.Now
	if rw.Now != nil {
		now = rw.Now
	}
	fmt.Fprintf(&b, "\nReport generated on: %s\n", now().Format("2006-01-02 15:04:05"))

	_, err = io.WriteString(w, b.String())
	return err
}

func sortedCategories(shares map[registrations.Category]float64) []registrations.Category {
	out := make([]registrations.Category, 0, len(shares))
	for category := range shares {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// formatCount renders an integer with thousands separators.
func formatCount(n int64) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return "-" + formatCount(-n)
	}
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
