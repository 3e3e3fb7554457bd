package analytics

import (
	"fmt"

	"github.com/regipulse/regipulse/pkg/registrations"
)

// DeriveInsights composes the market metrics into an ordered list of textual
// findings: market leadership, growth leader, market concentration,
// seasonality. The order is fixed so repeated runs over the same table
// produce byte-identical output.
//
// The growth-leader finding is omitted when no YoY growth is computable
// anywhere in the table (single-year data); every other finding is always
// present for a non-empty table. An empty table yields no findings.
func DeriveInsights(table registrations.Table) ([]string, error) {
	if len(table) == 0 {
		return nil, nil
	}

	comp, err := MarketComposition(table, DefaultTopManufacturers)
	if err != nil {
		return nil, err
	}

	growth, err := AggregateGrowth(table, []string{DimensionCategory}, "")
	if err != nil {
		return nil, err
	}

	findings := make([]string, 0, 4)

	leader, leaderShare := dominantCategory(comp.CategoryShares)
	findings = append(findings, fmt.Sprintf(
		"Market Leadership: %s vehicles dominate with %.1f%% market share", leader, leaderShare))

	if name, rate, ok := growthLeader(growth); ok {
		findings = append(findings, fmt.Sprintf(
			"Growth Leader: %s showing strongest YoY growth at %.1f%%", name, rate))
	}

	findings = append(findings, fmt.Sprintf(
		"Market Concentration: Top 5 manufacturers control %.1f%% of the market", comp.ConcentrationRatio))

	season := Seasonality(table)
	findings = append(findings, fmt.Sprintf(
		"Seasonality: Peak registration period is %s", season.PeakMonth))

	return findings, nil
}

// dominantCategory picks the category with the largest share, ties broken by
// category name ascending.
func dominantCategory(shares map[registrations.Category]float64) (registrations.Category, float64) {
	var best registrations.Category
	var bestShare float64
	for _, c := range registrations.Categories() {
		share, ok := shares[c]
		if !ok {
			continue
		}
		if best == "" || share > bestShare {
			best, bestShare = c, share
		}
	}
	return best, bestShare
}

// growthLeader finds the dimension value with the highest YoY growth in the
// most recent year present among the aggregated records. Records with
// undefined growth are excluded; ties break by dimension value ascending.
func growthLeader(records []PeriodRecord) (string, float64, bool) {
	latestYear := 0
	for _, r := range records {
		if r.YoYGrowth != nil && r.Year > latestYear {
			latestYear = r.Year
		}
	}
	if latestYear == 0 {
		return "", 0, false
	}

	var name string
	var rate float64
	found := false
	for _, r := range records {
		if r.Year != latestYear || r.YoYGrowth == nil {
			continue
		}
		value := r.Dimensions[DimensionCategory]
		switch {
		case !found, *r.YoYGrowth > rate:
			name, rate, found = value, *r.YoYGrowth, true
		case *r.YoYGrowth == rate && value < name:
			name = value
		}
	}
	return name, rate, found
}
