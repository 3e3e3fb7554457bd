package analytics

import (
	"sort"

	"github.com/regipulse/regipulse/pkg/registrations"
)

// DefaultTopManufacturers is the top-N cutoff used when none is requested.
const DefaultTopManufacturers = 10

// concentrationTopN is the fixed group size for the concentration ratio.
const concentrationTopN = 5

// ManufacturerTotal is one entry of the top-manufacturer ranking.
type ManufacturerTotal struct {
	Manufacturer  string `json:"manufacturer"`
	Registrations int64  `json:"registrations"`
}

// Composition describes the market split of a registration table.
type Composition struct {
	TotalRegistrations int64 `json:"total_registrations"`

	// CategoryShares maps each category present to its percentage of the
	// total; shares sum to 100 within floating-point tolerance.
	CategoryShares map[registrations.Category]float64 `json:"category_shares"`

	// TopManufacturers ranks manufacturers by total registrations,
	// descending, ties broken by name ascending.
	TopManufacturers []ManufacturerTotal `json:"top_manufacturers"`

	// ConcentrationRatio is the percentage of the total held by the top
	// five manufacturers.
	ConcentrationRatio float64 `json:"concentration_ratio"`
}

// MarketComposition computes category shares, the top-N manufacturer ranking
// and the top-5 concentration ratio. topN <= 0 selects
// DefaultTopManufacturers.
//
// An empty table yields a zero-valued composition and no error. A non-empty
// table whose total is zero fails with ErrEmptyMarket: shares are undefined
// and reporting them as 0% would be misleading.
func MarketComposition(table registrations.Table, topN int) (*Composition, error) {
	if topN <= 0 {
		topN = DefaultTopManufacturers
	}
	if len(table) == 0 {
		return &Composition{CategoryShares: map[registrations.Category]float64{}}, nil
	}

	total := table.Total()
	if total == 0 {
		return nil, ErrEmptyMarket
	}

	categoryTotals := make(map[registrations.Category]int64)
	manufacturerTotals := make(map[string]int64)
	for _, e := range table {
		categoryTotals[e.Category] += e.Count
		manufacturerTotals[e.Manufacturer] += e.Count
	}

	shares := make(map[registrations.Category]float64, len(categoryTotals))
	for c, v := range categoryTotals {
		shares[c] = float64(v) / float64(total) * 100
	}

	ranking := make([]ManufacturerTotal, 0, len(manufacturerTotals))
	for m, v := range manufacturerTotals {
		ranking = append(ranking, ManufacturerTotal{Manufacturer: m, Registrations: v})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Registrations != ranking[j].Registrations {
			return ranking[i].Registrations > ranking[j].Registrations
		}
		return ranking[i].Manufacturer < ranking[j].Manufacturer
	})

	var topFiveTotal int64
	for i, mt := range ranking {
		if i >= concentrationTopN {
			break
		}
		topFiveTotal += mt.Registrations
	}

	if len(ranking) > topN {
		ranking = ranking[:topN]
	}

	return &Composition{
		TotalRegistrations: total,
		CategoryShares:     shares,
		TopManufacturers:   ranking,
		ConcentrationRatio: float64(topFiveTotal) / float64(total) * 100,
	}, nil
}
