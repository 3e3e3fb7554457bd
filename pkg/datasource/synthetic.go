package datasource

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/regipulse/regipulse/pkg/registrations"
)

// DefaultSyntheticSeed keeps generated datasets reproducible across runs.
const DefaultSyntheticSeed = 42

// syntheticProfile holds the per-category generation parameters: mean and
// standard deviation of monthly registrations per manufacturer.
type syntheticProfile struct {
	mean   float64
	stddev float64
}

var syntheticProfiles = map[registrations.Category]syntheticProfile{
	registrations.CategoryTwoWheeler:   {mean: 15000, stddev: 3000},
	registrations.CategoryThreeWheeler: {mean: 2000, stddev: 500},
	registrations.CategoryFourWheeler:  {mean: 8000, stddev: 2000},
}

var syntheticManufacturers = map[registrations.Category][]string{
	registrations.CategoryTwoWheeler:   {"Hero MotoCorp", "Honda", "TVS", "Bajaj", "Yamaha", "Royal Enfield"},
	registrations.CategoryThreeWheeler: {"Bajaj", "Mahindra", "Piaggio", "TVS", "Force Motors"},
	registrations.CategoryFourWheeler:  {"Maruti Suzuki", "Hyundai", "Tata Motors", "Mahindra", "Kia", "Honda Cars"},
}

// Synthetic generates a deterministic monthly dataset shaped like real
// registration data: a base volume per category, roughly 10% annual growth,
// and a sinusoidal seasonal swing.
type Synthetic struct {
	Start time.Time
	End   time.Time
	Seed  int64
}

// NewSynthetic returns a generator covering January 2021 through March 2024
// with the default seed.
func NewSynthetic() *Synthetic {
	return &Synthetic{
		Start: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Seed:  DefaultSyntheticSeed,
	}
}

// Fetch implements Provider. The same configuration always yields the same
// table.
func (s *Synthetic) Fetch(ctx context.Context) (registrations.Table, error) {
	rng := rand.New(rand.NewSource(s.Seed))
	baseYear := s.Start.Year()

	var table registrations.Table
	for month := monthEnd(s.Start); !month.After(s.End); month = monthEnd(month.AddDate(0, 0, 1)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		yearFactor := 1 + float64(month.Year()-baseYear)*0.10
		seasonalFactor := 1 + 0.2*math.Sin(2*math.Pi*float64(month.Month())/12)

		for _, category := range registrations.Categories() {
			profile := syntheticProfiles[category]
			for _, manufacturer := range syntheticManufacturers[category] {
				base := rng.NormFloat64()*profile.stddev + profile.mean
				count := int64(base * yearFactor * seasonalFactor)
				if count < 0 {
					count = 0
				}
				table = append(table, registrations.Event{
					Date:         month,
					Category:     category,
					Manufacturer: manufacturer,
					Count:        count,
				})
			}
		}
	}
	return table, nil
}

// monthEnd returns the last day of t's month.
func monthEnd(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}
