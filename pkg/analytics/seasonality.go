package analytics

import (
	"time"

	"github.com/regipulse/regipulse/pkg/registrations"
)

// MonthAverage is the mean registration count of one calendar month across
// all years present.
type MonthAverage struct {
	Month   string  `json:"month"`
	Average float64 `json:"average"`
}

// SeasonalityReport identifies the peak and low registration months.
type SeasonalityReport struct {
	// Averages lists the months present in the table, in calendar order.
	Averages []MonthAverage `json:"averages"`

	PeakMonth string `json:"peak_month"`
	LowMonth  string `json:"low_month"`
}

// Seasonality groups events by calendar month name independent of year,
// averages the per-row counts, and reports the months with the maximum and
// minimum average. When several months share an extreme, the first in
// calendar order wins. An empty table yields a zero-valued report.
func Seasonality(table registrations.Table) *SeasonalityReport {
	if len(table) == 0 {
		return &SeasonalityReport{}
	}

	var sums [13]float64
	var counts [13]int
	for _, e := range table {
		m := int(e.Date.Month())
		sums[m] += float64(e.Count)
		counts[m]++
	}

	report := &SeasonalityReport{}
	var peak, low float64
	for m := 1; m <= 12; m++ {
		if counts[m] == 0 {
			continue
		}
		avg := sums[m] / float64(counts[m])
		name := time.Month(m).String()
		report.Averages = append(report.Averages, MonthAverage{Month: name, Average: avg})

		if report.PeakMonth == "" || avg > peak {
			report.PeakMonth, peak = name, avg
		}
		if report.LowMonth == "" || avg < low {
			report.LowMonth, low = name, avg
		}
	}
	return report
}
