package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/regipulse/regipulse/pkg/registrations"
)

// Dimension column names accepted by AggregateGrowth.
const (
	DimensionCategory     = "category"
	DimensionManufacturer = "manufacturer"
)

// ValueColumnCount is the only numeric column of the event table and the
// default value column.
const ValueColumnCount = "count"

// PeriodRecord is the aggregate for one (dimension values, year, quarter)
// combination. Growth fields are nil when undefined: the first record of a
// sequence has no QoQ reference, a record without a prior-year match has no
// YoY reference, and a zero denominator leaves growth undefined rather than
// producing an infinity.
type PeriodRecord struct {
	Dimensions map[string]string `json:"dimensions"`
	Year       int               `json:"year"`
	Quarter    int               `json:"quarter"`
	Value      float64           `json:"value"`
	YoYGrowth  *float64          `json:"yoy_growth,omitempty"`
	QoQGrowth  *float64          `json:"qoq_growth,omitempty"`
}

// AggregateGrowth groups the table by (dimensions..., year, quarter), sums
// the value column per group, and computes YoY and QoQ growth within each
// dimension-value sequence ordered by (year, quarter) ascending.
//
// An empty valueColumn defaults to ValueColumnCount. An empty table yields an
// empty result and no error. Unknown dimension names and non-numeric value
// columns fail with ErrInvalidInput.
func AggregateGrowth(table registrations.Table, dimensions []string, valueColumn string) ([]PeriodRecord, error) {
	if valueColumn == "" {
		valueColumn = ValueColumnCount
	}
	if valueColumn != ValueColumnCount {
		return nil, fmt.Errorf("%w: value column %q is not numeric", ErrInvalidInput, valueColumn)
	}
	for _, d := range dimensions {
		if d != DimensionCategory && d != DimensionManufacturer {
			return nil, fmt.Errorf("%w: unknown dimension column %q", ErrInvalidInput, d)
		}
	}
	if len(table) == 0 {
		return nil, nil
	}

	type groupKey struct {
		dims    string
		year    int
		quarter int
	}
	sums := make(map[groupKey]float64)
	dimValues := make(map[string][]string)

	for _, e := range table {
		vals := dimensionValues(e, dimensions)
		dims := strings.Join(vals, "\x1f")
		if _, ok := dimValues[dims]; !ok {
			dimValues[dims] = vals
		}
		key := groupKey{dims: dims, year: e.Date.Year(), quarter: e.Quarter()}
		sums[key] += float64(e.Count)
	}

	records := make([]PeriodRecord, 0, len(sums))
	keys := make([]groupKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	// Deterministic output order: dimension values, then chronology.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dims != keys[j].dims {
			return keys[i].dims < keys[j].dims
		}
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].quarter < keys[j].quarter
	})

	for _, k := range keys {
		dims := make(map[string]string, len(dimensions))
		for i, d := range dimensions {
			dims[d] = dimValues[k.dims][i]
		}
		records = append(records, PeriodRecord{
			Dimensions: dims,
			Year:       k.year,
			Quarter:    k.quarter,
			Value:      sums[k],
		})
	}

	// QoQ: strictly the previous record in the sorted sequence for the same
	// dimension values, regardless of quarter adjacency.
	for i := 1; i < len(records); i++ {
		if keys[i].dims != keys[i-1].dims {
			continue
		}
		records[i].QoQGrowth = percentChange(records[i].Value, records[i-1].Value)
	}

	// YoY: matched by equal quarter with year exactly one less.
	for i, k := range keys {
		prev, ok := sums[groupKey{dims: k.dims, year: k.year - 1, quarter: k.quarter}]
		if !ok {
			continue
		}
		records[i].YoYGrowth = percentChange(records[i].Value, prev)
	}

	return records, nil
}

func dimensionValues(e registrations.Event, dimensions []string) []string {
	vals := make([]string, len(dimensions))
	for i, d := range dimensions {
		switch d {
		case DimensionCategory:
			vals[i] = string(e.Category)
		case DimensionManufacturer:
			vals[i] = e.Manufacturer
		}
	}
	return vals
}

// percentChange returns (current-previous)/previous*100, or nil when the
// denominator is zero.
func percentChange(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	pct := (current - previous) / previous * 100
	return &pct
}
