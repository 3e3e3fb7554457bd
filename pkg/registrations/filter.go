package registrations

import "time"

// Filter restricts a table before analysis. Zero-value fields match
// everything: a zero From/To disables the date bound, empty sets disable the
// category/manufacturer restriction.
type Filter struct {
	From          time.Time
	To            time.Time
	Categories    []Category
	Manufacturers []string
}

// IsZero reports whether the filter matches every row.
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() &&
		len(f.Categories) == 0 && len(f.Manufacturers) == 0
}

// Apply returns the rows matching the filter. The input table is not
// modified; an all-matching filter still returns a copy so callers can treat
// the result as their own.
func (f Filter) Apply(t Table) Table {
	categories := make(map[Category]bool, len(f.Categories))
	for _, c := range f.Categories {
		categories[c] = true
	}
	manufacturers := make(map[string]bool, len(f.Manufacturers))
	for _, m := range f.Manufacturers {
		manufacturers[m] = true
	}

	out := make(Table, 0, len(t))
	for _, e := range t {
		if !f.From.IsZero() && e.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.Date.After(f.To) {
			continue
		}
		if len(categories) > 0 && !categories[e.Category] {
			continue
		}
		if len(manufacturers) > 0 && !manufacturers[e.Manufacturer] {
			continue
		}
		out = append(out, e)
	}
	return out
}
