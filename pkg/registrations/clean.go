package registrations

import (
	"fmt"
	"strings"
)

// Clean standardizes a raw table: category labels are normalized to the
// canonical set, exact duplicate rows are dropped, and rows that still fail
// validation (negative counts, missing dates, unmappable categories) are
// discarded. The input is never modified.
func Clean(raw Table) Table {
	out := make(Table, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, e := range raw {
		if c, err := ParseCategory(string(e.Category)); err == nil {
			e.Category = c
		}
		e.Manufacturer = strings.TrimSpace(e.Manufacturer)
		if e.Validate() != nil {
			continue
		}

		key := dedupeKey(e)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

func dedupeKey(e Event) string {
	return fmt.Sprintf("%s|%s|%s|%d",
		e.Date.Format("2006-01-02"), e.Category, e.Manufacturer, e.Count)
}
