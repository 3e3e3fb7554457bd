package registrations

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Category is an enumerated vehicle class.
type Category string

const (
	CategoryTwoWheeler   Category = "2W"
	CategoryThreeWheeler Category = "3W"
	CategoryFourWheeler  Category = "4W"
)

// Categories lists all known vehicle categories in canonical order.
func Categories() []Category {
	return []Category{CategoryTwoWheeler, CategoryThreeWheeler, CategoryFourWheeler}
}

// Valid reports whether the category belongs to the known set.
func (c Category) Valid() bool {
	switch c {
	case CategoryTwoWheeler, CategoryThreeWheeler, CategoryFourWheeler:
		return true
	}
	return false
}

// categoryAliases maps raw source labels to canonical categories. Sources
// report vehicle classes under several names; registrations only uses the
// canonical 2W/3W/4W set.
var categoryAliases = map[string]Category{
	"2W":             CategoryTwoWheeler,
	"TWO WHEELER":    CategoryTwoWheeler,
	"MOTOR CYCLE":    CategoryTwoWheeler,
	"MOTORCYCLE":     CategoryTwoWheeler,
	"SCOOTER":        CategoryTwoWheeler,
	"3W":             CategoryThreeWheeler,
	"THREE WHEELER":  CategoryThreeWheeler,
	"AUTO RICKSHAW":  CategoryThreeWheeler,
	"4W":             CategoryFourWheeler,
	"FOUR WHEELER":   CategoryFourWheeler,
	"CAR":            CategoryFourWheeler,
	"SUV":            CategoryFourWheeler,
	"MOTOR CAR":      CategoryFourWheeler,
	"LMV":            CategoryFourWheeler,
}

// ParseCategory normalizes a raw category label to its canonical form.
func ParseCategory(raw string) (Category, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown vehicle category %q", raw)
}

// Event is a single registration record: the number of vehicles of one
// category registered by one manufacturer on one calendar date.
type Event struct {
	Date         time.Time `json:"date"`
	Category     Category  `json:"category"`
	Manufacturer string    `json:"manufacturer"`
	Count        int64     `json:"count"`
}

// Validate checks the event invariants.
func (e Event) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("event date is required")
	}
	if !e.Category.Valid() {
		return fmt.Errorf("invalid category %q", e.Category)
	}
	if e.Manufacturer == "" {
		return fmt.Errorf("manufacturer is required")
	}
	if e.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", e.Count)
	}
	return nil
}

// Quarter returns the calendar quarter (1-4) of the event date.
func (e Event) Quarter() int {
	return QuarterOf(e.Date)
}

// QuarterOf derives the calendar quarter (1-4) from a date.
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// Table is a flat, immutable-by-convention collection of registration events.
type Table []Event

// Validate checks every row and reports the first violation.
func (t Table) Validate() error {
	for i, e := range t {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// Total returns the sum of registration counts across all rows.
func (t Table) Total() int64 {
	var total int64
	for _, e := range t {
		total += e.Count
	}
	return total
}

// CategorySet returns the distinct categories present, in canonical order.
func (t Table) CategorySet() []Category {
	seen := make(map[Category]bool)
	for _, e := range t {
		seen[e.Category] = true
	}
	var out []Category
	for _, c := range Categories() {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// ManufacturerSet returns the distinct manufacturers present, sorted by name.
func (t Table) ManufacturerSet() []string {
	seen := make(map[string]bool)
	for _, e := range t {
		seen[e.Manufacturer] = true
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Span returns the earliest and latest event dates. ok is false for an
// empty table.
func (t Table) Span() (from, to time.Time, ok bool) {
	if len(t) == 0 {
		return time.Time{}, time.Time{}, false
	}
	from, to = t[0].Date, t[0].Date
	for _, e := range t[1:] {
		if e.Date.Before(from) {
			from = e.Date
		}
		if e.Date.After(to) {
			to = e.Date
		}
	}
	return from, to, true
}

// Years returns the distinct calendar years present, ascending.
func (t Table) Years() []int {
	seen := make(map[int]bool)
	for _, e := range t {
		seen[e.Date.Year()] = true
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}
