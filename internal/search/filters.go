package search

import (
	"strings"

	"github.com/prospectlab/prospect/internal/models"
)

// Employee-count range control geometry. The slider's upper bound is clamped
// to Clipped regardless of the true maximum; a max at Clipped means "no upper
// bound" and is swapped for the true maximum on apply.
const (
	RangeStep      = 100
	RangeThreshold = RangeStep * 10
	RangeClipped   = RangeThreshold + RangeStep
)

// EmployeeRange is an inclusive employee-count window.
type EmployeeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Filters are composed independently: exact-match multi-selects, an
// any-of containment over keyword tags, a substring match on the description
// and the employee-count range.
type Filters struct {
	Industry    []string       `json:"industry,omitempty"`
	Country     []string       `json:"country,omitempty"`
	Keywords    []string       `json:"searchQueries,omitempty"`
	Description string         `json:"description,omitempty"`
	Range       *EmployeeRange `json:"range,omitempty"`
}

// Active reports whether any filter is set.
func (f Filters) Active() bool {
	return len(f.Industry) > 0 || len(f.Country) > 0 || len(f.Keywords) > 0 ||
		f.Description != "" || f.Range != nil
}

// Match reports whether a company passes every active filter.
func (f Filters) Match(c models.Company) bool {
	if len(f.Industry) > 0 && !containsString(f.Industry, c.Industry) {
		return false
	}
	if len(f.Country) > 0 && !containsString(f.Country, c.Country) {
		return false
	}
	if len(f.Keywords) > 0 && !anyTagSelected(c.SearchQueries, f.Keywords) {
		return false
	}
	if f.Description != "" &&
		!strings.Contains(strings.ToLower(c.Description), strings.ToLower(f.Description)) {
		return false
	}
	if f.Range != nil && (c.EmployeeCount < f.Range.Min || c.EmployeeCount > f.Range.Max) {
		return false
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// anyTagSelected reports whether any of the row's tags is in the selected set.
func anyTagSelected(tags, selected []string) bool {
	for _, tag := range tags {
		if containsString(selected, tag) {
			return true
		}
	}
	return false
}
