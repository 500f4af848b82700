package search

import (
	"sort"

	"github.com/prospectlab/prospect/internal/models"
)

// Facet is one distinct column value with its occurrence count.
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facet column names, matching the row field names the client filters on.
const (
	FacetIndustry = "industry"
	FacetCountry  = "country"
	FacetKeywords = "searchQueries"
)

// computeFacets derives the distinct values for every facetable column of the
// result set, count-descending. Array-valued columns are flattened before
// counting; empty values are dropped.
func computeFacets(rows []models.Company) map[string][]Facet {
	industry := map[string]int{}
	country := map[string]int{}
	keywords := map[string]int{}

	for _, c := range rows {
		if c.Industry != "" {
			industry[c.Industry]++
		}
		if c.Country != "" {
			country[c.Country]++
		}
		for _, tag := range c.SearchQueries {
			if tag != "" {
				keywords[tag]++
			}
		}
	}

	return map[string][]Facet{
		FacetIndustry: sortFacets(industry),
		FacetCountry:  sortFacets(country),
		FacetKeywords: sortFacets(keywords),
	}
}

func sortFacets(counts map[string]int) []Facet {
	facets := make([]Facet, 0, len(counts))
	for value, count := range counts {
		facets = append(facets, Facet{Value: value, Count: count})
	}
	sort.Slice(facets, func(i, j int) bool {
		if facets[i].Count != facets[j].Count {
			return facets[i].Count > facets[j].Count
		}
		return facets[i].Value < facets[j].Value
	})
	return facets
}

// facetState carries the derived per-result-set column state: which optional
// columns are shown and the employee-count geometry for the range control.
type facetState struct {
	industryVisible bool
	employeeVisible bool
	trueMax         int
	rangeMin        int
	rangeMax        int
}

// deriveFacetState recomputes column visibility and the range bounds from a
// result set. The range resets to [0, min(trueMax, Clipped)].
func deriveFacetState(rows []models.Company) facetState {
	st := facetState{
		industryVisible: len(rows) > 0 && rows[0].Industry != "",
		employeeVisible: len(rows) > 0,
	}

	for _, c := range rows {
		if c.EmployeeCount <= 0 {
			st.employeeVisible = false
		}
		if c.EmployeeCount > st.trueMax {
			st.trueMax = c.EmployeeCount
		}
	}

	st.rangeMax = st.trueMax
	if st.rangeMax > RangeClipped {
		st.rangeMax = RangeClipped
	}
	return st
}
