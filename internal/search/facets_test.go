package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectlab/prospect/internal/models"
)

func TestComputeFacets_CountDescendingAndFlattened(t *testing.T) {
	rows := []models.Company{
		{ID: "c1", Industry: "Software", Country: "Germany", SearchQueries: []string{"crm", "saas"}},
		{ID: "c2", Industry: "Software", Country: "France", SearchQueries: []string{"crm"}},
		{ID: "c3", Industry: "Consulting", Country: "Germany", SearchQueries: nil},
	}

	facets := computeFacets(rows)

	require.Len(t, facets[FacetIndustry], 2)
	assert.Equal(t, Facet{Value: "Software", Count: 2}, facets[FacetIndustry][0])

	require.Len(t, facets[FacetKeywords], 2)
	assert.Equal(t, Facet{Value: "crm", Count: 2}, facets[FacetKeywords][0])
	assert.Equal(t, Facet{Value: "saas", Count: 1}, facets[FacetKeywords][1])
}

func TestComputeFacets_DropsEmptyValues(t *testing.T) {
	rows := []models.Company{
		{ID: "c1", Industry: "", Country: "", SearchQueries: []string{"", "crm"}},
	}

	facets := computeFacets(rows)

	assert.Empty(t, facets[FacetIndustry])
	assert.Empty(t, facets[FacetCountry])
	require.Len(t, facets[FacetKeywords], 1)
	assert.Equal(t, "crm", facets[FacetKeywords][0].Value)
}

func TestDeriveFacetState_RangeClippedAtCeiling(t *testing.T) {
	st := deriveFacetState([]models.Company{
		{ID: "c1", EmployeeCount: 50},
		{ID: "c2", EmployeeCount: 5000},
	})

	assert.Equal(t, 5000, st.trueMax)
	assert.Equal(t, 0, st.rangeMin)
	assert.Equal(t, RangeClipped, st.rangeMax)
	assert.True(t, st.employeeVisible)
}

func TestDeriveFacetState_SmallMaxKeepsTrueBound(t *testing.T) {
	st := deriveFacetState([]models.Company{
		{ID: "c1", EmployeeCount: 250},
	})

	assert.Equal(t, 250, st.trueMax)
	assert.Equal(t, 250, st.rangeMax)
}

func TestDeriveFacetState_EmptyRows(t *testing.T) {
	st := deriveFacetState(nil)

	assert.False(t, st.industryVisible)
	assert.False(t, st.employeeVisible)
	assert.Zero(t, st.trueMax)
}
