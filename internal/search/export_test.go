package search

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectlab/prospect/internal/models"
)

func TestExportCSV_FullUnfilteredSet(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "export query", models.SourceLinkedIn, berlinCompanies()))

	// A narrow filter must not narrow the export.
	s.SetFilters(nil, []string{"Austria"}, nil, "")
	require.Len(t, s.View().Rows, 1)

	// Unlock one company so the projection shows up in the output.
	ids, err := s.BeginEmployeeUnlock([]string{"c1"})
	require.NoError(t, err)
	s.FinishEmployeeUnlock(ids, models.EmployeeMap{"c1": {{ID: "e1", Company: "c1"}}}, true)

	var buf bytes.Buffer
	require.NoError(t, s.ExportCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4) // header + all three rows
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, "c1", records[1][0])
	assert.Equal(t, "true", records[1][10])
	assert.Equal(t, "false", records[2][10])
	assert.Equal(t, "saas;crm", records[1][9])
}

func TestExportCSV_NoResultsIsError(t *testing.T) {
	s := NewSession("u1", emptyState())

	var buf bytes.Buffer
	assert.ErrorIs(t, s.ExportCSV(&buf), models.ErrNoSearch)
}

func TestExportFilename_DashedQuery(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "software companies in Berlin", models.SourceLinkedIn, berlinCompanies()))

	assert.Equal(t, "software-companies-in-Berlin.csv", s.ExportFilename())
}

func TestExportFilename_EmptyQueryFallback(t *testing.T) {
	s := NewSession("u1", emptyState())
	assert.Equal(t, "companies.csv", s.ExportFilename())
}
