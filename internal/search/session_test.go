package search

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/internal/store"
)

func emptyState() *store.State {
	return &store.State{Employees: models.EmployeeMap{}, Source: models.SourceLinkedIn}
}

func berlinCompanies() []models.Company {
	return []models.Company{
		{ID: "c1", Name: "Acme", Country: "Germany", Industry: "Software", EmployeeCount: 120, SearchQueries: []string{"saas", "crm"}, Description: "CRM tooling"},
		{ID: "c2", Name: "Globex", Country: "Germany", Industry: "Software", EmployeeCount: 2400, SearchQueries: []string{"erp"}, Description: "Enterprise software"},
		{ID: "c3", Name: "Initech", Country: "Austria", Industry: "Consulting", EmployeeCount: 40, SearchQueries: []string{"crm"}, Description: "IT consulting"},
	}
}

func TestApplyResult_InstallsRowsAndResetsRange(t *testing.T) {
	s := NewSession("u1", emptyState())

	gen := s.BeginSearch()
	applied := s.ApplyResult(gen, "software companies in Berlin", models.SourceLinkedIn, berlinCompanies())
	require.True(t, applied)

	v := s.View()
	assert.False(t, v.Pending)
	assert.Equal(t, "software companies in Berlin", v.Query)
	assert.Len(t, v.Rows, 3)
	assert.Equal(t, 3, v.Total)
	// trueMax 2400 is over the clipped ceiling, so the control stops at 1100.
	assert.Equal(t, 2400, v.Range.TrueMax)
	assert.Equal(t, 0, v.Range.Min)
	assert.Equal(t, RangeClipped, v.Range.Max)
	assert.False(t, v.Range.Active)
}

func TestApplyResult_StaleGenerationIsDropped(t *testing.T) {
	s := NewSession("u1", emptyState())

	slow := s.BeginSearch()
	fast := s.BeginSearch()

	fastRows := berlinCompanies()[:1]
	require.True(t, s.ApplyResult(fast, "fast query", models.SourceKompass, fastRows))

	// The slower, earlier search resolves after the newer one: ignored.
	assert.False(t, s.ApplyResult(slow, "slow query", models.SourceLinkedIn, berlinCompanies()))

	v := s.View()
	assert.Equal(t, "fast query", v.Query)
	assert.Equal(t, models.SourceKompass, v.Source)
	assert.Len(t, v.Rows, 1)
}

func TestApplyEmpty_KeepsPreviousRows(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "first query", models.SourceLinkedIn, berlinCompanies()))

	gen = s.BeginSearch()
	require.True(t, s.ApplyEmpty(gen))

	v := s.View()
	assert.False(t, v.Pending)
	// Previous data remains displayed and facets reflect it.
	assert.Equal(t, "first query", v.Query)
	assert.Len(t, v.Rows, 3)
	assert.NotEmpty(t, v.Facets[FacetCountry])
}

func TestFailSearch_LeavesStateIntact(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "query one", models.SourceLinkedIn, berlinCompanies()))

	gen = s.BeginSearch()
	assert.True(t, s.View().Pending)
	s.FailSearch(gen)

	v := s.View()
	assert.False(t, v.Pending)
	assert.Len(t, v.Rows, 3)
}

func TestFilters_ExactContainmentAndText(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "crm vendors", models.SourceLinkedIn, berlinCompanies()))

	s.SetFilters([]string{"Software"}, nil, nil, "")
	assert.Len(t, s.View().Rows, 2)

	s.SetFilters([]string{"Software"}, []string{"Austria"}, nil, "")
	assert.Len(t, s.View().Rows, 0)

	// Array containment: a row matches when any of its tags is selected.
	s.SetFilters(nil, nil, []string{"crm"}, "")
	assert.Len(t, s.View().Rows, 2)

	// Substring text match on description, case-insensitive.
	s.SetFilters(nil, nil, nil, "consulting")
	rows := s.View().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "Initech", rows[0].Name)

	s.ResetFilters()
	assert.Len(t, s.View().Rows, 3)
}

func TestSetRange_ClipsAndAutoClears(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "range query", models.SourceLinkedIn, berlinCompanies()))

	// A real window filters rows.
	cleared := s.SetRange(100, 500)
	assert.False(t, cleared)
	v := s.View()
	assert.True(t, v.Range.Active)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Acme", v.Rows[0].Name)

	// Max at the clipped ceiling means "no upper bound": with min 0 the
	// whole filter auto-clears.
	cleared = s.SetRange(0, RangeClipped)
	assert.True(t, cleared)
	v = s.View()
	assert.False(t, v.Range.Active)
	assert.Len(t, v.Rows, 3)
	assert.Equal(t, 2400, v.Range.Max)

	// Max at the ceiling with a non-trivial min keeps a filter with the
	// true maximum as the upper bound.
	cleared = s.SetRange(1000, RangeClipped)
	assert.False(t, cleared)
	v = s.View()
	assert.True(t, v.Range.Active)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Globex", v.Rows[0].Name)
}

func TestSetRange_MinUnderStepAboveThresholdClears(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "range query", models.SourceLinkedIn, berlinCompanies()))

	cleared := s.SetRange(50, 1050)
	assert.True(t, cleared)
	assert.False(t, s.View().Range.Active)
}

func TestSelect_KeepsOnlyKnownIDs(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "select query", models.SourceLinkedIn, berlinCompanies()))

	s.Select([]string{"c1", "c3", "ghost"})
	assert.ElementsMatch(t, []string{"c1", "c3"}, s.View().Selection)
}

func TestEmployeeUnlock_GuardsAndMergesAdditively(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "unlock query", models.SourceLinkedIn, berlinCompanies()))

	ids, err := s.BeginEmployeeUnlock([]string{"c1", "c2"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, ids)

	// A concurrent identical trigger is rejected while in flight.
	_, err = s.BeginEmployeeUnlock([]string{"c1"})
	assert.ErrorIs(t, err, models.ErrUnlockPending)

	s.FinishEmployeeUnlock(ids, models.EmployeeMap{
		"c1": {{ID: "e1", Name: "Alice", Company: "c1"}, {ID: "e2", Name: "Bob", Company: "c1"}},
		"c2": {{ID: "e3", Name: "Carol", Company: "c2"}},
	}, true)

	v := s.View()
	assert.True(t, v.Employees.Unlocked("c1"))
	assert.True(t, v.Employees.Unlocked("c2"))

	// The projection now marks unlocked companies.
	for _, row := range v.Rows {
		if row.ID == "c3" {
			assert.False(t, row.Unlocked)
		} else {
			assert.True(t, row.Unlocked)
		}
	}

	// Unlocking again drops already-unlocked ids; a batch of only those is
	// rejected outright.
	_, err = s.BeginEmployeeUnlock([]string{"c1", "c2"})
	assert.ErrorIs(t, err, models.ErrAlreadyUnlocked)

	// c3 is still lockable and merging it keeps c1/c2 untouched.
	ids, err = s.BeginEmployeeUnlock([]string{"c3"})
	require.NoError(t, err)
	s.FinishEmployeeUnlock(ids, models.EmployeeMap{"c3": {{ID: "e4", Company: "c3"}}}, true)

	v = s.View()
	assert.Len(t, v.Employees, 3)
	assert.Len(t, v.Employees["c1"], 2)
}

func TestEmployeeUnlock_FailureLeavesMapUntouched(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "unlock query", models.SourceLinkedIn, berlinCompanies()))

	ids, err := s.BeginEmployeeUnlock([]string{"c1"})
	require.NoError(t, err)
	s.FinishEmployeeUnlock(ids, nil, false)

	assert.Empty(t, s.View().Employees)

	// The guard is released so the user can retry.
	_, err = s.BeginEmployeeUnlock([]string{"c1"})
	assert.NoError(t, err)
}

func TestEmployeeUnlock_UnknownCompany(t *testing.T) {
	s := NewSession("u1", emptyState())
	_, err := s.BeginEmployeeUnlock([]string{"ghost"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func contactFixture() *models.ContactUpdate {
	location, industry := "Berlin", "Software"
	mail, phone := "alice@acme.example", "+49 30 1234"
	work, verified := true, true
	return &models.ContactUpdate{
		Location: &location, Industry: &industry, Mail: &mail,
		Phone: &phone, Work: &work, Verified: &verified,
	}
}

func sessionWithEmployees(t *testing.T) *Session {
	t.Helper()
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "contact query", models.SourceLinkedIn, berlinCompanies()))
	ids, err := s.BeginEmployeeUnlock([]string{"c1"})
	require.NoError(t, err)
	s.FinishEmployeeUnlock(ids, models.EmployeeMap{
		"c1": {{ID: "e1", Name: "Alice", Company: "c1"}, {ID: "e2", Name: "Bob", Company: "c1"}},
	}, true)
	return s
}

func TestContactUnlock_ReplacesExactlyOneEmployee(t *testing.T) {
	s := sessionWithEmployees(t)

	require.NoError(t, s.BeginContactUnlock("e1"))
	merged, err := s.FinishContactUnlock("e1", contactFixture(), true)
	require.NoError(t, err)
	require.NotNil(t, merged)
	assert.True(t, merged.ContactUnlocked())

	emps, ok := s.Employees("c1")
	require.True(t, ok)
	assert.True(t, emps[0].ContactUnlocked())
	assert.False(t, emps[1].ContactUnlocked())

	// The action disappears once unlocked.
	assert.ErrorIs(t, s.BeginContactUnlock("e1"), models.ErrAlreadyUnlocked)
}

func TestContactUnlock_PartialPayloadRejected(t *testing.T) {
	s := sessionWithEmployees(t)

	require.NoError(t, s.BeginContactUnlock("e1"))
	update := contactFixture()
	update.Verified = nil

	_, err := s.FinishContactUnlock("e1", update, true)
	assert.ErrorIs(t, err, models.ErrPartialContact)

	emps, _ := s.Employees("c1")
	assert.False(t, emps[0].ContactUnlocked())
	assert.Nil(t, emps[0].Location)
}

func TestContactUnlock_DuplicateTriggerRejected(t *testing.T) {
	s := sessionWithEmployees(t)

	require.NoError(t, s.BeginContactUnlock("e1"))
	assert.ErrorIs(t, s.BeginContactUnlock("e1"), models.ErrUnlockPending)

	// Failure releases the guard without touching the record.
	_, err := s.FinishContactUnlock("e1", nil, false)
	require.NoError(t, err)
	assert.NoError(t, s.BeginContactUnlock("e1"))
}

func TestSetFocus_TogglesAndProjects(t *testing.T) {
	s := sessionWithEmployees(t)

	require.NoError(t, s.SetFocus("c1"))
	v := s.View()
	require.NotNil(t, v.Focus)
	assert.Equal(t, "Acme", v.Focus.Name)
	assert.True(t, v.Focus.Unlocked)

	// Focusing the same company again closes the panel.
	require.NoError(t, s.SetFocus("c1"))
	assert.Nil(t, s.View().Focus)

	assert.ErrorIs(t, s.SetFocus("ghost"), models.ErrNotFound)
}

func TestApplyReplay_ResetsDerivedState(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "old query", models.SourceLinkedIn, berlinCompanies()))
	s.SetFilters([]string{"Software"}, nil, nil, "")
	s.Select([]string{"c1"})

	replayRows := []models.Company{{ID: "c9", Name: "Umbrella", Country: "France", EmployeeCount: 300}}
	s.ApplyReplay("replayed query", models.SourceEuropages, replayRows)

	v := s.View()
	assert.Equal(t, "replayed query", v.Query)
	assert.Equal(t, models.SourceEuropages, v.Source)
	assert.Len(t, v.Rows, 1)
	assert.Empty(t, v.Selection)
	assert.False(t, v.Filters.Active())
	assert.Equal(t, 300, v.Range.TrueMax)
}

func TestView_HidesIndustryFacetWhenFirstRowLacksIndustry(t *testing.T) {
	s := NewSession("u1", emptyState())
	rows := berlinCompanies()
	rows[0].Industry = ""
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "no industry", models.SourceLinkedIn, rows))

	v := s.View()
	assert.False(t, v.IndustryVisible)
	_, ok := v.Facets[FacetIndustry]
	assert.False(t, ok)
}

func TestView_RangeHiddenWhenAnyRowMissingEmployeeCount(t *testing.T) {
	s := NewSession("u1", emptyState())
	rows := berlinCompanies()
	rows[2].EmployeeCount = 0
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "no counts", models.SourceLinkedIn, rows))

	assert.False(t, s.View().Range.Visible)
}

func TestNewSession_RehydratesDurableState(t *testing.T) {
	state := &store.State{
		Companies: berlinCompanies(),
		Employees: models.EmployeeMap{"c1": {{ID: "e1", Company: "c1"}}},
		Query:     "restored query",
		Source:    models.SourceKompass,
	}

	s := NewSession("u1", state)
	v := s.View()

	assert.Equal(t, "restored query", v.Query)
	assert.Equal(t, models.SourceKompass, v.Source)
	assert.Len(t, v.Rows, 3)
	assert.Equal(t, 2400, v.Range.TrueMax)
	assert.True(t, v.Employees.Unlocked("c1"))
}

func TestView_SnapshotIsolatedFromLaterMerges(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "software companies in Berlin", models.SourceLinkedIn, berlinCompanies()))

	ids, err := s.BeginEmployeeUnlock([]string{"c1"})
	require.NoError(t, err)
	s.FinishEmployeeUnlock(ids, models.EmployeeMap{"c1": {{ID: "e1", Name: "Alice", Company: "c1"}}}, true)

	v := s.View()
	st := s.State()

	ids, err = s.BeginEmployeeUnlock([]string{"c2"})
	require.NoError(t, err)
	s.FinishEmployeeUnlock(ids, models.EmployeeMap{"c2": {{ID: "e2", Name: "Bob", Company: "c2"}}}, true)

	// Snapshots taken before the second unlock must not grow with it.
	assert.False(t, v.Employees.Unlocked("c2"))
	assert.False(t, st.Employees.Unlocked("c2"))
	assert.True(t, s.View().Employees.Unlocked("c2"))
}

// Serializes snapshots while unlock merges write the live map; run with the
// race detector, a shared map here is a fatal concurrent map read/write.
func TestView_MarshalsSafelyDuringUnlockMerges(t *testing.T) {
	s := NewSession("u1", emptyState())
	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "software companies in Berlin", models.SourceLinkedIn, berlinCompanies()))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			v := s.View()
			if _, err := json.Marshal(v.Employees); err != nil {
				t.Error(err)
				return
			}
			if _, err := json.Marshal(s.State()); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.FinishEmployeeUnlock(nil, models.EmployeeMap{
				"c1": {{ID: fmt.Sprintf("e%d", i), Name: "Alice", Company: "c1"}},
			}, true)
		}
	}()
	wg.Wait()
}
