package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectUnlocked_MatchesEmployeeMapKeys(t *testing.T) {
	companies := []Company{
		{ID: "c1", Name: "Acme"},
		{ID: "c2", Name: "Globex"},
		{ID: "c3", Name: "Initech"},
	}
	employees := EmployeeMap{
		"c1": {{ID: "e1", Name: "Alice", Company: "c1"}},
		"c3": {},
	}

	projected := ProjectUnlocked(companies, employees)

	assert.True(t, projected[0].Unlocked)
	assert.False(t, projected[1].Unlocked)
	// An empty employee list still counts as unlocked: the key is present.
	assert.True(t, projected[2].Unlocked)
}

func TestProjectUnlocked_DoesNotMutateInput(t *testing.T) {
	companies := []Company{{ID: "c1"}}
	employees := EmployeeMap{"c1": {}}

	_ = ProjectUnlocked(companies, employees)

	assert.False(t, companies[0].Unlocked)
}

func TestProjectUnlocked_ClearsStaleFlag(t *testing.T) {
	companies := []Company{{ID: "c1", Unlocked: true}}

	projected := ProjectUnlocked(companies, EmployeeMap{})

	assert.False(t, projected[0].Unlocked)
}

func TestEmployeeMap_MergeIsAdditive(t *testing.T) {
	dst := EmployeeMap{
		"c1": {{ID: "e1"}},
	}
	src := EmployeeMap{
		"c2": {{ID: "e2"}, {ID: "e3"}},
	}

	dst.Merge(src)

	assert.Len(t, dst, 2)
	assert.Len(t, dst["c1"], 1)
	assert.Len(t, dst["c2"], 2)
}

func TestEmployeeMap_MergeOverwritesSameCompany(t *testing.T) {
	dst := EmployeeMap{"c1": {{ID: "e1"}}}
	src := EmployeeMap{"c1": {{ID: "e1"}, {ID: "e2"}}}

	dst.Merge(src)

	assert.Len(t, dst["c1"], 2)
}

func TestSource_Valid(t *testing.T) {
	assert.True(t, SourceLinkedIn.Valid())
	assert.True(t, SourceKompass.Valid())
	assert.True(t, SourceEuropages.Valid())
	assert.False(t, Source("crunchbase").Valid())
	assert.False(t, Source("").Valid())
}
