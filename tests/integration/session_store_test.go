package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/internal/search"
	"github.com/prospectlab/prospect/internal/store"
)

func setupSessionStore(t *testing.T) *store.SessionStore {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := store.NewRedisClient(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return store.NewSessionStore(client)
}

func strRef(s string) *string { return &s }
func boolRef(b bool) *bool    { return &b }

func TestSessionStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	sessions := setupSessionStore(t)

	companies := []models.Company{
		{ID: "c1", Name: "Acme", Country: "Germany", Industry: "Software", EmployeeCount: 120},
		{ID: "c2", Name: "Globex", Country: "Austria", Industry: "Consulting", EmployeeCount: 40},
	}
	employees := models.EmployeeMap{
		"c1": {
			{ID: "e1", Name: "Alice", Company: "c1"},
			{
				ID: "e2", Name: "Bob", Company: "c1",
				Location: strRef("Berlin"), Industry: strRef("Software"),
				Mail: strRef("bob@acme.example"), Phone: strRef("+49 30 1234"),
				Work: boolRef(true), Verified: boolRef(true),
			},
		},
	}
	focus := companies[0]

	in := &store.State{
		Companies: companies,
		Employees: employees,
		Focus:     &focus,
		Query:     "software companies in Berlin",
		Source:    models.SourceKompass,
	}
	require.NoError(t, sessions.Save(ctx, "u1", in))

	out, err := sessions.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, in.Companies, out.Companies)
	assert.Equal(t, in.Employees, out.Employees)
	require.NotNil(t, out.Focus)
	assert.Equal(t, "c1", out.Focus.ID)
	assert.Equal(t, "software companies in Berlin", out.Query)
	assert.Equal(t, models.SourceKompass, out.Source)

	// A rehydrated session carries the unlocks across the restart.
	s := search.NewSession("u1", out)
	v := s.View()
	assert.True(t, v.Employees.Unlocked("c1"))
	assert.True(t, v.Rows[0].Unlocked)
	assert.False(t, v.Rows[1].Unlocked)
}

func TestSessionStore_LoadMissingUserDefaults(t *testing.T) {
	ctx := context.Background()
	sessions := setupSessionStore(t)

	state, err := sessions.Load(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, state.Companies)
	assert.NotNil(t, state.Employees)
	assert.Empty(t, state.Employees)
	assert.Nil(t, state.Focus)
	assert.Equal(t, models.SourceLinkedIn, state.Source)
}

func TestSessionStore_SaveOverwritesEverySlot(t *testing.T) {
	ctx := context.Background()
	sessions := setupSessionStore(t)

	first := &store.State{
		Companies: []models.Company{{ID: "c1", Name: "Acme"}},
		Employees: models.EmployeeMap{"c1": {{ID: "e1", Name: "Alice", Company: "c1"}}},
		Focus:     &models.Company{ID: "c1", Name: "Acme"},
		Query:     "first query",
		Source:    models.SourceLinkedIn,
	}
	require.NoError(t, sessions.Save(ctx, "u1", first))

	second := &store.State{
		Companies: []models.Company{{ID: "c9", Name: "Initech"}},
		Employees: models.EmployeeMap{},
		Query:     "second query",
		Source:    models.SourceEuropages,
	}
	require.NoError(t, sessions.Save(ctx, "u1", second))

	out, err := sessions.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, out.Companies, 1)
	assert.Equal(t, "c9", out.Companies[0].ID)
	assert.Empty(t, out.Employees)
	assert.Nil(t, out.Focus)
	assert.Equal(t, "second query", out.Query)
	assert.Equal(t, models.SourceEuropages, out.Source)
}

func TestSessionStore_Delete(t *testing.T) {
	ctx := context.Background()
	sessions := setupSessionStore(t)

	require.NoError(t, sessions.Save(ctx, "u1", &store.State{
		Query:  "anything",
		Source: models.SourceKompass,
	}))
	require.NoError(t, sessions.Delete(ctx, "u1"))

	state, err := sessions.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, state.Query)
	assert.Equal(t, models.SourceLinkedIn, state.Source)
}
