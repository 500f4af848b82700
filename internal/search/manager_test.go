package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/internal/store"
)

// memStore is an in-memory StateStore for tests.
type memStore struct {
	states map[string]*store.State
	saves  int
}

func newMemStore() *memStore {
	return &memStore{states: map[string]*store.State{}}
}

func (m *memStore) Load(ctx context.Context, userID string) (*store.State, error) {
	if st, ok := m.states[userID]; ok {
		return st, nil
	}
	return &store.State{Employees: models.EmployeeMap{}, Source: models.SourceLinkedIn}, nil
}

func (m *memStore) Save(ctx context.Context, userID string, state *store.State) error {
	m.states[userID] = state
	m.saves++
	return nil
}

func TestManager_GetReturnsSameSession(t *testing.T) {
	m := NewManager(newMemStore(), slog.Default())

	s1, err := m.Get(context.Background(), "u1")
	require.NoError(t, err)
	s2, err := m.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Same(t, s1, s2)
	assert.Equal(t, 1, m.Live())
}

func TestManager_PersistAndRehydrate(t *testing.T) {
	st := newMemStore()
	m := NewManager(st, slog.Default())

	s, err := m.Get(context.Background(), "u1")
	require.NoError(t, err)

	gen := s.BeginSearch()
	require.True(t, s.ApplyResult(gen, "persisted query", models.SourceEuropages, berlinCompanies()))
	require.NoError(t, m.Persist(context.Background(), s))
	assert.Equal(t, 1, st.saves)

	// Evict and reload: durable slots survive.
	evicted := m.EvictIdle(0)
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 0, m.Live())

	reloaded, err := m.Get(context.Background(), "u1")
	require.NoError(t, err)
	v := reloaded.View()
	assert.Equal(t, "persisted query", v.Query)
	assert.Equal(t, models.SourceEuropages, v.Source)
	assert.Len(t, v.Rows, 3)
}

func TestManager_EvictIdleKeepsActiveSessions(t *testing.T) {
	m := NewManager(newMemStore(), slog.Default())

	_, err := m.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 0, m.EvictIdle(time.Hour))
	assert.Equal(t, 1, m.Live())
}
