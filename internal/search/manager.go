package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prospectlab/prospect/internal/store"
)

// StateStore persists session state between restarts.
type StateStore interface {
	Load(ctx context.Context, userID string) (*store.State, error)
	Save(ctx context.Context, userID string, state *store.State) error
}

// Manager owns the live sessions, one per user, rehydrating them from the
// state store on first touch.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    StateStore
	logger   *slog.Logger
}

func NewManager(st StateStore, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: map[string]*Session{},
		store:    st,
		logger:   logger,
	}
}

// Get returns the user's session, loading durable state if it is not live.
func (m *Manager) Get(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	state, err := m.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rehydrate session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have rehydrated concurrently; keep the first.
	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}
	s := NewSession(userID, state)
	m.sessions[userID] = s
	m.logger.Info("session rehydrated", slog.String("user_id", userID))
	return s, nil
}

// Persist writes the session's durable slots to the state store.
func (m *Manager) Persist(ctx context.Context, s *Session) error {
	if err := m.store.Save(ctx, s.UserID(), s.State()); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// EvictIdle drops live sessions untouched for longer than ttl and returns how
// many were evicted. Their durable state stays in the store.
func (m *Manager) EvictIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for userID, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, userID)
			evicted++
		}
	}
	return evicted
}

// Live reports the number of in-memory sessions.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
