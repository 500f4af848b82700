package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/prospectlab/prospect/internal/models"
)

// Slot names within a user's session hash. The hash layout mirrors the
// client's old local-storage keys one to one, one field per slot.
const (
	slotCompany   = "company"
	slotEmployees = "employees"
	slotFocus     = "focus"
	slotQuery     = "query"
	slotSource    = "source"
)

// State is the durable portion of a user's search session: the current result
// set, the unlocked employee map, the focused company and the last submitted
// query/source. It is written on every mutation and rehydrated when a session
// is first touched after a restart.
type State struct {
	Companies []models.Company
	Employees models.EmployeeMap
	Focus     *models.Company
	Query     string
	Source    models.Source
}

// SessionStore persists per-user session state in a Redis hash.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID string) string {
	return "session:" + userID
}

// Load rehydrates a user's session state. A user with no stored session gets
// a zero state with the default source, not an error.
func (s *SessionStore) Load(ctx context.Context, userID string) (*State, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", userID, err)
	}

	state := &State{
		Employees: models.EmployeeMap{},
		Source:    models.SourceLinkedIn,
	}

	if raw, ok := fields[slotCompany]; ok {
		if err := json.Unmarshal([]byte(raw), &state.Companies); err != nil {
			return nil, fmt.Errorf("decode %s slot: %w", slotCompany, err)
		}
	}
	if raw, ok := fields[slotEmployees]; ok {
		if err := json.Unmarshal([]byte(raw), &state.Employees); err != nil {
			return nil, fmt.Errorf("decode %s slot: %w", slotEmployees, err)
		}
	}
	if raw, ok := fields[slotFocus]; ok && raw != "null" {
		state.Focus = &models.Company{}
		if err := json.Unmarshal([]byte(raw), state.Focus); err != nil {
			return nil, fmt.Errorf("decode %s slot: %w", slotFocus, err)
		}
	}
	if raw, ok := fields[slotQuery]; ok {
		state.Query = raw
	}
	if raw, ok := fields[slotSource]; ok {
		source := models.Source(raw)
		if source.Valid() {
			state.Source = source
		}
	}

	return state, nil
}

// Save writes every slot of the session state in one round trip.
func (s *SessionStore) Save(ctx context.Context, userID string, state *State) error {
	companies, err := json.Marshal(state.Companies)
	if err != nil {
		return fmt.Errorf("encode %s slot: %w", slotCompany, err)
	}
	employees, err := json.Marshal(state.Employees)
	if err != nil {
		return fmt.Errorf("encode %s slot: %w", slotEmployees, err)
	}
	focus, err := json.Marshal(state.Focus)
	if err != nil {
		return fmt.Errorf("encode %s slot: %w", slotFocus, err)
	}

	err = s.client.HSet(ctx, sessionKey(userID),
		slotCompany, companies,
		slotEmployees, employees,
		slotFocus, focus,
		slotQuery, state.Query,
		slotSource, string(state.Source),
	).Err()
	if err != nil {
		return fmt.Errorf("save session %s: %w", userID, err)
	}

	return nil
}

// Delete drops a user's stored session entirely.
func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", userID, err)
	}
	return nil
}
