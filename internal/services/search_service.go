package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/prospectlab/prospect/internal/gateway"
	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/internal/search"
)

// SearchGateway is the slice of the remote data gateway used by searches.
type SearchGateway interface {
	Companies(ctx context.Context, query string, source models.Source, user string) (*gateway.SearchResult, error)
	History(ctx context.Context, user, historyID string) ([]models.Company, error)
}

// HistoryRecorder persists search history entries.
type HistoryRecorder interface {
	Create(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error)
	GetByID(ctx context.Context, userID, id string) (*models.HistoryEntry, error)
}

// SessionManager owns the live search sessions.
type SessionManager interface {
	Get(ctx context.Context, userID string) (*search.Session, error)
	Persist(ctx context.Context, s *search.Session) error
}

// MinQueryLength is the shortest query the gateway will be asked to run.
const MinQueryLength = 4

// SearchService orchestrates search submissions, replays and the session's
// filter/selection state.
type SearchService struct {
	gateway  SearchGateway
	history  HistoryRecorder
	sessions SessionManager
	logger   *slog.Logger
}

func NewSearchService(gw SearchGateway, history HistoryRecorder, sessions SessionManager, logger *slog.Logger) *SearchService {
	return &SearchService{
		gateway:  gw,
		history:  history,
		sessions: sessions,
		logger:   logger,
	}
}

// Search submits a query against one source. On a non-empty result the rows
// replace the session's result set and a history entry is recorded; on an
// empty result the previous rows stay and nothing is recorded. A submission
// superseded by a newer one resolves to ErrStaleSearch without touching
// state.
func (s *SearchService) Search(ctx context.Context, userID, email, query string, source models.Source) (*search.View, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLength {
		return nil, models.ErrQueryTooShort
	}
	if !source.Valid() {
		return nil, models.ErrInvalidSource
	}

	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load session", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	gen := sess.BeginSearch()

	result, err := s.gateway.Companies(ctx, query, source, email)
	if err != nil {
		sess.FailSearch(gen)
		s.logger.Error("company search failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if len(result.Data) == 0 {
		if !sess.ApplyEmpty(gen) {
			return nil, models.ErrStaleSearch
		}
		s.logger.Info("search returned no companies", slog.String("user_id", userID), slog.String("query", query))
		view := sess.View()
		return &view, nil
	}

	if !sess.ApplyResult(gen, query, source, result.Data) {
		return nil, models.ErrStaleSearch
	}

	// History recording is optimistic: the rows are already installed, a
	// failed insert only gets logged.
	entry := &models.HistoryEntry{ID: result.ID, UserID: userID, Query: query, Source: source}
	if _, err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("failed to record history entry",
			slog.String("user_id", userID), slog.String("history_id", result.ID), slog.Any("error", err))
	}

	s.persist(ctx, sess)

	s.logger.Info("search resolved",
		slog.String("user_id", userID),
		slog.String("query", query),
		slog.String("source", string(source)),
		slog.Int("companies", len(result.Data)),
	)

	view := sess.View()
	return &view, nil
}

// Replay loads the rows of a past search into the session. No new history
// entry is written.
func (s *SearchService) Replay(ctx context.Context, userID, email, historyID string) (*search.View, error) {
	entry, err := s.history.GetByID(ctx, userID, historyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to load history entry", slog.String("history_id", historyID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	rows, err := s.gateway.History(ctx, email, historyID)
	if err != nil {
		s.logger.Error("history replay failed", slog.String("history_id", historyID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, models.ErrInternalServer
	}

	sess.ApplyReplay(entry.Query, entry.Source, rows)
	s.persist(ctx, sess)

	view := sess.View()
	return &view, nil
}

// View renders the current session snapshot.
func (s *SearchService) View(ctx context.Context, userID string) (*search.View, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, models.ErrInternalServer
	}
	view := sess.View()
	return &view, nil
}

// SetFilters replaces the multi-select and text filters.
func (s *SearchService) SetFilters(ctx context.Context, userID string, industry, country, keywords []string, description string) (*search.View, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, models.ErrInternalServer
	}
	sess.SetFilters(industry, country, keywords, description)
	view := sess.View()
	return &view, nil
}

// SetRange applies the employee-count window.
func (s *SearchService) SetRange(ctx context.Context, userID string, min, max int) (*search.View, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, models.ErrInternalServer
	}
	sess.SetRange(min, max)
	view := sess.View()
	return &view, nil
}

// ResetFilters clears every filter.
func (s *SearchService) ResetFilters(ctx context.Context, userID string) (*search.View, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, models.ErrInternalServer
	}
	sess.ResetFilters()
	view := sess.View()
	return &view, nil
}

// Select replaces the row selection for bulk actions.
func (s *SearchService) Select(ctx context.Context, userID string, ids []string) (*search.View, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, models.ErrInternalServer
	}
	sess.Select(ids)
	view := sess.View()
	return &view, nil
}

// Focus toggles the detail-panel company.
func (s *SearchService) Focus(ctx context.Context, userID, companyID string) (*search.View, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, models.ErrInternalServer
	}
	if err := sess.SetFocus(companyID); err != nil {
		return nil, err
	}
	s.persist(ctx, sess)
	view := sess.View()
	return &view, nil
}

// Export streams the full unfiltered result set as CSV and returns the
// download filename.
func (s *SearchService) Export(ctx context.Context, userID string, w io.Writer) (string, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return "", models.ErrInternalServer
	}
	if err := sess.ExportCSV(w); err != nil {
		return "", err
	}
	return sess.ExportFilename(), nil
}

// persist writes the durable slots, logging instead of failing the request.
func (s *SearchService) persist(ctx context.Context, sess *search.Session) {
	if err := s.sessions.Persist(ctx, sess); err != nil {
		s.logger.Error("failed to persist session", slog.String("user_id", sess.UserID()), slog.Any("error", err))
	}
}
