package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prospectlab/prospect/internal/models"
)

// HistoryRepository is the persistence surface of the search ledger.
type HistoryRepository interface {
	GetByID(ctx context.Context, userID, id string) (*models.HistoryEntry, error)
	List(ctx context.Context, userID, cursor string, limit int) (*models.HistoryPage, error)
	Delete(ctx context.Context, userID string, ids []string) (int64, error)
}

const (
	defaultHistoryPageSize = 5
	maxHistoryPageSize     = 100
)

// HistoryService reads and prunes the per-user search ledger.
type HistoryService struct {
	repo   HistoryRepository
	logger *slog.Logger
}

func NewHistoryService(repo HistoryRepository, logger *slog.Logger) *HistoryService {
	return &HistoryService{
		repo:   repo,
		logger: logger,
	}
}

// List returns one page of history entries, newest first. A zero or negative
// limit falls back to the default page size.
func (s *HistoryService) List(ctx context.Context, userID, cursor string, limit int) (*models.HistoryPage, error) {
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	if limit > maxHistoryPageSize {
		limit = maxHistoryPageSize
	}

	page, err := s.repo.List(ctx, userID, cursor, limit)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			return nil, models.ErrBadRequest
		}
		s.logger.Error("failed to list history", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return page, nil
}

// Delete removes the given entries from the ledger and returns how many rows
// were removed. Entries belonging to other users are not touched.
func (s *HistoryService) Delete(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, models.ErrBadRequest
	}

	deleted, err := s.repo.Delete(ctx, userID, ids)
	if err != nil {
		s.logger.Error("failed to delete history", slog.String("user_id", userID), slog.Any("error", err))
		return 0, models.ErrInternalServer
	}

	s.logger.Info("history entries deleted",
		slog.String("user_id", userID), slog.Int64("deleted", deleted))
	return deleted, nil
}
