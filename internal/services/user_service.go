package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prospectlab/prospect/internal/models"
)

// UserRepository is the persistence surface for user profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error)
}

// UserService reads and updates user profiles, including the outreach fields
// used to draft emails.
type UserService struct {
	repo   UserRepository
	logger *slog.Logger
}

func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to fetch user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return user, nil
}

// Update applies a partial profile update. Absent fields keep their stored
// values.
func (s *UserService) Update(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error) {
	user, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user profile updated", slog.String("user_id", id))
	return user, nil
}
