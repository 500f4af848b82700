package services

import (
	"context"
	"log/slog"

	"github.com/prospectlab/prospect/internal/models"
	"github.com/prospectlab/prospect/internal/search"
)

// UnlockGateway is the slice of the remote data gateway used by paid
// unlocks.
type UnlockGateway interface {
	Employees(ctx context.Context, user string, companyIDs []string) (models.EmployeeMap, error)
	Contact(ctx context.Context, user, employeeID string) (*models.ContactUpdate, error)
}

// UnlockService drives employee and contact unlocks. Both are paid gateway
// calls guarded against double submission by the session.
type UnlockService struct {
	gateway  UnlockGateway
	sessions SessionManager
	logger   *slog.Logger
}

func NewUnlockService(gw UnlockGateway, sessions SessionManager, logger *slog.Logger) *UnlockService {
	return &UnlockService{
		gateway:  gw,
		sessions: sessions,
		logger:   logger,
	}
}

// UnlockEmployees fetches employee lists for the given companies, skipping
// those already unlocked. It returns the number of companies actually
// fetched.
func (s *UnlockService) UnlockEmployees(ctx context.Context, userID, email string, companyIDs []string) (int, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return 0, models.ErrInternalServer
	}

	pending, err := sess.BeginEmployeeUnlock(companyIDs)
	if err != nil {
		return 0, err
	}

	fetched, gwErr := s.gateway.Employees(ctx, email, pending)
	sess.FinishEmployeeUnlock(pending, fetched, gwErr == nil)
	if gwErr != nil {
		s.logger.Error("employee unlock failed",
			slog.String("user_id", userID), slog.Int("companies", len(pending)), slog.Any("error", gwErr))
		return 0, models.ErrInternalServer
	}

	s.persistSession(ctx, sess)

	s.logger.Info("employees unlocked",
		slog.String("user_id", userID), slog.Int("companies", len(pending)))
	return len(pending), nil
}

// UnlockContact fetches the full contact sheet for one employee and returns
// the updated employee. A response missing any contact field is rejected
// whole.
func (s *UnlockService) UnlockContact(ctx context.Context, userID, email, employeeID string) (*models.Employee, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, models.ErrInternalServer
	}

	if err := sess.BeginContactUnlock(employeeID); err != nil {
		return nil, err
	}

	update, gwErr := s.gateway.Contact(ctx, email, employeeID)
	if gwErr != nil {
		sess.FinishContactUnlock(employeeID, nil, false)
		s.logger.Error("contact unlock failed",
			slog.String("user_id", userID), slog.String("employee_id", employeeID), slog.Any("error", gwErr))
		return nil, models.ErrInternalServer
	}

	employee, err := sess.FinishContactUnlock(employeeID, update, true)
	if err != nil {
		s.logger.Error("contact unlock rejected",
			slog.String("user_id", userID), slog.String("employee_id", employeeID), slog.Any("error", err))
		return nil, err
	}

	s.persistSession(ctx, sess)
	return employee, nil
}

func (s *UnlockService) persistSession(ctx context.Context, sess *search.Session) {
	if err := s.sessions.Persist(ctx, sess); err != nil {
		s.logger.Error("failed to persist session", slog.String("user_id", sess.UserID()), slog.Any("error", err))
	}
}
