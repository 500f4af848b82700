package services

import (
	"context"
	"log/slog"

	"github.com/prospectlab/prospect/internal/gateway"
	"github.com/prospectlab/prospect/internal/models"
)

// SuggestGateway is the slice of the remote data gateway used by the
// keyword and profile extraction helpers.
type SuggestGateway interface {
	URLToKeywords(ctx context.Context, rawURL, user string) ([]string, error)
	FilesToKeywords(ctx context.Context, user string, files []gateway.File) ([]string, error)
	URLToProfile(ctx context.Context, rawURL, user string) (*models.ProfileSuggest, error)
	FilesToProfile(ctx context.Context, user string, files []gateway.File) (*models.ProfileSuggest, error)
}

// SuggestService extracts search keywords and profile drafts from a company
// website or uploaded documents.
type SuggestService struct {
	gateway SuggestGateway
	logger  *slog.Logger
}

func NewSuggestService(gw SuggestGateway, logger *slog.Logger) *SuggestService {
	return &SuggestService{
		gateway: gw,
		logger:  logger,
	}
}

// KeywordsFromURL suggests search keywords from a website.
func (s *SuggestService) KeywordsFromURL(ctx context.Context, user, url string) ([]string, error) {
	if url == "" {
		return nil, models.ErrBadRequest
	}
	keywords, err := s.gateway.URLToKeywords(ctx, url, user)
	if err != nil {
		s.logger.Error("keyword extraction from url failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return keywords, nil
}

// KeywordsFromFiles suggests search keywords from uploaded documents.
func (s *SuggestService) KeywordsFromFiles(ctx context.Context, user string, files []gateway.File) ([]string, error) {
	if len(files) == 0 {
		return nil, models.ErrBadRequest
	}
	keywords, err := s.gateway.FilesToKeywords(ctx, user, files)
	if err != nil {
		s.logger.Error("keyword extraction from files failed",
			slog.Int("files", len(files)), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return keywords, nil
}

// ProfileFromURL drafts the outreach profile fields from a website.
func (s *SuggestService) ProfileFromURL(ctx context.Context, user, url string) (*models.ProfileSuggest, error) {
	if url == "" {
		return nil, models.ErrBadRequest
	}
	profile, err := s.gateway.URLToProfile(ctx, url, user)
	if err != nil {
		s.logger.Error("profile extraction from url failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return profile, nil
}

// ProfileFromFiles drafts the outreach profile fields from uploaded
// documents.
func (s *SuggestService) ProfileFromFiles(ctx context.Context, user string, files []gateway.File) (*models.ProfileSuggest, error) {
	if len(files) == 0 {
		return nil, models.ErrBadRequest
	}
	profile, err := s.gateway.FilesToProfile(ctx, user, files)
	if err != nil {
		s.logger.Error("profile extraction from files failed",
			slog.Int("files", len(files)), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return profile, nil
}
