package services

import (
	"context"
	"log/slog"

	"github.com/prospectlab/prospect/internal/models"
	pkglogger "github.com/prospectlab/prospect/pkg/logger"
)

// MailGateway is the slice of the remote data gateway used for AI drafting.
type MailGateway interface {
	GenerateMail(ctx context.Context, fields map[string]string) (*models.MailDraft, error)
}

// MailSender delivers a finished outreach email to its recipients.
type MailSender interface {
	Send(ctx context.Context, mail models.Mail) error
}

// MailService drafts outreach emails from profile and prospect fields and
// sends the finished message.
type MailService struct {
	gateway MailGateway
	sender  MailSender
	logger  *slog.Logger
}

func NewMailService(gw MailGateway, sender MailSender, logger *slog.Logger) *MailService {
	return &MailService{
		gateway: gw,
		sender:  sender,
		logger:  logger,
	}
}

// Draft asks the gateway to generate an email body from the given prompt
// fields. Empty fields are dropped before the call.
func (s *MailService) Draft(ctx context.Context, fields map[string]string) (*models.MailDraft, error) {
	prompt := make(map[string]string, len(fields))
	for k, v := range fields {
		if v != "" {
			prompt[k] = v
		}
	}

	draft, err := s.gateway.GenerateMail(ctx, prompt)
	if err != nil {
		s.logger.Error("mail draft generation failed", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return draft, nil
}

// Send delivers the mail to every recipient.
func (s *MailService) Send(ctx context.Context, mail models.Mail) error {
	if len(mail.Mails) == 0 {
		return models.ErrBadRequest
	}

	if err := s.sender.Send(ctx, mail); err != nil {
		s.logger.Error("mail send failed",
			slog.Int("recipients", len(mail.Mails)), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("mail sent",
		slog.String("sender", pkglogger.SanitizedEmail(mail.User)), slog.Int("recipients", len(mail.Mails)))
	return nil
}
