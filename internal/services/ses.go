package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/prospectlab/prospect/internal/models"
)

// SESMailSender delivers outreach emails through AWS SES.
type SESMailSender struct {
	client      *ses.Client
	fromAddress string
	logger      *slog.Logger
}

func NewSESMailSender(ctx context.Context, region, fromAddress string, logger *slog.Logger) (*SESMailSender, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESMailSender{
		client:      ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// Send delivers one message to all recipients in a single SES call. The
// authenticated user's address goes on Reply-To so prospects answer the
// sender, not the platform.
func (s *SESMailSender) Send(ctx context.Context, mail models.Mail) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: mail.Mails,
		},
		ReplyToAddresses: []string{mail.User},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(mail.Subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(mail.Message),
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email accepted by SES",
		slog.Int("recipients", len(mail.Mails)),
		slog.String("message_id", aws.ToString(result.MessageId)))
	return nil
}
