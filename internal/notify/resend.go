package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// resendSender delivers confirmations through the Resend API.
type resendSender struct {
	client *resend.Client
	from   string
	logger *logrus.Logger
}

func NewResendSender(client *resend.Client, from string, logger *logrus.Logger) Sender {
	return &resendSender{
		client: client,
		from:   from,
		logger: logger,
	}
}

func (s *resendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.RecipientEmail},
		Subject: fmt.Sprintf("You're registered for %s", msg.EventTitle),
		Html: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your registration for <strong>%s</strong> is confirmed. See you there!</p>",
			msg.RecipientName, msg.EventTitle,
		),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			return fmt.Errorf("email rate limit exceeded (limit %s, resets in %s seconds): %w",
				rateLimitErr.Limit, rateLimitErr.Reset, err)
		}
		return fmt.Errorf("resend api: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"email_id": sent.Id,
		"to":       msg.RecipientEmail,
	}).Info("confirmation email sent")
	return nil
}
