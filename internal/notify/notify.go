package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Message describes one registration confirmation to deliver.
type Message struct {
	RecipientEmail string
	RecipientName  string
	EventTitle     string
}

// Sender delivers a single confirmation message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// logSender is used when outbound email is disabled. It records the
// confirmation in the log and nothing else.
type logSender struct {
	logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(ctx context.Context, msg Message) error {
	s.logger.WithFields(logrus.Fields{
		"to":    msg.RecipientEmail,
		"event": msg.EventTitle,
	}).Info("registration confirmation (email disabled)")
	return nil
}
