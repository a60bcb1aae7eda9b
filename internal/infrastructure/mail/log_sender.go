package mail

import (
	"context"

	"account-api.backend/pkg/logger"
	"go.uber.org/zap"
)

// LogSender writes messages to the logger instead of sending them.
// It logs recipients and bodies, so it is only meant for development.
type LogSender struct{}

// NewLogSender creates a new LogSender
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the message
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	logger.Info(ctx, "send email",
		zap.String("from", msg.From),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
