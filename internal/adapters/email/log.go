package email

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/passport/internal/core/ports"
)

// LogSender writes messages to the log instead of delivering them.
// Used in development when no SMTP relay is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) ports.EmailSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, email ports.Email) (string, error) {
	messageID := uuid.New().String()
	s.logger.InfoContext(ctx, "email delivery skipped, logging instead",
		"to", email.To,
		"subject", email.Subject,
		"body", email.Text,
		"message_id", messageID,
	)
	return messageID, nil
}
