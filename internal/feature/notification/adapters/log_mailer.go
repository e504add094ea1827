// Package adapters holds notification delivery backends.
package adapters

import (
	"context"
	"log/slog"

	"heartlink/internal/feature/notification/domain"
)

// LogMailer logs emails instead of sending them. Used when no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer returns a LogMailer writing to logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, e domain.Email) error {
	m.logger.InfoContext(ctx, "email not sent: SMTP not configured", "to", e.To, "subject", e.Subject, "text", e.Text)
	return nil
}
