package mailer

import (
	"context"

	"formfill-backend/internal/shared/telemetry"
)

// LogMailer logs messages instead of sending them. Used in dev when SMTP is
// not configured.
type LogMailer struct{}

// Send logs the message and reports success.
func (LogMailer) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	telemetry.Info("mailer.logged", map[string]any{
		"to":      e.To,
		"subject": e.Subject,
	})
	return nil
}

var _ Mailer = LogMailer{}
