// internal/workers/notifications_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/ammarques/stockroom-be/internal/pkg/config"
	"github.com/hibiken/asynq"
)

// NotificationProcessor handles email notifications
type NotificationProcessor struct {
	config *config.Config
	logger *slog.Logger
}

// NewNotificationProcessor creates a new notification processor
func NewNotificationProcessor(config *config.Config, logger *slog.Logger) *NotificationProcessor {
	return &NotificationProcessor{
		config: config,
		logger: logger.With(slog.String("processor", "notification")),
	}
}

type emailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendEmail sends email notifications
func (p *NotificationProcessor) SendEmail(ctx context.Context, t *asynq.Task) error {
	var payload emailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload.To == "" {
		return fmt.Errorf("email payload has no recipient")
	}

	p.logger.InfoContext(ctx, "sending email",
		slog.String("to", payload.To),
		slog.String("subject", payload.Subject))

	// Without an SMTP relay configured (development, tests) the email
	// is logged instead of sent.
	alerts := p.config.Alerts
	if alerts.SMTPHost == "" || p.config.App.Environment == "development" {
		p.logger.InfoContext(ctx, "email would be sent",
			slog.String("to", payload.To),
			slog.String("subject", payload.Subject),
			slog.String("body", payload.Body))
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		alerts.FromAddress, payload.To, payload.Subject, payload.Body,
	))

	var auth smtp.Auth
	if alerts.SMTPUsername != "" {
		auth = smtp.PlainAuth("", alerts.SMTPUsername, alerts.SMTPPassword, alerts.SMTPHost)
	}

	addr := fmt.Sprintf("%s:%s", alerts.SMTPHost, alerts.SMTPPort)
	if err := smtp.SendMail(addr, auth, alerts.FromAddress, []string{payload.To}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	p.logger.InfoContext(ctx, "email sent successfully")
	return nil
}
