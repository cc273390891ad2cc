package mailer

import (
	"context"
	"log/slog"
	"strings"
)

// Sender delivers a rendered Email.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, email *Email) error

func (f SenderFunc) Send(ctx context.Context, email *Email) error { return f(ctx, email) }

// LogSender logs messages instead of delivering them. Dev mode uses it.
type LogSender struct {
	Logger *slog.Logger
	// Body adds the plain text part to the log record.
	Body bool
}

func (s LogSender) Send(ctx context.Context, email *Email) error {
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	attrs := []any{
		slog.String("to", strings.Join(email.To, ", ")),
		slog.String("subject", email.Subject),
		slog.Int("attachments", len(email.Attachments)),
	}
	if s.Body {
		attrs = append(attrs, slog.String("text", email.Text))
	}
	log.WarnContext(ctx, "email delivery skipped in dev mode", attrs...)
	return nil
}
