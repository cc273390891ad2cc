// Package resend delivers mailer emails through the Resend API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/carrier/pkg/mailer"
)

// ErrNoAPIKey is returned by New when the API key is empty.
var ErrNoAPIKey = errors.New("resend: api key is required")

// Sender implements mailer.Sender.
type Sender struct {
	client *resend.Client
}

// New creates a Sender for cfg.
func New(cfg Config) (*Sender, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	return &Sender{client: resend.NewClient(cfg.APIKey)}, nil
}

// Send delivers email and ignores the message id returned by Resend.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if _, err := s.client.Emails.SendWithContext(ctx, request(email)); err != nil {
		return fmt.Errorf("resend: send to %v: %w", email.To, err)
	}
	return nil
}

func request(email *mailer.Email) *resend.SendEmailRequest {
	req := &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Cc:      email.CC,
		Bcc:     email.BCC,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		Headers: email.Headers,
	}

	for _, a := range email.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		})
	}

	// Sorted so requests are deterministic.
	names := make([]string, 0, len(email.Tags))
	for name := range email.Tags {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		req.Tags = append(req.Tags, resend.Tag{Name: name, Value: email.Tags[name]})
	}

	return req
}
