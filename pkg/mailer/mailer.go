package mailer

import (
	"context"
	"errors"
	"maps"

	"github.com/dmitrymomot/carrier/pkg/validator"
)

// Base filling keys available to every template.
const (
	KeyAppName       = "app-name"
	KeyAppURL        = "app-url"
	KeyUserFirstName = "user-first-name"
)

// Message is a templated email for one recipient. It is JSON friendly so
// it can travel as a job payload.
type Message struct {
	To          Recipient         `json:"to"`
	Template    string            `json:"template"`
	Data        map[string]any    `json:"data,omitempty"`
	Subject     string            `json:"subject,omitempty"`
	Layout      string            `json:"layout,omitempty"`
	ReplyTo     string            `json:"reply_to,omitempty"`
	CC          []string          `json:"cc,omitempty"`
	BCC         []string          `json:"bcc,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
	Attachments []Attachment      `json:"attachments,omitempty"`
}

// Mailer renders templates and hands the result to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	cfg      Config
}

// New creates a Mailer.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{sender: sender, renderer: renderer, cfg: cfg}
}

// Filling returns the template data for msg: the base filling overlaid
// with msg.Data.
func (m *Mailer) Filling(msg Message) map[string]any {
	data := map[string]any{
		KeyAppName:       m.cfg.AppName,
		KeyAppURL:        m.cfg.AppURL,
		KeyUserFirstName: msg.To.FirstName,
	}
	maps.Copy(data, msg.Data)
	return data
}

// Build renders msg into an Email without sending it.
// The subject comes from msg.Subject, then the frontmatter, then the fallback.
func (m *Mailer) Build(msg Message) (*Email, error) {
	if msg.To.Email == "" {
		return nil, ErrNoRecipient
	}

	layout := msg.Layout
	if layout == "" {
		layout = m.cfg.Layout
	}
	out, err := m.renderer.Render(layout, msg.Template, m.Filling(msg))
	if err != nil {
		return nil, err
	}

	subject := msg.Subject
	if subject == "" {
		subject = out.Subject
	}
	if subject == "" {
		subject = m.cfg.FallbackSubject
	}

	replyTo := msg.ReplyTo
	if replyTo == "" {
		replyTo = m.cfg.ReplyTo
	}

	return &Email{
		From:        FormatAddress(validator.EnsureUTF8(m.cfg.AppName), m.cfg.From),
		ReplyTo:     replyTo,
		To:          []string{msg.To.Address()},
		CC:          msg.CC,
		BCC:         msg.BCC,
		Subject:     validator.EnsureUTF8(subject),
		HTML:        out.HTML,
		Text:        out.Text,
		Headers:     map[string]string{"X-Mailer": XMailer},
		Tags:        msg.Tags,
		Attachments: msg.Attachments,
	}, nil
}

// Send renders and delivers msg.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	email, err := m.Build(msg)
	if err != nil {
		return err
	}
	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

// SendRaw delivers a pre-built email.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	switch {
	case len(email.To) == 0:
		return ErrNoRecipient
	case email.Subject == "":
		return ErrNoSubject
	case email.HTML == "":
		return ErrNoContent
	}
	if email.From == "" {
		email.From = FormatAddress(m.cfg.AppName, m.cfg.From)
	}
	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}
