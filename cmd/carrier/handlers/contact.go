package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/carrier/pkg/ajaxform"
	"github.com/dmitrymomot/carrier/pkg/mailer"
	"github.com/dmitrymomot/carrier/pkg/sanitizer"
	"github.com/dmitrymomot/carrier/pkg/validator"
)

// ContactFormID identifies the contact form on the page and in requests.
const ContactFormID = "contact-form"

// MsgContactSent is shown after a message was queued for delivery.
const MsgContactSent = "Gracias, hemos recibido tu mensaje."

// ContactRequest is the payload of the contact form.
type ContactRequest struct {
	Name    string `json:"name" sanitize:"name" validate:"required,max=100,utf8"`
	Email   string `json:"email" sanitize:"email" validate:"required,email"`
	Message string `json:"message" sanitize:"trim,strip" validate:"required,max=2000"`
}

// ContactProvider mails contact form submissions to the support inbox.
type ContactProvider struct {
	Mailer  *mailer.Mailer
	Queue   mailer.Enqueuer
	Support mailer.Recipient
	Logger  *slog.Logger
}

// NewContactForm builds the contact form handler posting to submitURL.
func NewContactForm(p *ContactProvider, submitURL string) *ajaxform.Handler {
	form := ajaxform.MustNew(ContactFormID, "Contacto",
		ajaxform.WithSubmit(submitURL, http.MethodPost),
		ajaxform.WithTarget("Message"),
		ajaxform.WithOnSuccess("contact:sent", "body"),
	)
	return ajaxform.NewHandler(form, p, ajaxform.WithLogger(p.Logger))
}

func (p *ContactProvider) DefaultData(context.Context, url.Values) (ajaxform.Data, error) {
	return ajaxform.Data{"name": "", "email": "", "message": ""}, nil
}

func (p *ContactProvider) ProcessSubmit(ctx context.Context, res *ajaxform.Responder, data ajaxform.Data) error {
	var req ContactRequest
	if err := data.Decode(&req); err != nil {
		return ajaxform.NewError(http.StatusBadRequest, "Datos del formulario no válidos.")
	}
	if err := sanitizer.SanitizeStruct(&req); err != nil {
		return err
	}
	if err := validator.ValidateStruct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return res.Error(http.StatusUnprocessableEntity, verrs.Messages()...)
		}
		return err
	}

	err := p.Mailer.Queue(ctx, p.Queue, mailer.Message{
		To:       p.Support,
		Template: "contact.md",
		ReplyTo:  mailer.FormatAddress(req.Name, req.Email),
		Data: map[string]any{
			"name":    req.Name,
			"email":   req.Email,
			"message": req.Message,
		},
		Tags: map[string]string{"kind": "contact"},
	})
	if err != nil {
		return err
	}
	return res.OK(ajaxform.Data{"message": MsgContactSent})
}
