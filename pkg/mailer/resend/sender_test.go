package resend

import (
	"testing"

	"github.com/resend/resend-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carrier/pkg/mailer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.ErrorIs(t, err, ErrNoAPIKey)

	s, err := New(Config{APIKey: "re_test"})
	require.NoError(t, err)
	assert.NotNil(t, s.client)
}

func TestRequest(t *testing.T) {
	t.Parallel()

	req := request(&mailer.Email{
		From:    "Carrier <no-reply@example.com>",
		To:      []string{"Ana <ana@example.com>"},
		CC:      []string{"cc@example.com"},
		ReplyTo: "help@example.com",
		Subject: "Hola",
		HTML:    "<p>Hola</p>",
		Text:    "Hola",
		Headers: map[string]string{"X-Mailer": mailer.XMailer},
		Tags:    map[string]string{"kind": "welcome", "app": "carrier"},
		Attachments: []mailer.Attachment{
			{Filename: "a.txt", ContentType: "text/plain", Content: []byte("a")},
		},
	})

	assert.Equal(t, "Carrier <no-reply@example.com>", req.From)
	assert.Equal(t, []string{"Ana <ana@example.com>"}, req.To)
	assert.Equal(t, []string{"cc@example.com"}, req.Cc)
	assert.Equal(t, "help@example.com", req.ReplyTo)
	assert.Equal(t, "Hola", req.Subject)
	assert.Equal(t, "<p>Hola</p>", req.Html)
	assert.Equal(t, "Hola", req.Text)
	assert.Equal(t, mailer.XMailer, req.Headers["X-Mailer"])
	assert.Equal(t, []resend.Tag{{Name: "app", Value: "carrier"}, {Name: "kind", Value: "welcome"}}, req.Tags)
	require.Len(t, req.Attachments, 1)
	assert.Equal(t, "a.txt", req.Attachments[0].Filename)
	assert.Equal(t, []byte("a"), req.Attachments[0].Content)
}
