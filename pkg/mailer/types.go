package mailer

import "fmt"

// XMailer is sent as the X-Mailer header of every message.
const XMailer = "Carrier"

// Recipient is the addressee of a templated message.
type Recipient struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Address formats the recipient as "Name <email>".
func (r Recipient) Address() string {
	name := r.FirstName
	if r.LastName != "" {
		name += " " + r.LastName
	}
	return FormatAddress(name, r.Email)
}

// FormatAddress returns "name <email>", or email alone when name is empty.
func FormatAddress(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email is a rendered message ready for a Sender.
type Email struct {
	From        string
	ReplyTo     string
	To          []string
	CC          []string
	BCC         []string
	Subject     string
	HTML        string
	Text        string
	Headers     map[string]string
	Tags        map[string]string
	Attachments []Attachment
}

// Attachment is a file sent with an Email.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Content     []byte `json:"content"`
}
