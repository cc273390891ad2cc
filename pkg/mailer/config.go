package mailer

// Config holds the mailer settings parsed from the environment.
type Config struct {
	From            string `env:"MAIL_FROM" envDefault:"no-reply@localhost"`
	ReplyTo         string `env:"MAIL_REPLY_TO"`
	FallbackSubject string `env:"MAIL_FALLBACK_SUBJECT" envDefault:"Notificación"`
	Layout          string `env:"MAIL_LAYOUT" envDefault:"base.html"`

	// Filled from the app configuration, not the environment.
	AppName string
	AppURL  string
}
