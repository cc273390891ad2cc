// Package config loads the application configuration from the environment.
//
// A .env file in the working directory is read first when present. Variables
// already set in the process environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/carrier/pkg/db"
	"github.com/dmitrymomot/carrier/pkg/logger"
	"github.com/dmitrymomot/carrier/pkg/mailer"
	"github.com/dmitrymomot/carrier/pkg/mailer/resend"
	"github.com/dmitrymomot/carrier/pkg/redis"
)

// MinSecretLength is the minimum length of SESSION_SECRET outside dev mode.
const MinSecretLength = 32

var (
	ErrParse   = errors.New("config: failed to parse environment")
	ErrInvalid = errors.New("config: invalid configuration")
)

// App is the complete application configuration. It is built once at
// startup and passed explicitly to every component.
type App struct {
	Name     string `env:"APP_NAME" envDefault:"Carrier"`
	URL      string `env:"APP_URL" envDefault:"http://localhost:8080"`
	PathBase string `env:"APP_PATH_BASE"`
	Addr     string `env:"APP_ADDR" envDefault:":8080"`
	DevMode  bool   `env:"APP_DEV_MODE"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	CookieDomain  string        `env:"COOKIE_DOMAIN"`

	// Disables CSRF checks of static forms. Never set in production.
	DisableCSRF bool `env:"CSRF_DISABLED"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Free-form settings, e.g. APP_SETTINGS="support-phone:900100200,footer:on".
	Settings map[string]string `env:"APP_SETTINGS" envKeyValSeparator:":"`

	Log    logger.Config
	DB     db.Config
	Redis  redis.Config
	Email  EmailConfig
	Jobs   JobsConfig
	Limits LimitsConfig
}

// EmailConfig groups the mail settings.
type EmailConfig struct {
	Mailer mailer.Config
	Resend resend.Config
}

// JobsConfig tunes the background job workers.
type JobsConfig struct {
	Workers int  `env:"JOBS_WORKERS" envDefault:"10"`
	Enabled bool `env:"JOBS_ENABLED" envDefault:"true"`
}

// LimitsConfig holds request limits.
type LimitsConfig struct {
	MaxBodySize int64   `env:"MAX_BODY_SIZE" envDefault:"1048576"`
	RateLimit   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateBurst   int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// Load reads the optional .env files and parses the environment into App.
func Load(files ...string) (*App, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return Parse(env.Options{})
}

// Parse builds App from the process environment without touching .env files.
// Tests pass env.Options.Environment to supply variables.
func Parse(opts env.Options) (*App, error) {
	cfg, err := env.ParseAsWithOptions[App](opts)
	if err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that env tags cannot express.
func (a *App) Validate() error {
	u, err := url.Parse(a.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: APP_URL must be an absolute url", ErrInvalid)
	}
	a.URL = strings.TrimRight(a.URL, "/")

	if a.PathBase != "" {
		a.PathBase = "/" + strings.Trim(a.PathBase, "/")
	}

	if !a.DevMode {
		if len(a.SessionSecret) < MinSecretLength {
			return fmt.Errorf("%w: SESSION_SECRET must be at least %d characters", ErrInvalid, MinSecretLength)
		}
		if a.DisableCSRF {
			return fmt.Errorf("%w: CSRF_DISABLED is only allowed in dev mode", ErrInvalid)
		}
	}
	return nil
}

// Setting returns the additional setting key or def when it is not set.
func (a *App) Setting(key, def string) string {
	if v, ok := a.Settings[key]; ok {
		return v
	}
	return def
}
