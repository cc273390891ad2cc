package middlewares

import (
	"github.com/dmitrymomot/carrier/internal"
	"github.com/dmitrymomot/carrier/pkg/session"
)

// SessionLockOption configures SessionLock.
type SessionLockOption func(*sessionLockConfig)

type sessionLockConfig struct {
	locker     *session.Locker
	cookieName string
}

// WithSessionLocker shares a locker between several route groups.
func WithSessionLocker(l *session.Locker) SessionLockOption {
	return func(cfg *sessionLockConfig) {
		if l != nil {
			cfg.locker = l
		}
	}
}

// WithSessionLockCookie must match the name given to WithSessionCookieName.
func WithSessionLockCookie(name string) SessionLockOption {
	return func(cfg *sessionLockConfig) {
		if name != "" {
			cfg.cookieName = name
		}
	}
}

// SessionLock serializes requests that carry the same session cookie, so
// a CSRF token cannot be issued by one request while another consumes it.
// Install it first with WithMiddleware so every route that touches the
// session is covered. A session loaded by an earlier middleware is read
// again once the lock is held. Pending session changes are saved before
// the lock is released. Requests without a session cookie run unlocked.
func SessionLock(opts ...SessionLockOption) internal.Middleware {
	cfg := &sessionLockConfig{cookieName: internal.DefaultSessionCookieName}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.locker == nil {
		cfg.locker = session.NewLocker()
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ck, err := c.Request().Cookie(cfg.cookieName)
			if err != nil || ck.Value == "" {
				return next(c)
			}

			unlock := cfg.locker.Lock(ck.Value)
			defer unlock()

			c.ReloadSession()
			err = next(c)
			if serr := c.SaveSession(); serr != nil {
				c.LogError("failed to save session", "error", serr)
			}
			return err
		}
	}
}

