package session

import "errors"

var (
	// ErrNotConfigured is returned when session features are used on an
	// app built without WithSession.
	ErrNotConfigured = errors.New("session: not configured")

	ErrNotFound     = errors.New("session: not found")
	ErrExpired      = errors.New("session: expired")
	ErrInvalidToken = errors.New("session: invalid token")
)
