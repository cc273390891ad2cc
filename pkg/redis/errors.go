package redis

import "errors"

var (
	ErrEmptyURL          = errors.New("redis: empty connection url")
	ErrParseURL          = errors.New("redis: failed to parse connection url")
	ErrConnect           = errors.New("redis: failed to connect")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
