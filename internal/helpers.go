package internal

import (
	"strconv"

	"github.com/dmitrymomot/carrier/pkg/session"
)

// ContextValue returns the value stored under key with Set, or T's zero value.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

type scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// Param returns a URL parameter converted to T, or T's zero value.
func Param[T scalar](c Context, name string) T {
	v, _ := parse[T](c.Param(name))
	return v
}

// Query returns a query parameter converted to T, or T's zero value.
func Query[T scalar](c Context, name string) T {
	v, _ := parse[T](c.Query(name))
	return v
}

// QueryDefault returns a query parameter converted to T, or def when it is
// missing or malformed.
func QueryDefault[T scalar](c Context, name string, def T) T {
	if v, ok := parse[T](c.Query(name)); ok {
		return v
	}
	return def
}

// SessionJSON decodes a session value stored with Session.SetJSON.
// Returns session.ErrNotFound when there is no session or no such key.
func SessionJSON[T any](c Context, key string) (T, error) {
	sess, err := c.Session()
	if err != nil {
		var zero T
		return zero, err
	}
	return session.JSON[T](sess, key)
}

func parse[T scalar](raw string) (T, bool) {
	var zero T
	if raw == "" {
		return zero, false
	}

	var (
		v   any
		err error
	)
	switch any(zero).(type) {
	case string:
		v = raw
	case int:
		v, err = strconv.Atoi(raw)
	case int64:
		v, err = strconv.ParseInt(raw, 10, 64)
	case float64:
		v, err = strconv.ParseFloat(raw, 64)
	case bool:
		v, err = strconv.ParseBool(raw)
	default:
		return zero, false
	}
	if err != nil {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
