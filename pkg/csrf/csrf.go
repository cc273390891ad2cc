// Package csrf issues and checks single-use anti-forgery tokens kept in
// per-session state.
//
// A token is stored under a caller-chosen key, typically derived from a
// form ID. [Validate] removes the stored token whenever one exists, so a
// token can be checked at most once whether or not it matched.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// TokenBytes is the entropy of a token; its hex form is twice as long.
const TokenBytes = 32

// Storage is the session-scoped key-value state tokens live in.
// *session.Session satisfies it.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// Generate returns a new random token as 64 lowercase hex characters.
func Generate() string {
	b := make([]byte, TokenBytes)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Issue generates a token, stores it under key and returns it.
// A previous token under the same key is replaced.
func Issue(st Storage, key string) string {
	tok := Generate()
	st.Set(key, tok)
	return tok
}

// Validate reports whether submitted matches the token stored under key.
// Any stored token is consumed before the comparison.
func Validate(st Storage, key, submitted string) bool {
	stored, ok := st.Get(key)
	if !ok {
		return false
	}
	st.Delete(key)

	if stored == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}

// MapStorage is an in-memory Storage for callers without a session.
type MapStorage map[string]string

func (m MapStorage) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapStorage) Set(key, value string) { m[key] = value }
func (m MapStorage) Delete(key string)     { delete(m, key) }
