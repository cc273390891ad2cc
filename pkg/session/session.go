package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

// Session is the per-visitor state carried between requests.
// Values are plain strings so every store round-trips them unchanged;
// structured data goes through SetJSON and JSON.
type Session struct {
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	Values    map[string]string `json:"values,omitempty"`
	ID        string            `json:"id"`
	Token     string            `json:"token"`     // cookie value, rotated on login
	UserID    string            `json:"user_id"`   // empty for anonymous sessions
	Groups    []string          `json:"groups"`    // permission groups of the user
	IP        string            `json:"ip"`
	UserAgent string            `json:"user_agent"`

	dirty bool
	isNew bool
}

// New creates a fresh, unsaved session.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Values:       make(map[string]string),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// IsAuthenticated reports whether a user is logged in on this session.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != ""
}

// Authenticate binds the session to a user and the user's permission groups.
func (s *Session) Authenticate(userID string, groups ...string) {
	s.UserID = userID
	s.Groups = slices.Clone(groups)
	s.dirty = true
}

// HasGroup reports whether the user belongs to at least one of groups.
func (s *Session) HasGroup(groups ...string) bool {
	for _, g := range groups {
		if slices.Contains(s.Groups, g) {
			return true
		}
	}
	return false
}

func (s *Session) Set(key, val string) {
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	s.Values[key] = val
	s.dirty = true
}

func (s *Session) Get(key string) (string, bool) {
	val, ok := s.Values[key]
	return val, ok
}

// Delete marks the session dirty only when the key existed.
func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

// Pop returns the value and removes it.
func (s *Session) Pop(key string) (string, bool) {
	val, ok := s.Values[key]
	if ok {
		s.Delete(key)
	}
	return val, ok
}

// SetJSON stores v encoded as JSON.
func (s *Session) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: encode %q: %w", key, err)
	}
	s.Set(key, string(data))
	return nil
}

func (s *Session) IsDirty() bool { return s.dirty }
func (s *Session) MarkDirty()    { s.dirty = true }
func (s *Session) ClearDirty()   { s.dirty = false }
func (s *Session) IsNew() bool   { return s.isNew }
func (s *Session) ClearNew()     { s.isNew = false }

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Values = maps.Clone(s.Values)
	c.Groups = slices.Clone(s.Groups)
	return &c
}

// JSON decodes a value stored with SetJSON.
// Returns ErrNotFound when the key is absent.
func JSON[T any](s *Session, key string) (T, error) {
	var v T
	if s == nil {
		return v, ErrNotFound
	}
	raw, ok := s.Get(key)
	if !ok {
		return v, ErrNotFound
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, fmt.Errorf("session: decode %q: %w", key, err)
	}
	return v, nil
}

// ValueOr returns the string value or def when the key is absent.
func ValueOr(s *Session, key, def string) string {
	if s == nil {
		return def
	}
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}
