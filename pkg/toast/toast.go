package toast

import (
	"errors"
	"slices"

	"github.com/dmitrymomot/carrier/pkg/session"
)

// SessionKey holds the queued messages in the session.
const SessionKey = "carrier_session_messages"

// Kind of a message.
type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

// Message is a single queued notification.
type Message struct {
	Kind    Kind   `json:"type"`
	Content string `json:"content"`
}

// AddError queues an error message.
func AddError(s *session.Session, content string) error {
	return add(s, KindError, content)
}

// AddSuccess queues a success message.
func AddSuccess(s *session.Session, content string) error {
	return add(s, KindSuccess, content)
}

// AnyErrors reports whether at least one queued message is an error.
func AnyErrors(s *session.Session) bool {
	return slices.ContainsFunc(List(s), func(m Message) bool { return m.Kind == KindError })
}

// List returns the queued messages without removing them.
// A missing or unreadable queue is reported as empty.
func List(s *session.Session) []Message {
	msgs, err := session.JSON[[]Message](s, SessionKey)
	if err != nil {
		return nil
	}
	return msgs
}

// Pop returns the queued messages and empties the queue.
func Pop(s *session.Session) []Message {
	msgs := List(s)
	if s != nil {
		s.Delete(SessionKey)
	}
	return msgs
}

var errNoSession = errors.New("toast: no session")

func add(s *session.Session, kind Kind, content string) error {
	if s == nil {
		return errNoSession
	}
	msgs := append(List(s), Message{Kind: kind, Content: content})
	return s.SetJSON(SessionKey, msgs)
}
