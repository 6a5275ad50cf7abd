package session

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventUserUpdated    EventType = "USER_UPDATED"
)

// Event is an auth-state change for one session.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	Timestamp string    `json:"timestamp"`
}

// Publisher delivers events to whoever listens on the session.
type Publisher interface {
	Publish(evt Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

func newEvent(t EventType, sessionID string, userID uuid.UUID, now time.Time) Event {
	return Event{Type: t, SessionID: sessionID, UserID: userID, Timestamp: now.UTC().Format(time.RFC3339)}
}
