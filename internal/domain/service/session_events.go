package service

import (
	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionEventType labels a session state change.
type SessionEventType string

const (
	// SessionSignedIn fires when a session is established by login, signup
	// or code exchange.
	SessionSignedIn SessionEventType = "SIGNED_IN"

	// SessionRefreshed fires when an existing session's token pair rotates.
	SessionRefreshed SessionEventType = "TOKEN_REFRESHED"

	// SessionSignedOut fires when a session is revoked.
	SessionSignedOut SessionEventType = "SIGNED_OUT"
)

// SessionEvent describes one session state change. The callback resolver
// subscribes to these to detect a session established by a concurrent request
// (an email-client link prefetcher consuming the exchange code, for example).
type SessionEvent struct {
	Type    SessionEventType
	UserID  uuid.UUID
	Session *entity.Session // Nil for SIGNED_OUT.
}

// SessionSubscription is one listener's handle on the event stream. Close
// must be safe to call multiple times and from any goroutine.
type SessionSubscription interface {
	// C returns the channel events arrive on. The channel is closed when the
	// subscription is closed.
	C() <-chan SessionEvent

	// Close detaches the subscription and releases its resources.
	Close()
}

// SessionEvents is an in-process broadcaster of session state changes.
type SessionEvents interface {
	// Publish delivers an event to all current subscribers without blocking
	// the publisher.
	Publish(event SessionEvent)

	// Subscribe registers a new listener.
	Subscribe() SessionSubscription
}
