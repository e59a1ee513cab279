package service

import (
	"context"
	"time"
)

// Auth event types published for downstream consumers (analytics, CRM sync).
const (
	AuthEventUserSignedUp   = "user.signed_up"
	AuthEventSessionCreated = "session.created"
	AuthEventSessionRevoked = "session.revoked"
)

// AuthEvent is the payload published to the external event stream. Unlike
// SessionEvent it never carries tokens; it is safe to leave the process.
type AuthEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAuthEvent publishes an auth event for async processing.
	PublishAuthEvent(ctx context.Context, event *AuthEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
