package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the authenticated-request credential pair issued after a
// successful login, signup or code exchange. The access token is a short-lived
// JWT; the refresh token is long-lived and stored hashed server-side.
type Session struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // Expiry of the access token.
}

// RefreshToken is the persisted half of a session. Only a SHA-256 hash of the
// raw token is stored for comparison.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the refresh token is past its expiry.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ExchangeCode is a single-use code delivered in an email confirmation link
// and exchanged for a Session at the callback endpoint. The raw code never
// touches the database; only its SHA-256 hash does.
type ExchangeCode struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CodeHash  string
	ExpiresAt time.Time
	UsedAt    *time.Time // Set atomically when the code is consumed.
	CreatedAt time.Time
}

// Usable reports whether the code can still be exchanged.
func (c *ExchangeCode) Usable(now time.Time) bool {
	return c.UsedAt == nil && now.Before(c.ExpiresAt)
}
