// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProviderTypeEmail is the credential provider for email/password sign-in.
// Kept as a string so additional providers can be linked later without a
// schema change.
const ProviderTypeEmail = "email"

// User is the core identity record. It carries the profile metadata captured
// at signup; everything tenant-related lives on the Business entity.
type User struct {
	ID               uuid.UUID  // The unique identifier for the user.
	Email            string     // The user's login identifier.
	FullName         string     // Display name captured as signup metadata.
	EmailConfirmedAt *time.Time // Set when the email confirmation link is exchanged. Nil while pending.
	CreatedAt        time.Time  // Timestamp of when this account was created.
	UpdatedAt        time.Time  // Timestamp of the last modification.
}

// EmailConfirmed reports whether the user has completed email verification.
func (u *User) EmailConfirmed() bool {
	return u.EmailConfirmedAt != nil
}

// DisplayName returns the best available human-readable name: the full name
// from signup metadata, falling back to the local part of the email.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}

	return u.Email
}

// Credential represents a single method of logging in. An email/password
// pair is one record; a future federated identity would be another.
type Credential struct {
	ID             uuid.UUID // The unique ID for this credential record.
	UserID         uuid.UUID // Links this credential to the User it belongs to.
	Provider       string    // The authentication provider, currently only "email".
	ProviderUserID string    // The user's identifier at the provider; the email address for the email provider.
	PasswordHash   string    // bcrypt hash, only set when Provider is "email".
	CreatedAt      time.Time // Timestamp of when this credential was created.
}
