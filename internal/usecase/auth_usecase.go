// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"crm/internal/domain/entity"
)

// --- Input DTOs ---

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupInput defines the data required to register a new account. The
// business fields seed the tenant provisioned alongside the user.
type SignupInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	FullName     string `json:"fullName" validate:"required"`
	BusinessName string `json:"businessName" validate:"required,max=255"`
	Industry     string `json:"industry" validate:"required,oneof=retail tech services education healthcare other"`
	TeamSize     string `json:"teamSize" validate:"required,oneof=1-5 6-20 21-50 50+"`
	Country      string `json:"country" validate:"omitempty,max=100"`
}

// --- Output DTOs ---

// AuthOutput returns the session established by login, refresh or exchange.
type AuthOutput struct {
	User       *entity.User
	Session    *entity.Session
	RedirectTo string
}

// SignupOutput returns the result of a signup. With confirmation required
// there is no session yet; the user must follow the emailed link.
type SignupOutput struct {
	User                *entity.User
	Session             *entity.Session // Nil when confirmation is pending.
	PendingConfirmation bool
	RedirectTo          string // Empty when confirmation is pending.
}

// AuthUsecase defines the interface for authentication operations.
// This is the contract the delivery layer depends on.
type AuthUsecase interface {
	// Login authenticates an email/password pair and establishes a session.
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)

	// Signup registers a new account, provisions its tenant and either
	// establishes a session or defers to email confirmation.
	Signup(ctx context.Context, input SignupInput) (*SignupOutput, error)

	// Signout revokes the session behind the given refresh token. Unknown or
	// malformed tokens are tolerated; sign-out always succeeds.
	Signout(ctx context.Context, refreshToken string) error

	// Refresh rotates a session's token pair. The old refresh token is
	// revoked; its JWT and stored hash must both still be valid.
	Refresh(ctx context.Context, refreshToken string) (*AuthOutput, error)

	// CurrentUser resolves the user behind a valid access token.
	CurrentUser(ctx context.Context, accessToken string) (*entity.User, error)

	// ExchangeCode redeems a single-use email confirmation code, marks the
	// email confirmed and establishes a session.
	ExchangeCode(ctx context.Context, code string) (*AuthOutput, error)
}
