package usecase

import (
	"context"
	"time"

	"crm/internal/domain/entity"
)

// CallbackState is one step of the auth callback's resolution.
type CallbackState string

const (
	// CallbackInitializing is the state every resolution starts in.
	CallbackInitializing CallbackState = "initializing"

	// CallbackProcessing is entered while an exchange code is being redeemed
	// or a session is being awaited.
	CallbackProcessing CallbackState = "processing"

	// CallbackSuccess means a session is established; redirect follows.
	CallbackSuccess CallbackState = "success"

	// CallbackError is terminal; the result carries recovery affordances.
	CallbackError CallbackState = "error"
)

// ResolveCallbackInput carries the query parameters of the confirmation
// callback plus whatever session the request already holds.
type ResolveCallbackInput struct {
	Code             string
	ErrorCode        string
	ErrorDescription string

	// CurrentSession is the session carried by the request's cookies, already
	// validated by the caller. Nil when the request is unauthenticated.
	CurrentSession *entity.Session
}

// CallbackRecovery lists the paths offered to the user after a failure.
type CallbackRecovery struct {
	Retry    bool
	Login    string
	Register string
}

// CallbackResult is the resolver's terminal answer.
type CallbackResult struct {
	State CallbackState

	// Path records every state the resolution passed through, in order,
	// ending with State.
	Path []CallbackState

	Message    string
	RedirectTo string

	// RedirectDelay is how long the UI should wait before following
	// RedirectTo. Zero for error results.
	RedirectDelay time.Duration

	// Session is set on success when the resolution itself established or
	// adopted a session. Nil when the request's existing session was used.
	Session *entity.Session

	// Recovery is set on error results.
	Recovery *CallbackRecovery
}

// CallbackUsecase resolves the email-confirmation callback.
type CallbackUsecase interface {
	// Resolve drives the callback state machine to a terminal state. It
	// never returns an error; failures are expressed as an error-state
	// result so the handler always has something to render.
	Resolve(ctx context.Context, input ResolveCallbackInput) *CallbackResult
}
