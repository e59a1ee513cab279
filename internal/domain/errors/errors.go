// Package errors defines the application error taxonomy. Every error that can
// reach the delivery layer implements AppError so the HTTP error handler can
// map it to a status code and a stable business error code.
package errors

import (
	"net/http"

	"crm/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation errors
	ErrValidation = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_ERROR",
		"One or more required fields are missing or invalid",
		"",
	)

	// Authentication errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Incorrect email or password",
		"",
	)

	ErrEmailNotConfirmed = NewBaseError(
		http.StatusForbidden,
		"EMAIL_NOT_CONFIRMED",
		"Please confirm your email address before signing in",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"You must be signed in to do that",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"This email is already registered",
		"",
	)

	ErrSessionInvalid = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_INVALID",
		"Your session is invalid or has expired",
		"",
	)

	// Callback errors
	ErrCodeInvalid = NewBaseError(
		http.StatusUnauthorized,
		"CODE_INVALID",
		"The confirmation link is invalid or has already been used",
		"",
	)

	ErrCallbackTimeout = NewBaseError(
		http.StatusGatewayTimeout,
		"CALLBACK_TIMEOUT",
		"Session verification is taking longer than expected. Please try refreshing the page or logging in manually.",
		"",
	)

	// Tenant errors
	ErrBusinessNotFound = NewBaseError(
		http.StatusNotFound,
		"BUSINESS_NOT_FOUND",
		"No business found for this account",
		"",
	)

	ErrBusinessProvisionFailed = NewBaseError(
		http.StatusInternalServerError,
		"BUSINESS_PROVISION_FAILED",
		"Unable to set up your business. Please contact support.",
		"",
	)

	// Resource errors
	ErrCustomerNotFound = NewBaseError(
		http.StatusNotFound,
		"CUSTOMER_NOT_FOUND",
		"Customer not found",
		"",
	)

	ErrDealNotFound = NewBaseError(
		http.StatusNotFound,
		"DEAL_NOT_FOUND",
		"Deal not found",
		"",
	)

	ErrTicketNotFound = NewBaseError(
		http.StatusNotFound,
		"TICKET_NOT_FOUND",
		"Ticket not found",
		"",
	)

	// External provider errors
	ErrProvider = NewBaseError(
		http.StatusBadGateway,
		"PROVIDER_ERROR",
		"An upstream service failed. Please try again.",
		"",
	)

	ErrInsightsNotConfigured = NewBaseError(
		http.StatusServiceUnavailable,
		"INSIGHTS_NOT_CONFIGURED",
		"AI insights are not configured for this deployment",
		"",
	)
)

// NewValidationError returns a validation error whose details enumerate the
// offending fields, e.g. "full_name: required; password: min".
func NewValidationError(details string) *BaseError {
	return ErrValidation.WithDetails(details)
}

// NewDatabaseExecuteError wraps an unexpected database failure.
func NewDatabaseExecuteError(err error, message string) error {
	return errors.Wrap(
		NewBaseError(http.StatusInternalServerError, "DATABASE_ERROR", message, err.Error()),
		message,
	)
}
