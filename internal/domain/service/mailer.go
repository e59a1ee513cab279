package service

import "context"

// Mailer sends transactional email. The only message this system sends today
// is the signup confirmation link.
type Mailer interface {
	// Send delivers a plain-text message to a single recipient.
	Send(ctx context.Context, to, subject, body string) error
}
