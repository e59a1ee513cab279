package usecase

import (
	"context"

	"github.com/google/uuid"
)

// InsightUsecase generates model-written text about a tenant's CRM records.
// All lookups are scoped to the acting user's business.
type InsightUsecase interface {
	// CustomerSummary writes a short summary of a customer's relationship
	// from their profile, deals and tickets.
	CustomerSummary(ctx context.Context, userID, customerID uuid.UUID) (string, error)

	// DealNextAction suggests the single most useful next step for a deal.
	DealNextAction(ctx context.Context, userID, dealID uuid.UUID) (string, error)

	// MessageDraft writes a short WhatsApp-style message to a customer with
	// the given intent.
	MessageDraft(ctx context.Context, userID, customerID uuid.UUID, intent string) (string, error)
}
