package entity

import (
	"time"

	"github.com/google/uuid"
)

// DealStage is the kanban pipeline column a deal sits in.
type DealStage string

const (
	DealStageLead      DealStage = "lead"
	DealStageQualified DealStage = "qualified"
	DealStageWon       DealStage = "won"
	DealStageLost      DealStage = "lost"
)

// String returns the string representation of the DealStage.
func (s DealStage) String() string {
	return string(s)
}

// IsValid checks if the DealStage is a valid value.
func (s DealStage) IsValid() bool {
	switch s {
	case DealStageLead, DealStageQualified, DealStageWon, DealStageLost:
		return true
	default:
		return false
	}
}

// Deal is a tenant-scoped pipeline opportunity, optionally linked to a customer.
type Deal struct {
	ID                uuid.UUID
	BusinessID        uuid.UUID
	CustomerID        *uuid.UUID // Nil when the deal is not linked to a customer.
	Title             string
	Value             float64
	Currency          string
	Stage             DealStage
	ExpectedCloseDate *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Customer *Customer // Preloaded contact, nil unless the query asked for it.
}
