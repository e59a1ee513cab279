package entity

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus tracks the lifecycle of a support ticket.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

// String returns the string representation of the TicketStatus.
func (s TicketStatus) String() string {
	return string(s)
}

// IsValid checks if the TicketStatus is a valid value.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusPending, TicketStatusResolved, TicketStatusClosed:
		return true
	default:
		return false
	}
}

// Active reports whether the ticket still needs attention.
func (s TicketStatus) Active() bool {
	return s != TicketStatusClosed
}

// TicketPriority ranks support tickets for triage.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// String returns the string representation of the TicketPriority.
func (p TicketPriority) String() string {
	return string(p)
}

// IsValid checks if the TicketPriority is a valid value.
func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	default:
		return false
	}
}

// Ticket is a tenant-scoped support request, optionally linked to a customer.
type Ticket struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	CustomerID  *uuid.UUID
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Customer *Customer // Preloaded contact, nil unless the query asked for it.
}
