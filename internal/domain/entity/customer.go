package entity

import (
	"time"

	"github.com/google/uuid"
)

// CustomerStatus tracks where a customer sits in the relationship.
type CustomerStatus string

const (
	CustomerStatusLead     CustomerStatus = "lead"
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// String returns the string representation of the CustomerStatus.
func (s CustomerStatus) String() string {
	return string(s)
}

// IsValid checks if the CustomerStatus is a valid value.
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusLead, CustomerStatusActive, CustomerStatusInactive:
		return true
	default:
		return false
	}
}

// Customer is a tenant-scoped contact record.
type Customer struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID // The owning tenant; every query filters on it.
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	CompanyName string
	Status      CustomerStatus
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullName returns the customer's display name.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
