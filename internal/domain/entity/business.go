package entity

import (
	"time"

	"github.com/google/uuid"
)

// Industry is the business sector bucket chosen at signup.
type Industry string

const (
	IndustryRetail     Industry = "retail"
	IndustryTech       Industry = "tech"
	IndustryServices   Industry = "services"
	IndustryEducation  Industry = "education"
	IndustryHealthcare Industry = "healthcare"
	IndustryOther      Industry = "other"
)

// String returns the string representation of the Industry.
func (i Industry) String() string {
	return string(i)
}

// IsValid checks if the Industry is a valid value.
func (i Industry) IsValid() bool {
	switch i {
	case IndustryRetail, IndustryTech, IndustryServices, IndustryEducation, IndustryHealthcare, IndustryOther:
		return true
	default:
		return false
	}
}

// TeamSize is the headcount bucket chosen at signup.
type TeamSize string

const (
	TeamSizeMicro  TeamSize = "1-5"
	TeamSizeSmall  TeamSize = "6-20"
	TeamSizeMedium TeamSize = "21-50"
	TeamSizeLarge  TeamSize = "50+"
)

// String returns the string representation of the TeamSize.
func (s TeamSize) String() string {
	return string(s)
}

// IsValid checks if the TeamSize is a valid value.
func (s TeamSize) IsValid() bool {
	switch s {
	case TeamSizeMicro, TeamSizeSmall, TeamSizeMedium, TeamSizeLarge:
		return true
	default:
		return false
	}
}

// DefaultCountry is applied when signup leaves the country blank and when a
// business is lazily provisioned.
const DefaultCountry = "Nigeria"

// Business is the tenant every customer, deal and ticket record belongs to.
// Each user owns at most one business, enforced by a unique index on the
// owning-user column.
type Business struct {
	ID        uuid.UUID
	UserID    uuid.UUID // The owning user; 1:1.
	Name      string
	Industry  Industry
	TeamSize  TeamSize
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
