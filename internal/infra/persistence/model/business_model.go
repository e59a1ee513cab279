package model

import (
	"time"

	"github.com/google/uuid"
)

// BusinessModel mirrors the 'businesses' table. The unique index on UserID
// enforces the one-business-per-user rule at the database level, so concurrent
// provisioning attempts collapse to a single winner.
type BusinessModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Industry  string    `gorm:"type:varchar(50);not null"`
	TeamSize  string    `gorm:"type:varchar(20);not null"`
	Country   string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (BusinessModel) TableName() string {
	return "businesses"
}
