package model

import (
	"time"

	"github.com/google/uuid"
)

// DealModel mirrors the 'deals' table. CustomerID is optional: a deal may be
// tracked before it is linked to a customer record.
type DealModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BusinessID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID        *uuid.UUID `gorm:"type:uuid;index"`
	Title             string     `gorm:"type:varchar(255);not null"`
	Value             float64    `gorm:"type:numeric(14,2);not null"`
	Currency          string     `gorm:"type:varchar(3);not null"`
	Stage             string     `gorm:"type:varchar(20);not null"`
	ExpectedCloseDate *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Customer *CustomerModel `gorm:"foreignKey:CustomerID"`
}

// TableName explicitly sets the table name for GORM.
func (DealModel) TableName() string {
	return "deals"
}
