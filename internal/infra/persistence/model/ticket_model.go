package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketModel mirrors the 'tickets' table.
type TicketModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BusinessID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID  *uuid.UUID `gorm:"type:uuid;index"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:text"`
	Status      string     `gorm:"type:varchar(20);not null;index"`
	Priority    string     `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Customer *CustomerModel `gorm:"foreignKey:CustomerID"`
}

// TableName explicitly sets the table name for GORM.
func (TicketModel) TableName() string {
	return "tickets"
}
