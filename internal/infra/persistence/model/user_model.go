// Package model contains the GORM persistence models mirroring the database
// tables. Mapping to and from domain entities happens in the postgres package.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email            string    `gorm:"type:varchar(255);unique;not null"`
	FullName         string    `gorm:"type:varchar(100)"`
	EmailConfirmedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Credentials   []CredentialModel   `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:UserID"`
	Business      *BusinessModel      `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
