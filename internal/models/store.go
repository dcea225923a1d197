package models

import (
	"time"

	"gorm.io/gorm"
)

// StoreStatus defines the lifecycle state of a store.
type StoreStatus string

const (
	// StoreStatusActive indicates a store is live and serving traffic.
	StoreStatusActive StoreStatus = "active"
	// StoreStatusSuspended indicates a store is disabled by its owner or billing.
	StoreStatusSuspended StoreStatus = "suspended"
)

// Store represents a tenant: the unit of data isolation and ownership.
// The owner holds full authority implicitly through OwnerID; ownership is
// never mirrored into the team membership table.
type Store struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	Name         string      `gorm:"size:120;not null" json:"name"`
	Description  string      `gorm:"type:text" json:"description"`
	OwnerID      string      `gorm:"size:36;not null;index" json:"owner_id"`
	Owner        *User       `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	ContactEmail string      `gorm:"size:255" json:"contact_email"`
	Currency     string      `gorm:"size:3;default:'USD'" json:"currency"`
	LogoURL      string      `json:"logo_url"`
	Status       StoreStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	UpdatedBy    string      `gorm:"size:36" json:"updated_by"`
}

// TableName specifies the table name for GORM.
func (Store) TableName() string {
	return "stores"
}

// BeforeCreate assigns an opaque ID when none was provided.
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &s.ID)
	return nil
}
