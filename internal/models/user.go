package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated account that can own stores,
// hold team memberships, and redeem coupons as a customer.
type User struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Email       string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	DisplayName string         `gorm:"size:120" json:"display_name"`
	Password    string         `gorm:"not null" json:"-"`
	AvatarURL   string         `json:"avatar_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an opaque ID when none was provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &u.ID)
	return nil
}
