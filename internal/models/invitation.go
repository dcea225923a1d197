package models

import (
	"time"

	"gorm.io/gorm"
)

// InvitationStatus defines the stored state of a team invitation.
type InvitationStatus string

const (
	// InvitationStatusPending indicates an invitation awaiting a response.
	InvitationStatusPending InvitationStatus = "pending"
	// InvitationStatusAccepted indicates the invitee joined the team.
	InvitationStatusAccepted InvitationStatus = "accepted"
	// InvitationStatusDeclined indicates the invitee declined. Terminal.
	InvitationStatusDeclined InvitationStatus = "declined"
)

// InvitationTTL is how long a pending invitation remains redeemable.
const InvitationTTL = 7 * 24 * time.Hour

// TeamInvitation records an offer to join a store's team. Rows are never
// deleted; accepted and declined invitations remain as an audit trail.
// Expiry is derived from ExpiresAt at read time and never written back.
type TeamInvitation struct {
	ID         string           `gorm:"primaryKey;size:36" json:"id"`
	StoreID    string           `gorm:"size:36;not null;index" json:"store_id"`
	Email      string           `gorm:"size:255;not null;index" json:"email"`
	Role       Role             `gorm:"type:varchar(20);not null" json:"role"`
	InvitedBy  string           `gorm:"size:36;not null" json:"invited_by"`
	InvitedAt  time.Time        `json:"invited_at"`
	Status     InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ExpiresAt  time.Time        `json:"expires_at"`
	AcceptedAt *time.Time       `json:"accepted_at,omitempty"`
	DeclinedAt *time.Time       `json:"declined_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// BeforeCreate assigns an opaque ID when none was provided.
func (i *TeamInvitation) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &i.ID)
	return nil
}

// Expired reports whether the invitation is past its expiry at the given
// instant. Status stays "pending" in storage; expiry is always computed.
func (i *TeamInvitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
