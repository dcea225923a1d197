package models

import "time"

// Role defines a member's authority level within a store.
type Role string

const (
	// RoleOwner is the store owner role. It is derived from Store.OwnerID and
	// never granted through a membership record.
	RoleOwner Role = "owner"
	// RoleEditor can create, read, update, and delete within its module subject.
	RoleEditor Role = "editor"
	// RoleViewer has read-only access.
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Invitable reports whether r may be assigned through an invitation.
// The owner role cannot be invited.
func (r Role) Invitable() bool {
	return r == RoleEditor || r == RoleViewer
}

// TeamMembership maps users to stores and tracks their role.
// The store owner never has a membership row; absence of a row plus an
// OwnerID match implies the owner role.
type TeamMembership struct {
	StoreID   string    `gorm:"primaryKey;size:36" json:"store_id"`
	Store     *Store    `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	UserID    string    `gorm:"primaryKey;size:36" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'viewer'" json:"role"`
	InvitedAt time.Time `json:"invited_at"`
	JoinedAt  time.Time `json:"joined_at"`
	InvitedBy string    `gorm:"size:36" json:"invited_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
