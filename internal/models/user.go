// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User roles. Role is stored with the user record and re-checked on every
// admin-gated mutation; the JWT role claim alone is never trusted.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account provisioned from the external identity provider.
// Credentials and sessions live with the provider; we only keep the profile
// and the role used for moderation gating.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;not null" json:"external_id"`
	Username   string    `gorm:"not null" json:"username"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Role       string    `gorm:"not null;default:user" json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PushSubscription stores the caller-registered push endpoint used for
// best-effort fan-out from the check-new poll. One endpoint per user.
type PushSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Endpoint  string    `gorm:"not null" json:"endpoint"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
