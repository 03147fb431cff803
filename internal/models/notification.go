package models

import (
	"time"
)

// Notification types.
const (
	NotificationTypeInfo    = "info"
	NotificationTypeSuccess = "success"
	NotificationTypeWarning = "warning"
	NotificationTypeError   = "error"
	NotificationTypeUpdate  = "update"
	NotificationTypeRequest = "request"
)

// Notification categories.
const (
	NotificationCategoryCar     = "car"
	NotificationCategoryHouse   = "house"
	NotificationCategoryAccount = "account"
	NotificationCategorySystem  = "system"
)

// Notification is one entry in a user's outbox. Rows are written only by
// internal call sites (like/report/delete side effects, provisioning); the
// API never lets one user author a notification for another. The only
// permitted mutation is flipping is_read.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_notification_user_created" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"not null;default:info" json:"type"`
	Category  string    `gorm:"not null;default:system" json:"category"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_notification_user_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidNotificationType reports whether t is a known notification type.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning,
		NotificationTypeError, NotificationTypeUpdate, NotificationTypeRequest:
		return true
	}
	return false
}

// ValidNotificationCategory reports whether c is a known notification category.
func ValidNotificationCategory(c string) bool {
	switch c {
	case NotificationCategoryCar, NotificationCategoryHouse,
		NotificationCategoryAccount, NotificationCategorySystem:
		return true
	}
	return false
}
