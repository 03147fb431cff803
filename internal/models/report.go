package models

import (
	"time"
)

// Report target entity types.
const (
	ReportEntityReview = "review"
	ReportEntityUser   = "user"
	ReportEntityCar    = "car"
	ReportEntityHouse  = "house"
)

// Report reasons.
const (
	ReportTypeSpam           = "spam"
	ReportTypeHarassment     = "harassment"
	ReportTypeInappropriate  = "inappropriate"
	ReportTypeMisinformation = "misinformation"
	ReportTypeOther          = "other"
)

// Report lifecycle. Reports start pending; an admin moves them to one of the
// other states, stamping reviewed_by/reviewed_at. No further transitions are
// modeled.
const (
	ReportStatusPending  = "pending"
	ReportStatusReviewed = "reviewed"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

// Report is a user-filed complaint against a review, user, or listing.
// entity_type/entity_id/reported_by are immutable after creation; the unique
// index enforces one report per (entity, reporter).
type Report struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EntityType  string     `gorm:"not null;uniqueIndex:idx_report_entity_reporter;index" json:"entity_type"`
	EntityID    uint       `gorm:"not null;uniqueIndex:idx_report_entity_reporter" json:"entity_id"`
	ReportType  string     `gorm:"not null" json:"report_type"`
	Description string     `gorm:"type:text" json:"description"`
	ReportedBy  uint       `gorm:"not null;uniqueIndex:idx_report_entity_reporter;index" json:"reported_by"`
	Reporter    User       `gorm:"foreignKey:ReportedBy" json:"reporter"`
	Status      string     `gorm:"not null;default:pending;index" json:"status"`
	AdminNotes  string     `gorm:"type:text" json:"admin_notes"`
	ReviewedBy  *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ValidReportEntityType reports whether t is a known report target type.
func ValidReportEntityType(t string) bool {
	switch t {
	case ReportEntityReview, ReportEntityUser, ReportEntityCar, ReportEntityHouse:
		return true
	}
	return false
}

// ValidReportType reports whether t is a known report reason.
func ValidReportType(t string) bool {
	switch t {
	case ReportTypeSpam, ReportTypeHarassment, ReportTypeInappropriate,
		ReportTypeMisinformation, ReportTypeOther:
		return true
	}
	return false
}

// ValidReportStatus reports whether s is a state an admin may set.
func ValidReportStatus(s string) bool {
	switch s {
	case ReportStatusReviewed, ReportStatusResolved, ReportStatusRejected:
		return true
	}
	return false
}
