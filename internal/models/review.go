package models

import (
	"time"
)

// Rating bounds for reviews (inclusive).
const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a rating+comment left on a listing. At most one review
// per (author, listing); the composite unique index backs the handler-level
// pre-check so racing submissions still collapse to one row.
type Review struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"not null;uniqueIndex:idx_review_user_listing" json:"user_id"`
	User         User   `gorm:"foreignKey:UserID" json:"user"`
	ListingID    uint   `gorm:"not null;uniqueIndex:idx_review_user_listing;index" json:"listing_id"`
	TargetUserID uint   `gorm:"not null;index" json:"target_user_id"`
	Rating       int    `gorm:"not null" json:"rating"`
	Comment      string `gorm:"type:text" json:"comment"`
	// LikesCount is not persisted; computed at query time
	LikesCount int       `gorm:"->" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReviewLike is one user's like on a review. Membership toggles; the unique
// index makes the toggle race-safe.
type ReviewLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null;uniqueIndex:idx_review_like" json:"review_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
