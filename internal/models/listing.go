package models

import (
	"time"

	"gorm.io/gorm"
)

// Listing types.
const (
	ListingTypeCar   = "car"
	ListingTypeHouse = "house"
)

// Advertisement types.
const (
	AdTypeRent = "rent"
	AdTypeSale = "sale"
)

// Listing statuses. New listings start pending until payment review approves
// them; only approved+visible listings appear in public browse results.
const (
	ListingStatusPending  = "pending"
	ListingStatusApproved = "approved"
	ListingStatusRejected = "rejected"
)

// Listing represents a car or house advertisement owned by a user.
// Cars require a non-negative mileage, houses a non-negative area; the unused
// field stays nil.
type Listing struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	User              User           `gorm:"foreignKey:UserID" json:"user"`
	ListingType       string         `gorm:"not null;index" json:"listing_type"`
	Title             string         `gorm:"not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description"`
	Price             float64        `gorm:"not null" json:"price"`
	Currency          string         `gorm:"not null;default:USD" json:"currency"`
	AdvertisementType string         `gorm:"not null" json:"advertisement_type"`
	Status            string         `gorm:"not null;default:pending;index" json:"status"`
	Visible           bool           `gorm:"not null;default:true" json:"visible"`
	ImageURLs         []string       `gorm:"serializer:json" json:"image_urls"`
	PaymentID         string         `json:"payment_id,omitempty"`
	Mileage           *int           `json:"mileage,omitempty"`
	Area              *int           `json:"area,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidListingType reports whether t is a known listing type.
func ValidListingType(t string) bool {
	return t == ListingTypeCar || t == ListingTypeHouse
}

// ValidAdvertisementType reports whether t is a known advertisement type.
func ValidAdvertisementType(t string) bool {
	return t == AdTypeRent || t == AdTypeSale
}

// ValidListingStatus reports whether s is a known listing status.
func ValidListingStatus(s string) bool {
	return s == ListingStatusPending || s == ListingStatusApproved || s == ListingStatusRejected
}
