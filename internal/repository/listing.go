package repository

import (
	"context"

	"diplomat/internal/cache"
	"diplomat/internal/models"

	"gorm.io/gorm"
)

// ListingFilter narrows listing browse queries.
type ListingFilter struct {
	ListingType string
	Status      string
	UserID      uint // 0 means any owner
	PublicOnly  bool // restrict to approved + visible
}

// ListingRepository defines the interface for listing data operations
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	List(ctx context.Context, filter ListingFilter, limit, offset int) ([]*models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id uint) error
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := cache.Aside(ctx, cache.ListingKey(id), &listing, cache.ListingTTL, func() error {
		return r.db.WithContext(ctx).Preload("User").First(&listing, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) List(ctx context.Context, filter ListingFilter, limit, offset int) ([]*models.Listing, error) {
	query := r.db.WithContext(ctx).Model(&models.Listing{}).Preload("User")

	if filter.ListingType != "" {
		query = query.Where("listing_type = ?", filter.ListingType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.PublicOnly {
		query = query.Where("status = ? AND visible = ?", models.ListingStatusApproved, true)
	}

	var listings []*models.Listing
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Update(ctx context.Context, listing *models.Listing) error {
	err := r.db.WithContext(ctx).Save(listing).Error
	if err == nil {
		cache.InvalidateListing(ctx, listing.ID)
	}
	return err
}

func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&models.Listing{}, id).Error
	if err == nil {
		cache.InvalidateListing(ctx, id)
	}
	return err
}
