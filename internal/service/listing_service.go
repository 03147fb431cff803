// Package service implements the business rules on top of the repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"diplomat/internal/models"
	"diplomat/internal/repository"

	"gorm.io/gorm"
)

// ListingService owns listing lifecycle and the ownership gate.
type ListingService struct {
	listingRepo repository.ListingRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

// CreateListingInput carries a new listing submission.
type CreateListingInput struct {
	UserID            uint
	ListingType       string
	Title             string
	Description       string
	Price             float64
	Currency          string
	AdvertisementType string
	Mileage           *int
	Area              *int
	PaymentID         string
	ImageURLs         []string
}

// UpdateListingInput carries an owner-authorized mutation.
type UpdateListingInput struct {
	UserID      uint
	ListingID   uint
	Title       string
	Description string
	Price       *float64
	Currency    string
	AdvertisementType string
	Mileage     *int
	Area        *int
	Visible     *bool
	ImageURLs   []string
}

// NewListingService returns a new ListingService.
func NewListingService(
	listingRepo repository.ListingRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		isAdmin:     isAdmin,
	}
}

const maxListingTitleLen = 200

func (s *ListingService) CreateListing(ctx context.Context, in CreateListingInput) (*models.Listing, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxListingTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if !models.ValidListingType(in.ListingType) {
		return nil, models.NewValidationError("listing_type must be car or house")
	}
	if !models.ValidAdvertisementType(in.AdvertisementType) {
		return nil, models.NewValidationError("advertisement_type must be rent or sale")
	}
	if in.Price < 0 {
		return nil, models.NewValidationError("Price must be a non-negative number")
	}

	switch in.ListingType {
	case models.ListingTypeCar:
		if in.Mileage == nil || *in.Mileage < 0 {
			return nil, models.NewValidationError("Mileage is required for cars and must be non-negative")
		}
		in.Area = nil
	case models.ListingTypeHouse:
		if in.Area == nil || *in.Area < 0 {
			return nil, models.NewValidationError("Area is required for houses and must be non-negative")
		}
		in.Mileage = nil
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}

	listing := &models.Listing{
		UserID:            in.UserID,
		ListingType:       in.ListingType,
		Title:             title,
		Description:       strings.TrimSpace(in.Description),
		Price:             in.Price,
		Currency:          currency,
		AdvertisementType: in.AdvertisementType,
		Status:            models.ListingStatusPending,
		Visible:           true,
		ImageURLs:         in.ImageURLs,
		PaymentID:         in.PaymentID,
		Mileage:           in.Mileage,
		Area:              in.Area,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *ListingService) GetListing(ctx context.Context, id uint) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Listing", id)
		}
		return nil, err
	}
	return listing, nil
}

func (s *ListingService) ListListings(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*models.Listing, error) {
	if filter.ListingType != "" && !models.ValidListingType(filter.ListingType) {
		return nil, models.NewValidationError("listing_type must be car or house")
	}
	if filter.Status != "" && !models.ValidListingStatus(filter.Status) {
		return nil, models.NewValidationError("Invalid status filter")
	}
	return s.listingRepo.List(ctx, filter, limit, offset)
}

// UpdateListing applies an owner-only mutation. The ownership check is
// re-derived from the stored row on every call, never from the session.
func (s *ListingService) UpdateListing(ctx context.Context, in UpdateListingInput) (*models.Listing, error) {
	listing, err := s.GetListing(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.UserID != in.UserID {
		return nil, models.NewForbiddenError("You do not own this listing")
	}

	if in.Title != "" {
		title := strings.TrimSpace(in.Title)
		if len(title) > maxListingTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		listing.Title = title
	}
	if in.Description != "" {
		listing.Description = strings.TrimSpace(in.Description)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, models.NewValidationError("Price must be a non-negative number")
		}
		listing.Price = *in.Price
	}
	if in.Currency != "" {
		listing.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	}
	if in.AdvertisementType != "" {
		if !models.ValidAdvertisementType(in.AdvertisementType) {
			return nil, models.NewValidationError("advertisement_type must be rent or sale")
		}
		listing.AdvertisementType = in.AdvertisementType
	}
	if in.Mileage != nil {
		if listing.ListingType != models.ListingTypeCar || *in.Mileage < 0 {
			return nil, models.NewValidationError("Mileage applies to cars and must be non-negative")
		}
		listing.Mileage = in.Mileage
	}
	if in.Area != nil {
		if listing.ListingType != models.ListingTypeHouse || *in.Area < 0 {
			return nil, models.NewValidationError("Area applies to houses and must be non-negative")
		}
		listing.Area = in.Area
	}
	if in.Visible != nil {
		listing.Visible = *in.Visible
	}
	if in.ImageURLs != nil {
		listing.ImageURLs = in.ImageURLs
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteListing removes a listing. Only the owner or an admin may delete.
func (s *ListingService) DeleteListing(ctx context.Context, listingID, userID uint) error {
	listing, err := s.GetListing(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.UserID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You do not own this listing")
		}
	}
	return s.listingRepo.Delete(ctx, listingID)
}
