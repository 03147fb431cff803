package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"diplomat/internal/models"
	"diplomat/internal/notifications"
	"diplomat/internal/repository"

	"gorm.io/gorm"
)

// ReviewService owns review creation, deletion, and the like toggle.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	listingRepo repository.ListingRepository
	outbox      *notifications.Outbox
}

// CreateReviewInput carries a new review submission.
type CreateReviewInput struct {
	UserID    uint
	ListingID uint
	Rating    int
	Comment   string
}

// LikeResult reports the post-toggle state of a review's like set.
type LikeResult struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// NewReviewService returns a new ReviewService.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	listingRepo repository.ListingRepository,
	outbox *notifications.Outbox,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		listingRepo: listingRepo,
		outbox:      outbox,
	}
}

const maxReviewCommentLen = 2000

// CreateReview records a review on a listing. One review per user per
// listing; listing owners cannot review their own listing.
func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	if in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return nil, models.NewValidationError("Rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, models.NewValidationError("Comment is required")
	}
	if len(comment) > maxReviewCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	listing, err := s.listingRepo.GetByID(ctx, in.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Listing", in.ListingID)
		}
		return nil, err
	}
	if listing.UserID == in.UserID {
		return nil, models.NewValidationError("You cannot review your own listing")
	}

	exists, err := s.reviewRepo.ExistsByUserAndListing(ctx, in.UserID, in.ListingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("You have already reviewed this product")
	}

	review := &models.Review{
		UserID:       in.UserID,
		ListingID:    in.ListingID,
		TargetUserID: listing.UserID,
		Rating:       in.Rating,
		Comment:      comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// A concurrent submission can slip past the pre-check; the unique
		// index reports it as a duplicate and the caller sees the same
		// conflict either way.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewConflictError("You have already reviewed this product")
		}
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, listingID uint, limit, offset int) ([]*models.Review, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Listing", listingID)
		}
		return nil, err
	}
	return s.reviewRepo.ListByListing(ctx, listingID, limit, offset)
}

// ToggleLike flips the caller's like on a review. Liking notifies the review
// author exactly once per absent-to-present transition; unliking is silent.
func (s *ReviewService) ToggleLike(ctx context.Context, reviewID, userID uint) (*LikeResult, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Review", reviewID)
		}
		return nil, err
	}

	liked, err := s.reviewRepo.HasLike(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		if err := s.reviewRepo.RemoveLike(ctx, reviewID, userID); err != nil {
			return nil, err
		}
	} else {
		inserted, err := s.reviewRepo.AddLike(ctx, reviewID, userID)
		if err != nil {
			return nil, err
		}
		if inserted && review.UserID != userID {
			s.outbox.WriteBestEffort(ctx, &models.Notification{
				UserID:   review.UserID,
				Title:    "Your review was liked",
				Message:  "Someone liked your review",
				Type:     models.NotificationTypeInfo,
				Category: models.NotificationCategorySystem,
				Link:     fmt.Sprintf("/listings/%d", review.ListingID),
			})
		}
	}

	likes, err := s.reviewRepo.CountLikes(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: !liked, Likes: likes}, nil
}

// DeleteReview removes a review. Only its author may delete it; the listing
// owner is told their review count changed.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID uint) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Review", reviewID)
		}
		return err
	}
	if review.UserID != userID {
		return models.NewForbiddenError("You can only delete your own reviews")
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	if review.TargetUserID != 0 && review.TargetUserID != userID {
		s.outbox.WriteBestEffort(ctx, &models.Notification{
			UserID:   review.TargetUserID,
			Title:    "A review was removed",
			Message:  "A review on your listing was removed by its author",
			Type:     models.NotificationTypeUpdate,
			Category: models.NotificationCategorySystem,
			Link:     fmt.Sprintf("/listings/%d", review.ListingID),
		})
	}
	return nil
}
