package repository

import (
	"context"

	"diplomat/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likesCountSelect computes the like count without loading the membership rows.
const likesCountSelect = "reviews.*, (SELECT COUNT(*) FROM review_likes WHERE review_likes.review_id = reviews.id) AS likes_count"

// ReviewRepository defines the interface for review and like data operations
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	ListByListing(ctx context.Context, listingID uint, limit, offset int) ([]*models.Review, error)
	ExistsByUserAndListing(ctx context.Context, userID, listingID uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	HasLike(ctx context.Context, reviewID, userID uint) (bool, error)
	AddLike(ctx context.Context, reviewID, userID uint) (bool, error)
	RemoveLike(ctx context.Context, reviewID, userID uint) error
	CountLikes(ctx context.Context, reviewID uint) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(review).Error)
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Select(likesCountSelect).
		Preload("User").
		First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByListing(ctx context.Context, listingID uint, limit, offset int) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).
		Select(likesCountSelect).
		Preload("User").
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ExistsByUserAndListing(ctx context.Context, userID, listingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&models.ReviewLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Review{}, id).Error
	})
}

func (r *reviewRepository) HasLike(ctx context.Context, reviewID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReviewLike{}).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddLike inserts the membership row. Returns false when the row already
// existed (a concurrent like won the race); the unique index is the arbiter.
func (r *reviewRepository) AddLike(ctx context.Context, reviewID, userID uint) (bool, error) {
	like := models.ReviewLike{ReviewID: reviewID, UserID: userID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if res.Error != nil {
		if translateDuplicate(res.Error) == ErrDuplicate {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reviewRepository) RemoveLike(ctx context.Context, reviewID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Delete(&models.ReviewLike{}).Error
}

func (r *reviewRepository) CountLikes(ctx context.Context, reviewID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReviewLike{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error
	return count, err
}
