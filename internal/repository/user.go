package repository

import (
	"context"

	"diplomat/internal/cache"
	"diplomat/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	IsAdmin(ctx context.Context, id uint) (bool, error)
	UpsertPushSubscription(ctx context.Context, sub *models.PushSubscription) error
	GetPushSubscription(ctx context.Context, userID uint) (*models.PushSubscription, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.db.WithContext(ctx).First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) IsAdmin(ctx context.Context, id uint) (bool, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("role").First(&user, id).Error; err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

func (r *userRepository) UpsertPushSubscription(ctx context.Context, sub *models.PushSubscription) error {
	existing := models.PushSubscription{}
	err := r.db.WithContext(ctx).Where("user_id = ?", sub.UserID).First(&existing).Error
	if err == nil {
		return r.db.WithContext(ctx).
			Model(&existing).
			Update("endpoint", sub.Endpoint).Error
	}
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *userRepository) GetPushSubscription(ctx context.Context, userID uint) (*models.PushSubscription, error) {
	var sub models.PushSubscription
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}
