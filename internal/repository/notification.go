package repository

import (
	"context"
	"time"

	"diplomat/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification outbox data operations
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) (bool, error)
	MarkManyRead(ctx context.Context, ids []uint, userID uint) (int64, error)
	Delete(ctx context.Context, id, userID uint) (bool, error)
	CountSince(ctx context.Context, userID uint, since time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips is_read on a single notification owned by userID. Returns
// false when no owned row matched.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}

// MarkManyRead flips is_read for the owned subset of ids in one set-based
// update. Ids belonging to other users are silently excluded by the WHERE
// clause; a read-modify-write loop here would lose updates under concurrent
// requests from the same user on different devices.
func (r *notificationRepository) MarkManyRead(ctx context.Context, ids []uint, userID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id IN ? AND user_id = ?", ids, userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	return res.RowsAffected > 0, res.Error
}

func (r *notificationRepository) CountSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND created_at > ?", userID, since).
		Count(&count).Error
	return count, err
}
