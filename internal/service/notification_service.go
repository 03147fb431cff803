package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"diplomat/internal/middleware"
	"diplomat/internal/models"
	"diplomat/internal/notifications"
	"diplomat/internal/repository"

	"gorm.io/gorm"
)

// NotificationService exposes a user's notification mailbox. Every operation
// is scoped to the authenticated principal; there is no way to read or mutate
// another user's rows.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	push             *notifications.PushClient
}

// NewCheckResult is the answer to a since-when poll.
type NewCheckResult struct {
	Count int64 `json:"count"`
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	push *notifications.PushClient,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		push:             push,
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, limit, offset)
}

// MarkRead flips a single owned notification to read. An id that does not
// exist and an id owned by someone else are indistinguishable to the caller.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	ok, err := s.notificationRepo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

// MarkManyRead flips the owned subset of ids to read and returns how many
// rows changed. Foreign ids are skipped, not rejected.
func (s *NotificationService) MarkManyRead(ctx context.Context, ids []uint, userID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, models.NewValidationError("notification_ids is required")
	}
	return s.notificationRepo.MarkManyRead(ctx, ids, userID)
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id, userID uint) error {
	ok, err := s.notificationRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

// CheckNew counts notifications created after lastCheck. When new rows exist
// and the user registered a push endpoint, a wake-up is POSTed to it; push
// failure never fails the poll.
func (s *NotificationService) CheckNew(ctx context.Context, userID uint, lastCheck time.Time) (*NewCheckResult, error) {
	count, err := s.notificationRepo.CountSince(ctx, userID, lastCheck)
	if err != nil {
		return nil, err
	}

	if count > 0 && s.push != nil {
		sub, err := s.userRepo.GetPushSubscription(ctx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				middleware.Logger.WarnContext(ctx, "push subscription lookup failed",
					slog.Any("user_id", userID),
					slog.String("error", err.Error()),
				)
			}
			return &NewCheckResult{Count: count}, nil
		}
		if err := s.push.Send(ctx, sub.Endpoint, notifications.PushPayload{
			Title:   "New notifications",
			Message: fmt.Sprintf("You have %d new notifications", count),
			Count:   count,
			Link:    "/notifications",
		}); err != nil {
			middleware.Logger.WarnContext(ctx, "push delivery failed",
				slog.Any("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	return &NewCheckResult{Count: count}, nil
}

// Subscribe registers or replaces the user's push endpoint.
func (s *NotificationService) Subscribe(ctx context.Context, userID uint, endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.NewValidationError("endpoint must be a valid http(s) URL")
	}
	return s.userRepo.UpsertPushSubscription(ctx, &models.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
	})
}
