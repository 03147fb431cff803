package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"diplomat/internal/middleware"
	"diplomat/internal/models"
	"diplomat/internal/observability"
	"diplomat/internal/repository"
)

// Outbox writes notifications into a user's mailbox and publishes a realtime
// event for connected clients. It is the only code path that creates
// notifications; handlers never let one user author a notification for
// another directly.
type Outbox struct {
	repo     repository.NotificationRepository
	notifier *Notifier
	sleep    func(time.Duration) // injectable for tests
}

// NewOutbox creates an outbox writer.
func NewOutbox(repo repository.NotificationRepository, notifier *Notifier) *Outbox {
	return &Outbox{
		repo:     repo,
		notifier: notifier,
		sleep:    time.Sleep,
	}
}

// Write validates and persists the notification with a single attempt.
func (o *Outbox) Write(ctx context.Context, n *models.Notification) error {
	return o.WriteWithPolicy(ctx, n, SingleAttempt())
}

// WriteWithPolicy validates and persists the notification, retrying per the
// policy. The realtime publish after a successful write is best-effort.
func (o *Outbox) WriteWithPolicy(ctx context.Context, n *models.Notification, policy RetryPolicy) error {
	if !models.ValidNotificationType(n.Type) {
		return models.NewValidationError("Invalid notification type")
	}
	if !models.ValidNotificationCategory(n.Category) {
		return models.NewValidationError("Invalid notification category")
	}

	var err error
	attempts := policy.attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		err = o.repo.Create(ctx, n)
		if err == nil {
			break
		}
		if attempt < attempts {
			middleware.Logger.WarnContext(ctx, "notification write failed, retrying",
				slog.Int("attempt", attempt),
				slog.Any("recipient", n.UserID),
				slog.String("error", err.Error()),
			)
			o.sleep(policy.delay(attempt))
		}
	}
	if err != nil {
		observability.NotificationsWritten.WithLabelValues(n.Category, "error").Inc()
		return err
	}
	observability.NotificationsWritten.WithLabelValues(n.Category, "ok").Inc()

	o.publish(ctx, n)
	return nil
}

// WriteBestEffort performs Write and swallows the error, logging it. Used by
// side-effect call sites (likes, report resolution) where notification
// failure must never fail the primary operation.
func (o *Outbox) WriteBestEffort(ctx context.Context, n *models.Notification) {
	if err := o.Write(ctx, n); err != nil {
		middleware.Logger.ErrorContext(ctx, "best-effort notification dropped",
			slog.Any("recipient", n.UserID),
			slog.String("category", n.Category),
			slog.String("error", err.Error()),
		)
	}
}

func (o *Outbox) publish(ctx context.Context, n *models.Notification) {
	if o.notifier == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	if err := o.notifier.PublishUser(ctx, n.UserID, string(payload)); err != nil {
		middleware.Logger.WarnContext(ctx, "realtime notification publish failed",
			slog.Any("recipient", n.UserID),
			slog.String("error", err.Error()),
		)
	}
}
