package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"diplomat/internal/models"
	"diplomat/internal/notifications"
	"diplomat/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.PushSubscription{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCheckNewTriggersPushFanout(t *testing.T) {
	t.Parallel()
	db := setupServiceDB(t)
	ctx := context.Background()

	user := &models.User{ExternalID: "ext_push", Username: "push_user", Email: "p@e.com", Role: models.RoleUser}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	var pushes []notifications.PushPayload
	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p notifications.PushPayload
		json.NewDecoder(r.Body).Decode(&p)
		pushes = append(pushes, p)
		w.WriteHeader(http.StatusOK)
	}))
	defer endpoint.Close()

	userRepo := repository.NewUserRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	svc := NewNotificationService(notifRepo, userRepo, notifications.NewPushClient())

	if err := svc.Subscribe(ctx, user.ID, endpoint.URL); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := notifRepo.Create(ctx, &models.Notification{
		UserID: user.ID, Title: "t", Message: "m", Type: "info", Category: "system",
	}); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	t.Run("new notifications push a wake-up", func(t *testing.T) {
		result, err := svc.CheckNew(ctx, user.ID, time.Now().Add(-time.Hour))
		if err != nil {
			t.Fatalf("check new: %v", err)
		}
		if result.Count != 1 {
			t.Errorf("expected count 1, got %d", result.Count)
		}
		if len(pushes) != 1 {
			t.Fatalf("expected 1 push delivery, got %d", len(pushes))
		}
		if pushes[0].Count != 1 {
			t.Errorf("push payload count mismatch: %+v", pushes[0])
		}
	})

	t.Run("no new notifications, no push", func(t *testing.T) {
		before := len(pushes)
		result, err := svc.CheckNew(ctx, user.ID, time.Now().Add(time.Hour))
		if err != nil {
			t.Fatalf("check new: %v", err)
		}
		if result.Count != 0 {
			t.Errorf("expected count 0, got %d", result.Count)
		}
		if len(pushes) != before {
			t.Errorf("push must not fire without new notifications")
		}
	})

	t.Run("push failure does not fail the poll", func(t *testing.T) {
		dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		defer dead.Close()
		if err := svc.Subscribe(ctx, user.ID, dead.URL); err != nil {
			t.Fatalf("subscribe: %v", err)
		}

		result, err := svc.CheckNew(ctx, user.ID, time.Now().Add(-time.Hour))
		if err != nil {
			t.Fatalf("check new must succeed despite push failure: %v", err)
		}
		if result.Count != 1 {
			t.Errorf("expected count 1, got %d", result.Count)
		}
	})
}

func TestSubscribeRejectsBadEndpoints(t *testing.T) {
	t.Parallel()
	db := setupServiceDB(t)
	svc := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		notifications.NewPushClient(),
	)

	for _, bad := range []string{"", "no-scheme.example.com", "ftp://x.example/y", "https://"} {
		if err := svc.Subscribe(context.Background(), 1, bad); err == nil {
			t.Errorf("endpoint %q should be rejected", bad)
		}
	}
}
