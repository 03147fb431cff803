package repository

import (
	"context"
	"errors"
	"testing"

	"diplomat/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.PushSubscription{},
		&models.Listing{},
		&models.Review{},
		&models.ReviewLike{},
		&models.Report{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func repoUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{ExternalID: "ext_" + name, Username: name, Email: name + "@e.com", Role: models.RoleUser}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func repoListing(t *testing.T, db *gorm.DB, owner *models.User) *models.Listing {
	t.Helper()
	mileage := 100
	listing := &models.Listing{
		UserID:            owner.ID,
		ListingType:       models.ListingTypeCar,
		Title:             "repo car",
		Price:             1000,
		Currency:          "USD",
		AdvertisementType: models.AdTypeSale,
		Status:            models.ListingStatusApproved,
		Visible:           true,
		Mileage:           &mileage,
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return listing
}

func TestReviewCreateDuplicateTranslated(t *testing.T) {
	t.Parallel()
	db := setupRepoDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)

	owner := repoUser(t, db, "dup_owner")
	reviewer := repoUser(t, db, "dup_reviewer")
	listing := repoListing(t, db, owner)

	first := &models.Review{UserID: reviewer.ID, ListingID: listing.ID, TargetUserID: owner.ID, Rating: 3, Comment: "ok"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := &models.Review{UserID: reviewer.ID, ListingID: listing.ID, TargetUserID: owner.ID, Rating: 5, Comment: "again"}
	err := repo.Create(ctx, second)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAddLikeIdempotent(t *testing.T) {
	t.Parallel()
	db := setupRepoDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)

	owner := repoUser(t, db, "like_owner")
	reviewer := repoUser(t, db, "like_reviewer")
	liker := repoUser(t, db, "like_liker")
	listing := repoListing(t, db, owner)

	review := &models.Review{UserID: reviewer.ID, ListingID: listing.ID, TargetUserID: owner.ID, Rating: 4, Comment: "nice"}
	if err := repo.Create(ctx, review); err != nil {
		t.Fatalf("create review: %v", err)
	}

	inserted, err := repo.AddLike(ctx, review.ID, liker.ID)
	if err != nil || !inserted {
		t.Fatalf("first like: inserted=%v err=%v", inserted, err)
	}

	inserted, err = repo.AddLike(ctx, review.ID, liker.ID)
	if err != nil {
		t.Fatalf("second like errored: %v", err)
	}
	if inserted {
		t.Errorf("second like must report not inserted")
	}

	count, err := repo.CountLikes(ctx, review.ID)
	if err != nil || count != 1 {
		t.Errorf("expected 1 like, got %d (err=%v)", count, err)
	}
}

func TestReportTransition(t *testing.T) {
	t.Parallel()
	db := setupRepoDB(t)
	ctx := context.Background()
	repo := NewReportRepository(db)

	reporter := repoUser(t, db, "tr_reporter")
	target := repoUser(t, db, "tr_target")
	admin := repoUser(t, db, "tr_admin")

	report := &models.Report{
		EntityType: models.ReportEntityUser,
		EntityID:   target.ID,
		ReportType: models.ReportTypeSpam,
		ReportedBy: reporter.ID,
		Status:     models.ReportStatusPending,
	}
	if err := repo.Create(ctx, report); err != nil {
		t.Fatalf("create report: %v", err)
	}

	if err := repo.Transition(ctx, report.ID, models.ReportStatusRejected, "no violation", admin.ID); err != nil {
		t.Fatalf("transition: %v", err)
	}

	updated, err := repo.GetByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.Status != models.ReportStatusRejected {
		t.Errorf("expected rejected, got %q", updated.Status)
	}
	if updated.ReviewedBy == nil || *updated.ReviewedBy != admin.ID {
		t.Errorf("reviewed_by not stamped")
	}
	if updated.ReviewedAt == nil {
		t.Errorf("reviewed_at not stamped")
	}
	if updated.EntityID != target.ID || updated.ReportedBy != reporter.ID {
		t.Errorf("transition must not touch target fields")
	}

	if err := repo.Transition(ctx, 999999, models.ReportStatusResolved, "", admin.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for missing report, got %v", err)
	}
}

func TestMarkManyReadOwnershipScope(t *testing.T) {
	t.Parallel()
	db := setupRepoDB(t)
	ctx := context.Background()
	repo := NewNotificationRepository(db)

	alice := repoUser(t, db, "mm_alice")
	bob := repoUser(t, db, "mm_bob")

	var aliceIDs []uint
	for i := 0; i < 3; i++ {
		n := &models.Notification{UserID: alice.ID, Title: "t", Message: "m", Type: "info", Category: "system"}
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("create: %v", err)
		}
		aliceIDs = append(aliceIDs, n.ID)
	}
	bobN := &models.Notification{UserID: bob.ID, Title: "t", Message: "m", Type: "info", Category: "system"}
	if err := repo.Create(ctx, bobN); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.MarkManyRead(ctx, append(aliceIDs, bobN.ID), alice.ID)
	if err != nil {
		t.Fatalf("mark many: %v", err)
	}
	if updated != 3 {
		t.Errorf("expected 3 updated rows, got %d", updated)
	}

	var bobStored models.Notification
	db.First(&bobStored, bobN.ID)
	if bobStored.IsRead {
		t.Errorf("foreign notification must not be marked read")
	}

	updated, err = repo.MarkManyRead(ctx, nil, alice.ID)
	if err != nil || updated != 0 {
		t.Errorf("empty id set should be a no-op, got %d (err=%v)", updated, err)
	}
}

func TestUserUpsertPushSubscription(t *testing.T) {
	t.Parallel()
	db := setupRepoDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	user := repoUser(t, db, "push_user")

	if err := repo.UpsertPushSubscription(ctx, &models.PushSubscription{UserID: user.ID, Endpoint: "https://a.example/1"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.UpsertPushSubscription(ctx, &models.PushSubscription{UserID: user.ID, Endpoint: "https://a.example/2"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	sub, err := repo.GetPushSubscription(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sub.Endpoint != "https://a.example/2" {
		t.Errorf("expected replaced endpoint, got %q", sub.Endpoint)
	}

	var count int64
	db.Model(&models.PushSubscription{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected single row, got %d", count)
	}
}
