// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"diplomat/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// SeedOptions tunes factory behaviour.
type SeedOptions struct {
	// MaxDays spreads created_at timestamps over this many days in the past.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (f *Factory) spreadCreatedAt() time.Time {
	daysBack := f.rng.Intn(f.opts.MaxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		ExternalID: "ext_" + gofakeit.UUID(),
		Username:   gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:      gofakeit.Email(),
		Role:       models.RoleUser,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateListing constructs and persists a sample `models.Listing` owned by
// the given user. The listing type decides which numeric attribute is set.
func (f *Factory) CreateListing(user *models.User, listingType string, overrides ...func(*models.Listing)) (*models.Listing, error) {
	adTypes := []string{models.AdTypeRent, models.AdTypeSale}
	listing := &models.Listing{
		UserID:            user.ID,
		ListingType:       listingType,
		Description:       gofakeit.Paragraph(1, 3, 5, "\n"),
		Currency:          "USD",
		AdvertisementType: adTypes[f.rng.Intn(len(adTypes))],
		Status:            models.ListingStatusApproved,
		Visible:           true,
		ImageURLs: []string{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		},
		CreatedAt: f.spreadCreatedAt(),
	}

	switch listingType {
	case models.ListingTypeHouse:
		listing.Title = fmt.Sprintf("%d-bedroom %s in %s", gofakeit.Number(1, 5), gofakeit.RandomString([]string{"apartment", "house", "villa"}), gofakeit.City())
		listing.Price = float64(gofakeit.Number(400, 5000))
		area := gofakeit.Number(40, 400)
		listing.Area = &area
	default:
		listing.Title = fmt.Sprintf("%s %s %d", gofakeit.CarMaker(), gofakeit.CarModel(), gofakeit.Number(2005, 2024))
		listing.Price = float64(gofakeit.Number(3000, 80000))
		mileage := gofakeit.Number(0, 250000)
		listing.Mileage = &mileage
	}

	for _, override := range overrides {
		override(listing)
	}

	if err := f.db.Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// CreateReview constructs and persists a sample `models.Review` on the given
// listing authored by the given user.
func (f *Factory) CreateReview(user *models.User, listing *models.Listing, overrides ...func(*models.Review)) (*models.Review, error) {
	review := &models.Review{
		UserID:       user.ID,
		ListingID:    listing.ID,
		TargetUserID: listing.UserID,
		Rating:       gofakeit.Number(models.MinRating, models.MaxRating),
		Comment:      gofakeit.Sentence(12),
		CreatedAt:    f.spreadCreatedAt(),
	}

	for _, override := range overrides {
		override(review)
	}

	if err := f.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// CreateLike persists a like from `user` on `review`.
func (f *Factory) CreateLike(user *models.User, review *models.Review) error {
	like := &models.ReviewLike{
		ReviewID: review.ID,
		UserID:   user.ID,
	}
	return f.db.Create(like).Error
}

// CreateReport persists a report filed by `reporter` against the given entity.
func (f *Factory) CreateReport(reporter *models.User, entityType string, entityID uint, overrides ...func(*models.Report)) (*models.Report, error) {
	reasons := []string{
		models.ReportTypeSpam, models.ReportTypeHarassment,
		models.ReportTypeInappropriate, models.ReportTypeMisinformation,
		models.ReportTypeOther,
	}
	report := &models.Report{
		EntityType:  entityType,
		EntityID:    entityID,
		ReportType:  reasons[f.rng.Intn(len(reasons))],
		Description: gofakeit.Sentence(10),
		ReportedBy:  reporter.ID,
		Status:      models.ReportStatusPending,
	}

	for _, override := range overrides {
		override(report)
	}

	if err := f.db.Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// CreateNotification persists a notification in the given user's mailbox.
func (f *Factory) CreateNotification(user *models.User, overrides ...func(*models.Notification)) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:    user.ID,
		Title:     gofakeit.Sentence(4),
		Message:   gofakeit.Sentence(10),
		Type:      models.NotificationTypeInfo,
		Category:  models.NotificationCategorySystem,
		CreatedAt: f.spreadCreatedAt(),
	}

	for _, override := range overrides {
		override(notification)
	}

	if err := f.db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}
