package seed

import (
	"fmt"
	"log"

	"diplomat/internal/models"

	"gorm.io/gorm"
)

// Seeder orchestrates demo data creation.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, SeedOptions{})}
}

// ClearAll deletes all seeded domain data. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []interface{}{
		&models.Notification{},
		&models.Report{},
		&models.ReviewLike{},
		&models.Review{},
		&models.Listing{},
		&models.PushSubscription{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", table, err)
		}
	}
	return nil
}

// SeedMarketplace populates users, listings, reviews, likes, reports, and
// notifications in realistic proportions.
func (s *Seeder) SeedMarketplace(numUsers, numListings int) error {
	log.Println("Starting database seeding...")

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	if len(users) > 0 {
		if err := s.db.Model(users[0]).Update("role", models.RoleAdmin).Error; err != nil {
			return fmt.Errorf("failed to promote admin: %w", err)
		}
	}
	log.Printf("Created %d users (1 admin)", len(users))

	listings := make([]*models.Listing, 0, numListings)
	for i := 0; i < numListings; i++ {
		owner := users[s.factory.rng.Intn(len(users))]
		listingType := models.ListingTypeCar
		if i%2 == 1 {
			listingType = models.ListingTypeHouse
		}
		listing, err := s.factory.CreateListing(owner, listingType)
		if err != nil {
			return fmt.Errorf("failed to create listing: %w", err)
		}
		listings = append(listings, listing)
	}
	log.Printf("Created %d listings", len(listings))

	reviews := make([]*models.Review, 0)
	for _, listing := range listings {
		for _, user := range users {
			if user.ID == listing.UserID || s.factory.rng.Intn(4) != 0 {
				continue
			}
			review, err := s.factory.CreateReview(user, listing)
			if err != nil {
				return fmt.Errorf("failed to create review: %w", err)
			}
			reviews = append(reviews, review)
		}
	}
	log.Printf("Created %d reviews", len(reviews))

	likes := 0
	for _, review := range reviews {
		for _, user := range users {
			if user.ID == review.UserID || s.factory.rng.Intn(5) != 0 {
				continue
			}
			if err := s.factory.CreateLike(user, review); err != nil {
				continue // duplicate like from the unique index, skip
			}
			likes++
		}
	}
	log.Printf("Created %d likes", likes)

	reports := 0
	for _, review := range reviews {
		if s.factory.rng.Intn(10) != 0 {
			continue
		}
		reporter := users[s.factory.rng.Intn(len(users))]
		if reporter.ID == review.UserID {
			continue
		}
		if _, err := s.factory.CreateReport(reporter, models.ReportEntityReview, review.ID); err != nil {
			continue
		}
		reports++
	}
	log.Printf("Created %d reports", reports)

	notifications := 0
	for _, user := range users {
		n := s.factory.rng.Intn(6)
		for i := 0; i < n; i++ {
			if _, err := s.factory.CreateNotification(user); err != nil {
				return fmt.Errorf("failed to create notification: %w", err)
			}
			notifications++
		}
	}
	log.Printf("Created %d notifications", notifications)

	log.Println("Seeding complete")
	return nil
}
