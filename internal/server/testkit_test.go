package server

import (
	"strconv"
	"testing"
	"time"

	"diplomat/internal/config"
	"diplomat/internal/database"
	"diplomat/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-key-for-handler-tests-only"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	cfg := &config.Config{
		JWTSecret: testJWTSecret,
		Port:      "0",
		Env:       "test",
	}
	return NewServerWithDeps(cfg, db, nil), db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ExternalID: "ext_" + username,
		Username:   username,
		Email:      username + "@example.com",
		Role:       models.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createTestAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	admin := createTestUser(t, db, username)
	if err := db.Model(admin).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("promote admin: %v", err)
	}
	admin.Role = models.RoleAdmin
	return admin
}

func createTestListing(t *testing.T, db *gorm.DB, owner *models.User, listingType string) *models.Listing {
	t.Helper()
	mileage := 42000
	area := 120
	listing := &models.Listing{
		UserID:            owner.ID,
		ListingType:       listingType,
		Title:             "Test " + listingType,
		Description:       "A perfectly ordinary " + listingType,
		Price:             15000,
		Currency:          "USD",
		AdvertisementType: models.AdTypeSale,
		Status:            models.ListingStatusApproved,
		Visible:           true,
	}
	if listingType == models.ListingTypeHouse {
		listing.Area = &area
	} else {
		listing.Mileage = &mileage
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return listing
}

// asUser mounts a handler with the authenticated user pre-set, bypassing the
// JWT middleware. Token validation has its own test.
func asUser(userID uint, handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return handler(c)
	}
}

func signTestToken(t *testing.T, userID uint, issuer, audience string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"iss": issuer,
		"aud": audience,
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
