package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"diplomat/internal/models"

	"github.com/gofiber/fiber/v2"
)

func TestCreateListing(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := fiber.New()

	seller := createTestUser(t, db, "create_seller")
	app.Post("/listings", asUser(seller.ID, s.CreateListing))

	post := func(payload map[string]interface{}) (int, models.Listing) {
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		var listing models.Listing
		json.NewDecoder(resp.Body).Decode(&listing)
		return resp.StatusCode, listing
	}

	t.Run("car listing starts pending", func(t *testing.T) {
		status, listing := post(map[string]interface{}{
			"listing_type":       "car",
			"title":              "2019 Toyota Corolla",
			"description":        "One owner, full service history",
			"price":              14500,
			"advertisement_type": "sale",
			"mileage":            62000,
		})
		if status != http.StatusCreated {
			t.Fatalf("expected 201, got %d", status)
		}
		if listing.Status != models.ListingStatusPending {
			t.Errorf("expected pending status, got %q", listing.Status)
		}
		if listing.UserID != seller.ID {
			t.Errorf("expected owner %d, got %d", seller.ID, listing.UserID)
		}
		if listing.Currency != "USD" {
			t.Errorf("expected default USD, got %q", listing.Currency)
		}
	})

	t.Run("car without mileage rejected", func(t *testing.T) {
		status, _ := post(map[string]interface{}{
			"listing_type":       "car",
			"title":              "Mystery car",
			"price":              5000,
			"advertisement_type": "sale",
		})
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("house without area rejected", func(t *testing.T) {
		status, _ := post(map[string]interface{}{
			"listing_type":       "house",
			"title":              "Mystery house",
			"price":              900,
			"advertisement_type": "rent",
		})
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("unknown listing type rejected", func(t *testing.T) {
		status, _ := post(map[string]interface{}{
			"listing_type":       "boat",
			"title":              "Yacht",
			"price":              100000,
			"advertisement_type": "sale",
		})
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("negative price rejected", func(t *testing.T) {
		status, _ := post(map[string]interface{}{
			"listing_type":       "car",
			"title":              "Pay me to take it",
			"price":              -1,
			"advertisement_type": "sale",
			"mileage":            10,
		})
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})
}

func TestGetListingsPublicOnly(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := fiber.New()

	seller := createTestUser(t, db, "browse_seller")
	approved := createTestListing(t, db, seller, models.ListingTypeCar)

	mileage := 1000
	pending := &models.Listing{
		UserID:            seller.ID,
		ListingType:       models.ListingTypeCar,
		Title:             "Awaiting moderation",
		Price:             100,
		Currency:          "USD",
		AdvertisementType: models.AdTypeSale,
		Status:            models.ListingStatusPending,
		Visible:           true,
		Mileage:           &mileage,
	}
	db.Create(pending)

	hidden := &models.Listing{
		UserID:            seller.ID,
		ListingType:       models.ListingTypeCar,
		Title:             "Owner hid this",
		Price:             100,
		Currency:          "USD",
		AdvertisementType: models.AdTypeSale,
		Status:            models.ListingStatusApproved,
		Visible:           false,
		Mileage:           &mileage,
	}
	db.Create(hidden)

	app.Get("/listings", s.GetListings)

	req := httptest.NewRequest(http.MethodGet, "/listings", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var listings []models.Listing
	json.NewDecoder(resp.Body).Decode(&listings)
	if len(listings) != 1 {
		t.Fatalf("expected only the approved visible listing, got %d", len(listings))
	}
	if listings[0].ID != approved.ID {
		t.Errorf("expected listing %d, got %d", approved.ID, listings[0].ID)
	}
}

func TestUpdateListingOwnership(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := fiber.New()

	owner := createTestUser(t, db, "upd_owner")
	stranger := createTestUser(t, db, "upd_stranger")
	listing := createTestListing(t, db, owner, models.ListingTypeCar)

	app.Put("/listings/:id", asUser(owner.ID, s.UpdateListing))
	app.Put("/listings/:id/as-stranger", asUser(stranger.ID, s.UpdateListing))

	t.Run("stranger forbidden", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"title": "hijacked"})
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/listings/%d/as-stranger", listing.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("owner updates price", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"price": 13000})
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/listings/%d", listing.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var updated models.Listing
		db.First(&updated, listing.ID)
		if updated.Price != 13000 {
			t.Errorf("expected price 13000, got %v", updated.Price)
		}
	})

	t.Run("area rejected on a car", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"area": 80})
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/listings/%d", listing.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestDeleteListing(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := fiber.New()

	owner := createTestUser(t, db, "dl_owner")
	stranger := createTestUser(t, db, "dl_stranger")
	admin := createTestAdmin(t, db, "dl_admin")

	app.Delete("/listings/:id", asUser(owner.ID, s.DeleteListing))
	app.Delete("/listings/:id/as-stranger", asUser(stranger.ID, s.DeleteListing))
	app.Delete("/listings/:id/as-admin", asUser(admin.ID, s.DeleteListing))

	t.Run("stranger forbidden", func(t *testing.T) {
		listing := createTestListing(t, db, owner, models.ListingTypeCar)
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/listings/%d/as-stranger", listing.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("owner deletes", func(t *testing.T) {
		listing := createTestListing(t, db, owner, models.ListingTypeHouse)
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/listings/%d", listing.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var count int64
		db.Model(&models.Listing{}).Where("id = ?", listing.ID).Count(&count)
		if count != 0 {
			t.Errorf("listing should be soft-deleted from default scope")
		}
	})

	t.Run("admin deletes someone else's listing", func(t *testing.T) {
		listing := createTestListing(t, db, owner, models.ListingTypeCar)
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/listings/%d/as-admin", listing.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})
}
