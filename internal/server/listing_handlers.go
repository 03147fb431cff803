package server

import (
	"log/slog"
	"strconv"
	"strings"

	"diplomat/internal/middleware"
	"diplomat/internal/models"
	"diplomat/internal/repository"
	"diplomat/internal/service"

	"github.com/gofiber/fiber/v2"
)

const maxListingImages = 8

// CreateListing handles POST /api/listings. Accepts multipart form data so
// images ride along with the fields; a plain JSON body works when there are
// no images. Images are forwarded to the file manager only after the caller
// has been authenticated.
func (s *Server) CreateListing(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	var req struct {
		ListingType       string  `json:"listing_type" form:"listing_type"`
		Title             string  `json:"title" form:"title"`
		Description       string  `json:"description" form:"description"`
		Price             float64 `json:"price" form:"price"`
		Currency          string  `json:"currency" form:"currency"`
		AdvertisementType string  `json:"advertisement_type" form:"advertisement_type"`
		Mileage           *int    `json:"mileage" form:"mileage"`
		Area              *int    `json:"area" form:"area"`
		PaymentID         string  `json:"payment_id" form:"payment_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var imageURLs []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["images"]
		if len(files) > maxListingImages {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Too many images (max 8)"))
		}
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationError("Unreadable image upload"))
			}
			url, upErr := s.uploader.Upload(ctx, fh.Filename, f)
			f.Close()
			if upErr != nil {
				middleware.Logger.ErrorContext(ctx, "image upload failed",
					slog.String("filename", fh.Filename),
					slog.String("error", upErr.Error()),
				)
				return models.RespondWithAppError(c, upErr)
			}
			imageURLs = append(imageURLs, url)
		}
	}

	listing, err := s.listingSvc.CreateListing(ctx, service.CreateListingInput{
		UserID:            userID,
		ListingType:       req.ListingType,
		Title:             req.Title,
		Description:       req.Description,
		Price:             req.Price,
		Currency:          req.Currency,
		AdvertisementType: req.AdvertisementType,
		Mileage:           req.Mileage,
		Area:              req.Area,
		PaymentID:         req.PaymentID,
		ImageURLs:         imageURLs,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

// GetListings handles GET /api/listings
func (s *Server) GetListings(c *fiber.Ctx) error {
	ctx := c.UserContext()
	limit, offset := parsePagination(c, 20)

	filter := repository.ListingFilter{
		ListingType: strings.TrimSpace(c.Query("listing_type")),
		PublicOnly:  true,
	}
	if raw := c.Query("user_id"); raw != "" {
		uid, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid user_id filter"))
		}
		filter.UserID = uint(uid)
	}

	listings, err := s.listingSvc.ListListings(ctx, filter, limit, offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(listings)
}

// GetListing handles GET /api/listings/:id
func (s *Server) GetListing(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	listing, err := s.listingSvc.GetListing(ctx, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(listing)
}

// UpdateListing handles PUT /api/listings/:id
func (s *Server) UpdateListing(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req struct {
		Title             string   `json:"title"`
		Description       string   `json:"description"`
		Price             *float64 `json:"price"`
		Currency          string   `json:"currency"`
		AdvertisementType string   `json:"advertisement_type"`
		Mileage           *int     `json:"mileage"`
		Area              *int     `json:"area"`
		Visible           *bool    `json:"visible"`
		ImageURLs         []string `json:"image_urls"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	listing, err := s.listingSvc.UpdateListing(ctx, service.UpdateListingInput{
		UserID:            userID,
		ListingID:         id,
		Title:             req.Title,
		Description:       req.Description,
		Price:             req.Price,
		Currency:          req.Currency,
		AdvertisementType: req.AdvertisementType,
		Mileage:           req.Mileage,
		Area:              req.Area,
		Visible:           req.Visible,
		ImageURLs:         req.ImageURLs,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(listing)
}

// DeleteListing handles DELETE /api/listings/:id
func (s *Server) DeleteListing(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.listingSvc.DeleteListing(ctx, id, userID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
