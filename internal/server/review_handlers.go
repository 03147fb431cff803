package server

import (
	"diplomat/internal/models"
	"diplomat/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReview handles POST /api/listings/:id/reviews
func (s *Server) CreateReview(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	listingID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewSvc.CreateReview(ctx, service.CreateReviewInput{
		UserID:    userID,
		ListingID: listingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetReviews handles GET /api/listings/:id/reviews
func (s *Server) GetReviews(c *fiber.Ctx) error {
	ctx := c.UserContext()
	listingID, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	limit, offset := parsePagination(c, 20)

	reviews, err := s.reviewSvc.ListReviews(ctx, listingID, limit, offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(reviews)
}

// LikeReview handles POST /api/reviews/:id/like. The same endpoint likes and
// unlikes; the response reports the resulting state.
func (s *Server) LikeReview(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	reviewID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	result, err := s.reviewSvc.ToggleLike(ctx, reviewID, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// DeleteReview handles DELETE /api/reviews/:id
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	reviewID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.reviewSvc.DeleteReview(ctx, reviewID, userID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
