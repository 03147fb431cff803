package server

import (
	"diplomat/internal/models"
	"diplomat/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProvisionUser handles POST /api/users. The identity frontend calls this on
// first login; repeat calls for the same external_id return the existing
// account with 200 instead of 201.
func (s *Server) ProvisionUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		ExternalID string `json:"external_id"`
		Username   string `json:"username"`
		Email      string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.userSvc.Provision(ctx, service.ProvisionUserInput{
		ExternalID: req.ExternalID,
		Username:   req.Username,
		Email:      req.Email,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(result.User)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	user, err := s.userSvc.GetUser(ctx, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	user, err := s.userSvc.GetUser(ctx, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}
