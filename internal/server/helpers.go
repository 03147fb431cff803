package server

import (
	"strings"

	"diplomat/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID reads a positive integer route parameter. On failure it writes the
// 400 response and returns ok=false; callers just return nil.
func parseID(c *fiber.Ctx, param string) (uint, bool) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, false
	}
	return uint(id), true
}

func humanizeParam(param string) string {
	switch param {
	case "id":
		return "ID"
	default:
		return strings.ReplaceAll(param, "_", " ")
	}
}

// parsePagination reads limit/offset query params with bounds applied.
func parsePagination(c *fiber.Ctx, defaultLimit int) (limit, offset int) {
	limit = c.QueryInt("limit", defaultLimit)
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// currentUserID reads the authenticated user set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}
