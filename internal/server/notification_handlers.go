package server

import (
	"strconv"
	"time"

	"diplomat/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	limit, offset := parsePagination(c, 50)

	notifs, err := s.notificationSvc.ListNotifications(ctx, userID, limit, offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(notifs)
}

// MarkNotificationsRead handles PUT /api/notifications. The body selects the
// mode: {"notification_id": N} marks one, {"action": "markAllRead",
// "notification_ids": [...]} marks a batch. Ids owned by other users are
// ignored in batch mode and a 404 in single mode.
func (s *Server) MarkNotificationsRead(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	var req struct {
		NotificationID  uint   `json:"notification_id"`
		Action          string `json:"action"`
		NotificationIDs []uint `json:"notification_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Action == "markAllRead" {
		updated, err := s.notificationSvc.MarkManyRead(ctx, req.NotificationIDs, userID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"updated": updated,
		})
	}

	if req.NotificationID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("notification_id is required"))
	}
	if err := s.notificationSvc.MarkRead(ctx, req.NotificationID, userID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeleteNotification handles DELETE /api/notifications/:id
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.notificationSvc.DeleteNotification(ctx, id, userID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeleteNotificationByQuery handles DELETE /api/notifications?id=N, kept for
// clients that cannot put ids in the path.
func (s *Server) DeleteNotificationByQuery(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	raw := c.Query("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
	}

	if err := s.notificationSvc.DeleteNotification(ctx, uint(id), userID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// CheckNewNotifications handles GET /api/notifications/check-new?last_check=...
// last_check is RFC 3339; the response carries the count of notifications
// created since then.
func (s *Server) CheckNewNotifications(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	raw := c.Query("last_check")
	if raw == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("last_check is required"))
	}
	lastCheck, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("last_check must be an RFC 3339 timestamp"))
	}

	result, err := s.notificationSvc.CheckNew(ctx, userID, lastCheck)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}

// SubscribePush handles POST /api/notifications/subscribe
func (s *Server) SubscribePush(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.notificationSvc.Subscribe(ctx, userID, req.Endpoint); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
