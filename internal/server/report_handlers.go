package server

import (
	"strings"

	"diplomat/internal/models"
	"diplomat/internal/repository"
	"diplomat/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/reports
func (s *Server) CreateReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	var req struct {
		EntityType  string `json:"entity_type"`
		EntityID    uint   `json:"entity_id"`
		ReportType  string `json:"report_type"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportSvc.CreateReport(ctx, service.CreateReportInput{
		ReportedBy:  userID,
		EntityType:  strings.ToLower(strings.TrimSpace(req.EntityType)),
		EntityID:    req.EntityID,
		ReportType:  strings.ToLower(strings.TrimSpace(req.ReportType)),
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReports handles GET /api/reports (admin only)
func (s *Server) GetReports(c *fiber.Ctx) error {
	ctx := c.UserContext()
	limit, offset := parsePagination(c, 50)

	filter := repository.ReportFilter{
		Status:     strings.ToLower(strings.TrimSpace(c.Query("status"))),
		EntityType: strings.ToLower(strings.TrimSpace(c.Query("entity_type"))),
	}

	reports, err := s.reportSvc.ListReports(ctx, filter, limit, offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(reports)
}

// GetReport handles GET /api/reports/:id (admin only)
func (s *Server) GetReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	report, err := s.reportSvc.GetReport(ctx, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(report)
}

// ResolveReport handles PUT /api/reports/:id (admin only)
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	adminID := currentUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req struct {
		Status     string `json:"status"`
		AdminNotes string `json:"admin_notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportSvc.ResolveReport(ctx, service.ResolveReportInput{
		ReportID:   id,
		AdminID:    adminID,
		Status:     strings.ToLower(strings.TrimSpace(req.Status)),
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(report)
}
