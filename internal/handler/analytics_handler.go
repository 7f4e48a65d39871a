package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spockey4711/trainingbuilder/internal/middleware"
	"github.com/spockey4711/trainingbuilder/internal/service"
)

// AnalyticsHandler handles HTTP requests for analytics operations
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	exportService    *service.ExportService
	dashboardService *service.DashboardService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(
	analyticsService *service.AnalyticsService,
	exportService *service.ExportService,
	dashboardService *service.DashboardService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		exportService:    exportService,
		dashboardService: dashboardService,
	}
}

// GetVolume handles GET /v1/me/analytics/volume?start=&end=
func (h *AnalyticsHandler) GetVolume(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	dateRange, err := dateRangeFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	volume, err := h.analyticsService.Volume(c.UserContext(), userID, dateRange)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, volume)
}

// GetCycleVolume handles GET /v1/me/analytics/cycles/:id/volume
func (h *AnalyticsHandler) GetCycleVolume(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	volume, err := h.analyticsService.CycleVolume(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, volume)
}

// GetTrainingLoad handles GET /v1/me/analytics/load?days=42
func (h *AnalyticsHandler) GetTrainingLoad(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	days, err := queryInt(c, "days")
	if err != nil {
		return respondError(c, err)
	}
	load, err := h.analyticsService.TrainingLoad(c.UserContext(), userID, days)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, load)
}

// ExportReport handles POST /v1/me/analytics/export?start=&end=&days=
func (h *AnalyticsHandler) ExportReport(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	dateRange, err := dateRangeFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	days, err := queryInt(c, "days")
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.exportService.ExportReport(c.UserContext(), userID, dateRange, days)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, result)
}

// GetDashboard handles GET /v1/me/dashboard
func (h *AnalyticsHandler) GetDashboard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	stats, err := h.dashboardService.GetDashboard(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, stats)
}
