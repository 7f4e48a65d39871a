package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/middleware"
	"github.com/spockey4711/trainingbuilder/internal/service"
)

type MetricHandler struct {
	metricService *service.MetricService
}

func NewMetricHandler(metricService *service.MetricService) *MetricHandler {
	return &MetricHandler{metricService: metricService}
}

type saveMetricRequest struct {
	Date             string   `json:"date"`
	HRV              *int     `json:"hrv"`
	RestingHeartRate *int     `json:"resting_heart_rate"`
	Weight           *float64 `json:"weight"`
	SleepHours       *float64 `json:"sleep_hours"`
	SleepQuality     *int     `json:"sleep_quality"`
	StressLevel      *int     `json:"stress_level"`
	Readiness        *int     `json:"readiness"`
}

// SaveMetric handles PUT /v1/me/metrics. A missing date means today.
func (h *MetricHandler) SaveMetric(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req saveMetricRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return respondError(c, err)
	}

	metric := &domain.Metric{
		HRV:              req.HRV,
		RestingHeartRate: req.RestingHeartRate,
		Weight:           req.Weight,
		SleepHours:       req.SleepHours,
		SleepQuality:     req.SleepQuality,
		StressLevel:      req.StressLevel,
		Readiness:        req.Readiness,
	}
	if date != nil {
		metric.Date = *date
	}

	saved, err := h.metricService.SaveMetric(c.UserContext(), userID, metric)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, saved)
}

// ListMetrics handles GET /v1/me/metrics?days=30
func (h *MetricHandler) ListMetrics(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	days, err := queryInt(c, "days")
	if err != nil {
		return respondError(c, err)
	}
	metrics, err := h.metricService.ListMetrics(c.UserContext(), userID, days)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, metrics)
}

// GetToday handles GET /v1/me/metrics/today
func (h *MetricHandler) GetToday(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	metric, err := h.metricService.Today(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, metric)
}

func (h *MetricHandler) DeleteMetric(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	if err := h.metricService.DeleteMetric(c.UserContext(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "metric deleted"})
}
