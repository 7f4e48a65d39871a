package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/middleware"
	"github.com/spockey4711/trainingbuilder/internal/service"
)

// PlanHandler serves training plan templates and their application
type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type createPlanRequest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	CycleID     string                   `json:"cycle_id"`
	Structure   []domain.WeeklyStructure `json:"structure"`
}

type applyPlanRequest struct {
	WeekStart string `json:"week_start"`
	CycleID   string `json:"cycle_id"`
	DryRun    bool   `json:"dry_run"`
}

// CreatePlan handles POST /v1/me/plans
func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req createPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	plan, err := h.planService.CreatePlan(c.UserContext(), userID, &domain.TrainingPlan{
		Name:        req.Name,
		Description: req.Description,
		CycleID:     req.CycleID,
		Structure:   req.Structure,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, plan)
}

// ListPlans handles GET /v1/me/plans
func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	plans, err := h.planService.ListPlans(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, plans)
}

// GetPlan handles GET /v1/me/plans/:id
func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	plan, err := h.planService.GetPlan(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, plan)
}

// DeletePlan handles DELETE /v1/me/plans/:id
func (h *PlanHandler) DeletePlan(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	if err := h.planService.DeletePlan(c.UserContext(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "plan deleted"})
}

// ApplyPlan handles POST /v1/me/plans/:id/apply.
// A replay with the same X-Correlation-ID is answered by the idempotency
// middleware. Dry runs are never stored for replay.
func (h *PlanHandler) ApplyPlan(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req applyPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	weekStart, err := parseRequiredDate("week_start", req.WeekStart)
	if err != nil {
		return respondError(c, err)
	}
	apply := service.ApplyPlanRequest{WeekStart: weekStart, CycleID: req.CycleID}

	if req.DryRun {
		middleware.SkipReplayStore(c)
		preview, err := h.planService.PreviewWeek(c.UserContext(), userID, c.Params("id"), apply)
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusOK, preview)
	}

	result, err := h.planService.ApplyToWeek(c.UserContext(), userID, c.Params("id"), apply)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, result)
}
