package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/middleware"
	"github.com/spockey4711/trainingbuilder/internal/service"
)

// CycleHandler serves the periodization endpoints
type CycleHandler struct {
	cycleService *service.CycleService
}

func NewCycleHandler(cycleService *service.CycleService) *CycleHandler {
	return &CycleHandler{cycleService: cycleService}
}

type createCycleRequest struct {
	Type          domain.CycleType `json:"type"`
	Name          string           `json:"name"`
	Phase         domain.PhaseType `json:"phase"`
	StartDate     string           `json:"start_date"`
	EndDate       string           `json:"end_date"`
	Goal          string           `json:"goal"`
	ParentCycleID string           `json:"parent_cycle_id"`
}

// CreateCycle handles POST /v1/me/cycles
func (h *CycleHandler) CreateCycle(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req createCycleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	start, err := parseRequiredDate("start_date", req.StartDate)
	if err != nil {
		return respondError(c, err)
	}
	end, err := parseRequiredDate("end_date", req.EndDate)
	if err != nil {
		return respondError(c, err)
	}

	cycle, err := h.cycleService.CreateCycle(c.UserContext(), userID, &domain.TrainingCycle{
		Type:          req.Type,
		Name:          req.Name,
		Phase:         req.Phase,
		StartDate:     start,
		EndDate:       end,
		Goal:          req.Goal,
		ParentCycleID: req.ParentCycleID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, cycle)
}

// ListCycles handles GET /v1/me/cycles?type=meso
func (h *CycleHandler) ListCycles(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	cycles, err := h.cycleService.ListCycles(c.UserContext(), userID, domain.CycleType(c.Query("type")))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, cycles)
}

// GetTree handles GET /v1/me/cycles/tree
func (h *CycleHandler) GetTree(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	tree, err := h.cycleService.Tree(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, tree)
}

// GetActive handles GET /v1/me/cycles/active/:type. No active cycle yields null data.
func (h *CycleHandler) GetActive(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	cycle, err := h.cycleService.GetActive(c.UserContext(), userID, domain.CycleType(c.Params("type")))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, cycle)
}

func (h *CycleHandler) GetCycle(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	cycle, err := h.cycleService.GetCycle(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, cycle)
}

func (h *CycleHandler) DeleteCycle(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	if err := h.cycleService.DeleteCycle(c.UserContext(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "cycle deleted"})
}
