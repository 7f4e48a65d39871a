package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/middleware"
	"github.com/spockey4711/trainingbuilder/internal/service"
)

type WorkoutHandler struct {
	workoutService *service.WorkoutService
}

func NewWorkoutHandler(workoutService *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type createWorkoutRequest struct {
	Sport       domain.SportType      `json:"sport_type"`
	Date        string                `json:"date"`
	WorkoutTime string                `json:"workout_time"`
	Duration    int                   `json:"duration"`
	Distance    *float64              `json:"distance"`
	Metrics     domain.WorkoutMetrics `json:"metrics"`
	CycleID     string                `json:"cycle_id"`
	Planned     bool                  `json:"planned"`
	Completed   *bool                 `json:"completed"`
	Note        *domain.WorkoutNote   `json:"note"`
}

func (r createWorkoutRequest) toWorkout() (*domain.Workout, error) {
	date, err := parseRequiredDate("date", r.Date)
	if err != nil {
		return nil, err
	}
	// logged workouts are done unless the client says otherwise
	completed := !r.Planned
	if r.Completed != nil {
		completed = *r.Completed
	}
	return &domain.Workout{
		Sport:       r.Sport,
		Date:        date,
		WorkoutTime: r.WorkoutTime,
		Duration:    r.Duration,
		Distance:    r.Distance,
		Metrics:     r.Metrics,
		CycleID:     r.CycleID,
		Planned:     r.Planned,
		Completed:   completed,
	}, nil
}

// CreateWorkout handles POST /v1/me/workouts
func (h *WorkoutHandler) CreateWorkout(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req createWorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	workout, err := req.toWorkout()
	if err != nil {
		return respondError(c, err)
	}

	created, err := h.workoutService.CreateWorkout(c.UserContext(), userID, workout, req.Note)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, created)
}

// ListWorkouts handles GET /v1/me/workouts
func (h *WorkoutHandler) ListWorkouts(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	workouts, err := h.workoutService.ListRecent(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, workouts)
}

// GetWorkout handles GET /v1/me/workouts/:id
func (h *WorkoutHandler) GetWorkout(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	workout, err := h.workoutService.GetWorkout(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, workout)
}

// DeleteWorkout handles DELETE /v1/me/workouts/:id
func (h *WorkoutHandler) DeleteWorkout(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	if err := h.workoutService.DeleteWorkout(c.UserContext(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "workout deleted"})
}

// GetWeek handles GET /v1/me/calendar/week?date=YYYY-MM-DD
func (h *WorkoutHandler) GetWeek(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	date, err := parseDate("date", c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	var day time.Time
	if date != nil {
		day = *date
	}

	week, err := h.workoutService.GetWeek(c.UserContext(), userID, day)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, week)
}
