package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/observability"
)

type PlanService struct {
	planRepo    domain.PlanRepository
	workoutRepo domain.WorkoutRepository
	cycleRepo   domain.CycleRepository
	cache       domain.CacheRepository
}

func NewPlanService(
	planRepo domain.PlanRepository,
	workoutRepo domain.WorkoutRepository,
	cycleRepo domain.CycleRepository,
	cache domain.CacheRepository,
) *PlanService {
	return &PlanService{
		planRepo:    planRepo,
		workoutRepo: workoutRepo,
		cycleRepo:   cycleRepo,
		cache:       cache,
	}
}

// ApplyPlanRequest selects the week a plan lands on. CycleID overrides the
// plan's own cycle when set.
type ApplyPlanRequest struct {
	WeekStart time.Time
	CycleID   string
}

// PlanApplication is the outcome of applying a plan to a week
type PlanApplication struct {
	PlanID          string            `json:"plan_id"`
	BatchID         string            `json:"batch_id"`
	WeekStart       string            `json:"week_start"`
	WorkoutsCreated int               `json:"workouts_created"`
	Workouts        []*domain.Workout `json:"workouts,omitempty"`
}

func (s *PlanService) CreatePlan(ctx context.Context, userID string, plan *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	plan.UserID = userID
	plan.Normalize()
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if plan.CycleID != "" {
		if err := s.checkCycle(ctx, userID, plan.CycleID); err != nil {
			return nil, err
		}
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, domain.StoreError("create plan", err)
	}
	return plan, nil
}

func (s *PlanService) ListPlans(ctx context.Context, userID string) ([]*domain.TrainingPlan, error) {
	plans, err := s.planRepo.List(ctx, userID)
	if err != nil {
		return nil, domain.StoreError("list plans", err)
	}
	return plans, nil
}

func (s *PlanService) GetPlan(ctx context.Context, userID, id string) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, domain.StoreError("get plan", err)
	}
	return plan, nil
}

func (s *PlanService) DeletePlan(ctx context.Context, userID, id string) error {
	if err := s.planRepo.Delete(ctx, userID, id); err != nil {
		return domain.StoreError("delete plan", err)
	}
	return nil
}

// PreviewWeek expands the plan without writing anything
func (s *PlanService) PreviewWeek(ctx context.Context, userID, planID string, req ApplyPlanRequest) (*PlanApplication, error) {
	plan, records, err := s.expand(ctx, userID, planID, req)
	if err != nil {
		return nil, err
	}
	return &PlanApplication{
		PlanID:          plan.ID,
		WeekStart:       domain.DateKey(req.WeekStart),
		WorkoutsCreated: 0,
		Workouts:        records,
	}, nil
}

// ApplyToWeek materializes the plan into workouts starting at the Monday
// req.WeekStart and bulk-inserts them. All records of one application share
// a batch id. A plan of only rest days yields domain.ErrNothingToCreate and
// writes nothing; store failures come back as *domain.UpstreamStoreError.
func (s *PlanService) ApplyToWeek(ctx context.Context, userID, planID string, req ApplyPlanRequest) (*PlanApplication, error) {
	plan, records, err := s.expand(ctx, userID, planID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNothingToCreate):
			observability.RecordPlanApplied(observability.OutcomeEmpty)
		case domain.IsValidationError(err):
			observability.RecordPlanApplied(observability.OutcomeInvalid)
		}
		return nil, err
	}

	batchID := generateULID()
	for _, r := range records {
		r.PlanID = plan.ID
		r.BatchID = batchID
	}

	created, err := s.workoutRepo.InsertMany(ctx, userID, records)
	if created > 0 {
		invalidateReadModels(ctx, s.cache, userID)
		observability.RecordWorkoutsCreated(observability.SourcePlan, created)
	}
	if err != nil {
		observability.RecordPlanApplied(observability.OutcomeFailed)
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"plan_id":  plan.ID,
			"batch_id": batchID,
			"created":  created,
		}).Error("failed to insert planned workouts")
		return nil, domain.StoreError("insert workouts", err)
	}

	observability.RecordPlanApplied(observability.OutcomeCreated)
	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"plan_id":    plan.ID,
		"batch_id":   batchID,
		"week_start": domain.DateKey(req.WeekStart),
		"created":    created,
	}).Info("applied training plan")

	return &PlanApplication{
		PlanID:          plan.ID,
		BatchID:         batchID,
		WeekStart:       domain.DateKey(req.WeekStart),
		WorkoutsCreated: created,
		Workouts:        records,
	}, nil
}

func (s *PlanService) expand(ctx context.Context, userID, planID string, req ApplyPlanRequest) (*domain.TrainingPlan, []*domain.Workout, error) {
	plan, err := s.planRepo.GetByID(ctx, userID, planID)
	if err != nil {
		return nil, nil, domain.StoreError("get plan", err)
	}

	cycleID := plan.CycleID
	if req.CycleID != "" {
		if err := s.checkCycle(ctx, userID, req.CycleID); err != nil {
			return nil, nil, err
		}
		cycleID = req.CycleID
	}

	records, err := domain.ExpandPlanToWeek(plan.Structure, req.WeekStart, cycleID)
	if err != nil {
		return nil, nil, err
	}
	return plan, records, nil
}

func (s *PlanService) checkCycle(ctx context.Context, userID, cycleID string) error {
	if _, err := s.cycleRepo.GetByID(ctx, userID, cycleID); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return domain.NewValidationError("cycle_id", "cycle %s not found", cycleID)
		}
		return domain.StoreError("get cycle", err)
	}
	return nil
}
