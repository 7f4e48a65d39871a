package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/observability"
)

// RecentWorkoutsLimit caps the workout history list
const RecentWorkoutsLimit = 50

type WorkoutService struct {
	workoutRepo domain.WorkoutRepository
	noteRepo    domain.NoteRepository
	cache       domain.CacheRepository
	now         func() time.Time
}

func NewWorkoutService(
	workoutRepo domain.WorkoutRepository,
	noteRepo domain.NoteRepository,
	cache domain.CacheRepository,
) *WorkoutService {
	return &WorkoutService{
		workoutRepo: workoutRepo,
		noteRepo:    noteRepo,
		cache:       cache,
		now:         time.Now,
	}
}

// CreateWorkout logs a workout and, when it carries content, its reflection note
func (s *WorkoutService) CreateWorkout(ctx context.Context, userID string, workout *domain.Workout, note *domain.WorkoutNote) (*domain.Workout, error) {
	workout.UserID = userID
	if err := workout.Validate(); err != nil {
		return nil, err
	}
	if note != nil {
		if err := note.Validate(); err != nil {
			return nil, err
		}
	}

	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, domain.StoreError("create workout", err)
	}
	observability.RecordWorkoutsCreated(observability.SourceManual, 1)

	if note != nil && !note.IsEmpty() {
		note.UserID = userID
		note.WorkoutID = workout.ID
		if err := s.noteRepo.Create(ctx, note); err != nil {
			// the workout itself is stored; surface the note failure without undoing it
			logrus.WithError(err).WithField("workout_id", workout.ID).Error("failed to store workout note")
			return workout, domain.StoreError("create note", err)
		}
		workout.Note = note
	}

	invalidateReadModels(ctx, s.cache, userID)
	return workout, nil
}

// ListRecent returns the newest workouts with their notes attached
func (s *WorkoutService) ListRecent(ctx context.Context, userID string) ([]*domain.Workout, error) {
	workouts, err := s.workoutRepo.ListRecent(ctx, userID, RecentWorkoutsLimit)
	if err != nil {
		return nil, domain.StoreError("list workouts", err)
	}
	if err := s.attachNotes(ctx, userID, workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (s *WorkoutService) GetWorkout(ctx context.Context, userID, id string) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, domain.StoreError("get workout", err)
	}
	if err := s.attachNotes(ctx, userID, []*domain.Workout{workout}); err != nil {
		return nil, err
	}
	return workout, nil
}

// DeleteWorkout removes a workout and its note
func (s *WorkoutService) DeleteWorkout(ctx context.Context, userID, id string) error {
	if err := s.workoutRepo.Delete(ctx, userID, id); err != nil {
		return domain.StoreError("delete workout", err)
	}
	if err := s.noteRepo.DeleteByWorkoutID(ctx, userID, id); err != nil {
		logrus.WithError(err).WithField("workout_id", id).Warn("failed to delete workout note")
	}
	invalidateReadModels(ctx, s.cache, userID)
	return nil
}

// GetWeek returns the Monday..Sunday calendar containing day.
// A zero day means the current week.
func (s *WorkoutService) GetWeek(ctx context.Context, userID string, day time.Time) (*domain.CalendarWeek, error) {
	if day.IsZero() {
		day = s.now()
	}
	start := domain.StartOfWeek(day)
	end := domain.EndOfWeek(day)

	workouts, err := s.workoutRepo.ListByUser(ctx, userID, domain.DateRange{Start: &start, End: &end})
	if err != nil {
		return nil, domain.StoreError("list week workouts", err)
	}

	return &domain.CalendarWeek{
		WeekStart: domain.DateKey(start),
		WeekEnd:   domain.DateKey(end),
		Days:      domain.WeekDays(day),
		Workouts:  workouts,
	}, nil
}

func (s *WorkoutService) attachNotes(ctx context.Context, userID string, workouts []*domain.Workout) error {
	if len(workouts) == 0 {
		return nil
	}
	ids := make([]string, len(workouts))
	for i, w := range workouts {
		ids[i] = w.ID
	}
	notes, err := s.noteRepo.GetByWorkoutIDs(ctx, userID, ids)
	if err != nil {
		return domain.StoreError("get notes", err)
	}
	for _, w := range workouts {
		w.Note = notes[w.ID]
	}
	return nil
}
