package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/observability"
)

// maxLoadWindowDays bounds the trailing window of a training load request
const maxLoadWindowDays = 365

type AnalyticsService struct {
	workoutRepo domain.WorkoutRepository
	cycleRepo   domain.CycleRepository
	cache       domain.CacheRepository
	cacheTTL    time.Duration
	now         func() time.Time
}

func NewAnalyticsService(
	workoutRepo domain.WorkoutRepository,
	cycleRepo domain.CycleRepository,
	cache domain.CacheRepository,
	cacheTTL time.Duration,
) *AnalyticsService {
	return &AnalyticsService{
		workoutRepo: workoutRepo,
		cycleRepo:   cycleRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		now:         time.Now,
	}
}

// Volume aggregates the athlete's workouts inside dateRange. Open bounds are unbounded.
func (s *AnalyticsService) Volume(ctx context.Context, userID string, dateRange domain.DateRange) (*domain.VolumeAnalytics, error) {
	if dateRange.Start != nil && dateRange.End != nil && dateRange.End.Before(*dateRange.Start) {
		return nil, domain.NewValidationError("end", "must not be before start")
	}
	start := time.Now()

	workouts, err := s.workoutRepo.ListByUser(ctx, userID, dateRange)
	if err != nil {
		return nil, domain.StoreError("list workouts", err)
	}

	analytics := domain.ComputeVolumeAnalytics(workouts, dateRange)
	observability.ObserveAnalytics(observability.KindVolume, len(workouts), start)
	return &analytics, nil
}

// CycleVolume aggregates the workouts associated with one training cycle
func (s *AnalyticsService) CycleVolume(ctx context.Context, userID, cycleID string) (*domain.VolumeAnalytics, error) {
	if _, err := s.cycleRepo.GetByID(ctx, userID, cycleID); err != nil {
		return nil, domain.StoreError("get cycle", err)
	}
	start := time.Now()

	workouts, err := s.workoutRepo.ListByCycle(ctx, userID, cycleID)
	if err != nil {
		return nil, domain.StoreError("list cycle workouts", err)
	}

	analytics := domain.ComputeVolumeAnalytics(workouts, domain.DateRange{})
	observability.ObserveAnalytics(observability.KindVolume, len(workouts), start)
	return &analytics, nil
}

// TrainingLoad returns the acute/chronic load picture ending today over a
// trailing window of days. Results are cached per day and window.
func (s *AnalyticsService) TrainingLoad(ctx context.Context, userID string, days int) (*domain.TrainingLoadMetrics, error) {
	if days <= 0 {
		days = domain.DefaultLoadWindowDays
	}
	if days > maxLoadWindowDays {
		return nil, domain.NewValidationError("days", "must be at most %d", maxLoadWindowDays)
	}
	today := s.now()

	if s.cache != nil {
		cached, ok, err := s.cache.GetTrainingLoad(ctx, userID, today, days)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("training load cache read failed")
		}
		observability.RecordCacheLookup(observability.KindTrainingLoad, ok)
		if ok {
			return cached, nil
		}
	}

	start := time.Now()
	from := domain.DateOf(today).AddDate(0, 0, -days)
	to := domain.DateOf(today)
	workouts, err := s.workoutRepo.ListByUser(ctx, userID, domain.DateRange{Start: &from, End: &to})
	if err != nil {
		return nil, domain.StoreError("list workouts", err)
	}

	metrics := domain.ComputeTrainingLoad(workouts, days, today)
	observability.ObserveAnalytics(observability.KindTrainingLoad, len(workouts), start)

	if s.cache != nil {
		if err := s.cache.SetTrainingLoad(ctx, userID, today, days, &metrics, s.cacheTTL); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("training load cache write failed")
		}
	}
	return &metrics, nil
}
