package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/observability"
	"golang.org/x/sync/errgroup"
)

// DashboardRecentWorkouts is how many recent workouts the dashboard shows
const DashboardRecentWorkouts = 5

type DashboardService struct {
	workoutRepo domain.WorkoutRepository
	metricRepo  domain.MetricRepository
	cycleRepo   domain.CycleRepository
	cache       domain.CacheRepository
	cacheTTL    time.Duration
	now         func() time.Time
}

func NewDashboardService(
	workoutRepo domain.WorkoutRepository,
	metricRepo domain.MetricRepository,
	cycleRepo domain.CycleRepository,
	cache domain.CacheRepository,
	cacheTTL time.Duration,
) *DashboardService {
	return &DashboardService{
		workoutRepo: workoutRepo,
		metricRepo:  metricRepo,
		cycleRepo:   cycleRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		now:         time.Now,
	}
}

// GetDashboard assembles the home screen. The four reads run concurrently;
// the first failure cancels the rest.
func (s *DashboardService) GetDashboard(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	today := s.now()

	if s.cache != nil {
		cached, ok, err := s.cache.GetDashboard(ctx, userID, today)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("dashboard cache read failed")
		}
		observability.RecordCacheLookup(observability.KindDashboard, ok)
		if ok {
			return cached, nil
		}
	}

	started := time.Now()
	weekStart := domain.StartOfWeek(today)
	weekEnd := domain.EndOfWeek(today)

	var (
		weekWorkouts []*domain.Workout
		recent       []*domain.Workout
		metric       *domain.Metric
		cycle        *domain.TrainingCycle
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weekWorkouts, err = s.workoutRepo.ListByUser(gctx, userID, domain.DateRange{Start: &weekStart, End: &weekEnd})
		if err != nil {
			return domain.StoreError("list week workouts", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recent, err = s.workoutRepo.ListRecent(gctx, userID, DashboardRecentWorkouts)
		if err != nil {
			return domain.StoreError("list recent workouts", err)
		}
		return nil
	})
	g.Go(func() error {
		m, err := s.metricRepo.GetByDate(gctx, userID, today)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return domain.StoreError("get today metric", err)
		}
		metric = m
		return nil
	})
	g.Go(func() error {
		var err error
		cycle, err = s.cycleRepo.GetActive(gctx, userID, domain.CycleMeso, today)
		if err != nil {
			return domain.StoreError("get active cycle", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	volume, count := domain.WeeklySportVolume(weekWorkouts)
	if recent == nil {
		recent = []*domain.Workout{}
	}
	stats := &domain.DashboardStats{
		WeekStart:        domain.DateKey(weekStart),
		WeekEnd:          domain.DateKey(weekEnd),
		ThisWeekWorkouts: count,
		ThisWeekVolume:   volume,
		RecentWorkouts:   recent,
		CurrentCycle:     cycle,
	}
	if metric != nil {
		stats.TodayHRV = metric.HRV
		stats.TodayReadiness = metric.Readiness
	}
	observability.ObserveAnalytics(observability.KindDashboard, len(weekWorkouts), started)

	if s.cache != nil {
		if err := s.cache.SetDashboard(ctx, userID, today, stats, s.cacheTTL); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("dashboard cache write failed")
		}
	}
	return stats, nil
}
