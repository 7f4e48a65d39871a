package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a Sunday evening
var analyticsNow = time.Date(2025, 3, 16, 18, 30, 0, 0, time.UTC)

func seedDailyTSS(t *testing.T, repo *memWorkoutRepo, days int, tss float64) {
	t.Helper()
	for i := 0; i < days; i++ {
		v := tss
		w := &domain.Workout{
			UserID:    athleteID,
			Sport:     domain.SportBike,
			Date:      domain.DateOf(analyticsNow).AddDate(0, 0, -i),
			Duration:  60,
			Completed: true,
			Metrics:   domain.WorkoutMetrics{TSS: &v},
		}
		require.NoError(t, repo.Create(context.Background(), w))
	}
}

func newAnalyticsService(workouts *memWorkoutRepo, cycles *memCycleRepo, cache domain.CacheRepository) *AnalyticsService {
	svc := NewAnalyticsService(workouts, cycles, cache, time.Minute)
	svc.now = func() time.Time { return analyticsNow }
	return svc
}

func TestAnalyticsService_Volume(t *testing.T) {
	ctx := context.Background()
	workouts := &memWorkoutRepo{}
	svc := newAnalyticsService(workouts, &memCycleRepo{}, nil)

	for _, w := range []*domain.Workout{
		newWorkout(domain.SportRun, "2025-03-03", 60),
		newWorkout(domain.SportBike, "2025-03-04", 90),
		newWorkout(domain.SportRun, "2025-03-05", 30),
		newWorkout(domain.SportSwim, "2025-04-01", 45),
	} {
		w.UserID = athleteID
		require.NoError(t, workouts.Create(ctx, w))
	}

	start, _ := domain.ParseDate("2025-03-01")
	end, _ := domain.ParseDate("2025-03-31")
	volume, err := svc.Volume(ctx, athleteID, domain.DateRange{Start: &start, End: &end})
	require.NoError(t, err)

	assert.Equal(t, 180, volume.TotalDuration)
	assert.Equal(t, 3, volume.TotalWorkouts)
	require.Len(t, volume.BySport, 2)
	assert.Equal(t, domain.SportRun, volume.BySport[0].Sport)
	assert.InDelta(t, 50.0, volume.BySport[0].Percentage, 0.01)
	require.Len(t, volume.ByWeek, 1)
	assert.Equal(t, "2025-03-03", volume.ByWeek[0].Week)

	t.Run("inverted range", func(t *testing.T) {
		_, err := svc.Volume(ctx, athleteID, domain.DateRange{Start: &end, End: &start})
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("store failure", func(t *testing.T) {
		workouts.listErr = errStoreDown
		defer func() { workouts.listErr = nil }()

		_, err := svc.Volume(ctx, athleteID, domain.DateRange{})
		var upstream *domain.UpstreamStoreError
		assert.True(t, errors.As(err, &upstream))
	})
}

func TestAnalyticsService_CycleVolume(t *testing.T) {
	ctx := context.Background()
	workouts := &memWorkoutRepo{}
	cycles := &memCycleRepo{cycles: []*domain.TrainingCycle{{ID: "meso-1", UserID: athleteID}}}
	svc := newAnalyticsService(workouts, cycles, nil)

	inCycle := newWorkout(domain.SportRun, "2025-03-03", 60)
	inCycle.UserID, inCycle.CycleID = athleteID, "meso-1"
	outside := newWorkout(domain.SportRun, "2025-03-04", 30)
	outside.UserID = athleteID
	require.NoError(t, workouts.Create(ctx, inCycle))
	require.NoError(t, workouts.Create(ctx, outside))

	volume, err := svc.CycleVolume(ctx, athleteID, "meso-1")
	require.NoError(t, err)
	assert.Equal(t, 60, volume.TotalDuration)
	assert.Len(t, volume.ByWeek, 1)

	_, err = svc.CycleVolume(ctx, athleteID, "meso-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalyticsService_TrainingLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("seven days of 50", func(t *testing.T) {
		workouts := &memWorkoutRepo{}
		seedDailyTSS(t, workouts, 7, 50)
		svc := newAnalyticsService(workouts, &memCycleRepo{}, nil)

		load, err := svc.TrainingLoad(ctx, athleteID, 0)
		require.NoError(t, err)
		assert.Equal(t, 50, load.AcuteLoad)
		assert.Equal(t, 8, load.ChronicLoad)
		assert.Equal(t, 6.0, load.ACWR)
		assert.Equal(t, 50, load.CurrentTSS)
		assert.Equal(t, domain.LoadStatusHighRisk, load.Status)
	})

	t.Run("cached per day and window", func(t *testing.T) {
		workouts := &memWorkoutRepo{}
		seedDailyTSS(t, workouts, 7, 50)
		cache := newMemCache()
		svc := newAnalyticsService(workouts, &memCycleRepo{}, cache)

		first, err := svc.TrainingLoad(ctx, athleteID, 42)
		require.NoError(t, err)

		seedDailyTSS(t, workouts, 1, 100)
		cached, err := svc.TrainingLoad(ctx, athleteID, 42)
		require.NoError(t, err)
		assert.Equal(t, first, cached)

		require.NoError(t, cache.InvalidateUser(ctx, athleteID))
		fresh, err := svc.TrainingLoad(ctx, athleteID, 42)
		require.NoError(t, err)
		assert.Equal(t, 150, fresh.CurrentTSS)
	})

	t.Run("planned workouts after today are not load", func(t *testing.T) {
		workouts := &memWorkoutRepo{}
		seedDailyTSS(t, workouts, 1, 50)
		tomorrow := &domain.Workout{
			UserID:   athleteID,
			Sport:    domain.SportRun,
			Date:     domain.DateOf(analyticsNow).AddDate(0, 0, 1),
			Duration: 60,
			Planned:  true,
		}
		require.NoError(t, workouts.Create(ctx, tomorrow))
		svc := newAnalyticsService(workouts, &memCycleRepo{}, newMemCache())

		load, err := svc.TrainingLoad(ctx, athleteID, 0)
		require.NoError(t, err)
		assert.Equal(t, []domain.WeeklyTSS{{Week: "2025-03-10", TSS: 50}}, load.WeeklyTSS)
	})

	t.Run("window too large", func(t *testing.T) {
		svc := newAnalyticsService(&memWorkoutRepo{}, &memCycleRepo{}, nil)
		_, err := svc.TrainingLoad(ctx, athleteID, 1000)
		assert.True(t, domain.IsValidationError(err))
	})
}

func TestExportService_ExportReport(t *testing.T) {
	ctx := context.Background()
	workouts := &memWorkoutRepo{}
	seedDailyTSS(t, workouts, 3, 40)
	analytics := newAnalyticsService(workouts, &memCycleRepo{}, nil)

	t.Run("uploads json report", func(t *testing.T) {
		files := &memFiles{}
		svc := NewExportService(analytics, files)
		svc.now = func() time.Time { return analyticsNow }

		start, _ := domain.ParseDate("2025-03-01")
		result, err := svc.ExportReport(ctx, athleteID, domain.DateRange{Start: &start}, 0)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(result.Key, "reports/"+athleteID+"/"))
		assert.True(t, strings.HasSuffix(result.Key, ".json"))
		assert.Contains(t, result.URL, result.Key)

		var report AnalyticsReport
		require.NoError(t, json.Unmarshal(files.uploads[result.Key], &report))
		assert.Equal(t, athleteID, report.UserID)
		assert.Equal(t, "2025-03-01", report.Start)
		assert.Equal(t, 3, report.Volume.TotalWorkouts)
		assert.Equal(t, 40, report.TrainingLoad.CurrentTSS)
	})

	t.Run("storage not configured", func(t *testing.T) {
		svc := NewExportService(analytics, nil)
		_, err := svc.ExportReport(ctx, athleteID, domain.DateRange{}, 0)
		assert.ErrorIs(t, err, ErrExportUnavailable)
	})

	t.Run("upload failure", func(t *testing.T) {
		svc := NewExportService(analytics, &memFiles{err: errStoreDown})
		_, err := svc.ExportReport(ctx, athleteID, domain.DateRange{}, 0)
		var upstream *domain.UpstreamStoreError
		assert.True(t, errors.As(err, &upstream))
	})
}
