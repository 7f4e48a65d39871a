package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-03-16 is a Sunday
var loadToday = time.Date(2025, time.March, 16, 18, 30, 0, 0, time.UTC)

func tssWorkout(daysAgo int, tss float64) *Workout {
	return &Workout{
		Sport:    SportBike,
		Date:     DateOf(loadToday).AddDate(0, 0, -daysAgo),
		Duration: 60,
		Metrics:  WorkoutMetrics{TSS: floatPtr(tss)},
	}
}

func TestComputeTrainingLoad_Empty(t *testing.T) {
	result := ComputeTrainingLoad(nil, 42, loadToday)

	assert.Equal(t, 0, result.AcuteLoad)
	assert.Equal(t, 0, result.ChronicLoad)
	assert.Equal(t, 0.0, result.ACWR)
	assert.Equal(t, 0, result.CurrentTSS)
	require.NotNil(t, result.WeeklyTSS)
	assert.Empty(t, result.WeeklyTSS)
	assert.Equal(t, LoadStatusLow, result.Status)
}

func TestComputeTrainingLoad_SevenDaysOf50(t *testing.T) {
	var workouts []*Workout
	for i := 0; i < 7; i++ {
		workouts = append(workouts, tssWorkout(i, 50))
	}

	result := ComputeTrainingLoad(workouts, 42, loadToday)

	assert.Equal(t, 50, result.AcuteLoad)
	assert.Equal(t, 8, result.ChronicLoad) // 350/42 = 8.33
	// ratio from unrounded loads: 50 / 8.333 = 6.0, not 50/8 = 6.25
	assert.Equal(t, 6.0, result.ACWR)
	assert.Equal(t, 50, result.CurrentTSS)
	assert.Equal(t, LoadStatusHighRisk, result.Status)
}

func TestComputeTrainingLoad_EstimatesLoadFromDuration(t *testing.T) {
	w := &Workout{Sport: SportRun, Date: DateOf(loadToday), Duration: 90}

	result := ComputeTrainingLoad([]*Workout{w}, 42, loadToday)

	assert.Equal(t, 75, result.CurrentTSS) // 1.5h * 50
	assert.Equal(t, 11, result.AcuteLoad)  // 75/7 = 10.71
	assert.Equal(t, 2, result.ChronicLoad) // 75/42 = 1.79
	assert.Equal(t, 6.0, result.ACWR)
}

func TestComputeTrainingLoad_ExplicitZeroTSSIsKept(t *testing.T) {
	w := tssWorkout(0, 0)

	result := ComputeTrainingLoad([]*Workout{w}, 42, loadToday)

	assert.Equal(t, 0, result.CurrentTSS)
	assert.Equal(t, 0.0, result.ACWR, "zero chronic load must not produce NaN")
	assert.False(t, math.IsNaN(result.ACWR))
	assert.False(t, math.IsInf(result.ACWR, 0))
}

func TestComputeTrainingLoad_ACWRMonotonicInAcuteLoad(t *testing.T) {
	// chronic window fixed by a load 30 days back, acute grows with today's load
	base := tssWorkout(30, 400)
	prev := -1.0
	for _, extra := range []float64{10, 20, 40, 80} {
		result := ComputeTrainingLoad([]*Workout{base, tssWorkout(0, extra)}, 42, loadToday)
		assert.Greater(t, result.ACWR, prev)
		prev = result.ACWR
	}
}

func TestComputeTrainingLoad_WindowFiltersOldWorkouts(t *testing.T) {
	workouts := []*Workout{
		tssWorkout(0, 70),
		tssWorkout(10, 70),
		tssWorkout(60, 500), // outside the 42 day window
	}

	result := ComputeTrainingLoad(workouts, 42, loadToday)

	for _, w := range result.WeeklyTSS {
		assert.NotEqual(t, WeekKey(DateOf(loadToday).AddDate(0, 0, -60)), w.Week)
	}
	assert.Equal(t, 10, result.AcuteLoad)  // 70/7
	assert.Equal(t, 3, result.ChronicLoad) // 140/42 = 3.33
	assert.Equal(t, 3.0, result.ACWR)
}

func TestComputeTrainingLoad_IgnoresWorkoutsAfterToday(t *testing.T) {
	planned := tssWorkout(-1, 0) // Monday 2025-03-17
	planned.Metrics.TSS = nil
	planned.Planned = true

	result := ComputeTrainingLoad([]*Workout{tssWorkout(0, 50), planned}, 42, loadToday)

	assert.Equal(t, []WeeklyTSS{{Week: "2025-03-10", TSS: 50}}, result.WeeklyTSS)
	assert.Equal(t, 50, result.CurrentTSS)
	assert.Equal(t, 7, result.AcuteLoad)
}

func TestComputeTrainingLoad_WeeklySeriesAscending(t *testing.T) {
	workouts := []*Workout{
		tssWorkout(0, 30),  // Sunday 2025-03-16, week of 03-10
		tssWorkout(6, 20),  // Monday 2025-03-10
		tssWorkout(7, 100), // Sunday 2025-03-09, week of 03-03
		tssWorkout(20, 15), // 2025-02-24, its own week
	}

	result := ComputeTrainingLoad(workouts, 0, loadToday)

	require.Len(t, result.WeeklyTSS, 3)
	assert.Equal(t, WeeklyTSS{Week: "2025-02-24", TSS: 15}, result.WeeklyTSS[0])
	assert.Equal(t, WeeklyTSS{Week: "2025-03-03", TSS: 100}, result.WeeklyTSS[1])
	assert.Equal(t, WeeklyTSS{Week: "2025-03-10", TSS: 50}, result.WeeklyTSS[2])
}

func TestClassifyACWR(t *testing.T) {
	tests := []struct {
		acwr float64
		want LoadStatus
	}{
		{0, LoadStatusLow},
		{0.79, LoadStatusLow},
		{0.8, LoadStatusOptimal},
		{1.3, LoadStatusOptimal},
		{1.31, LoadStatusCaution},
		{1.5, LoadStatusCaution},
		{1.51, LoadStatusHighRisk},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyACWR(tt.acwr), "acwr %.2f", tt.acwr)
	}
}
