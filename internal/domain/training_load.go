package domain

import (
	"math"
	"sort"
	"time"
)

const (
	// DefaultLoadWindowDays is the trailing window fetched for load metrics
	DefaultLoadWindowDays = 42

	acuteWindowDays   = 7
	chronicWindowDays = 42

	// estimatedTSSPerHour approximates load for workouts without a recorded TSS
	estimatedTSSPerHour = 50.0
)

// WorkoutLoad returns the recorded TSS of a workout, or an estimate of
// 50 points per hour of duration when none was recorded.
func WorkoutLoad(w *Workout) float64 {
	if w.Metrics.TSS != nil {
		return w.RecordedTSS()
	}
	return float64(w.DurationMinutes()) / 60 * estimatedTSSPerHour
}

// ComputeTrainingLoad derives acute (7-day) and chronic (42-day) load averages
// over the fixed trailing window ending at today, their ratio, today's load and
// a weekly load series. Only workouts dated from today-windowDays through
// today are considered, so planned sessions later in the week do not count;
// windowDays <= 0 means the default 42.
//
// ACWR is computed from the unrounded averages and rounded to two decimals;
// the averages themselves are rounded to integers afterwards.
func ComputeTrainingLoad(workouts []*Workout, windowDays int, today time.Time) TrainingLoadMetrics {
	if windowDays <= 0 {
		windowDays = DefaultLoadWindowDays
	}
	day := DateOf(today)
	from := day.AddDate(0, 0, -windowDays)

	dailyLoad := make(map[string]float64)
	weeklyLoad := make(map[string]float64)
	for _, w := range workouts {
		if w == nil || DateOf(w.Date).Before(from) || DateOf(w.Date).After(day) {
			continue
		}
		load := WorkoutLoad(w)
		dailyLoad[DateKey(w.Date)] += load
		weeklyLoad[WeekKey(w.Date)] += load
	}

	result := TrainingLoadMetrics{
		WeeklyTSS: []WeeklyTSS{},
		Status:    LoadStatusLow,
	}
	if len(dailyLoad) == 0 {
		return result
	}

	var acute, chronic float64
	for i := 0; i < chronicWindowDays; i++ {
		load := dailyLoad[day.AddDate(0, 0, -i).Format(DateLayout)]
		if i < acuteWindowDays {
			acute += load
		}
		chronic += load
	}
	acute /= acuteWindowDays
	chronic /= chronicWindowDays

	var acwr float64
	if chronic > 0 {
		acwr = acute / chronic
	}

	for week, tss := range weeklyLoad {
		result.WeeklyTSS = append(result.WeeklyTSS, WeeklyTSS{Week: week, TSS: tss})
	}
	sort.Slice(result.WeeklyTSS, func(i, j int) bool {
		return result.WeeklyTSS[i].Week < result.WeeklyTSS[j].Week
	})

	result.AcuteLoad = int(math.Round(acute))
	result.ChronicLoad = int(math.Round(chronic))
	result.ACWR = math.Round(acwr*100) / 100
	result.CurrentTSS = int(math.Round(dailyLoad[day.Format(DateLayout)]))
	result.Status = ClassifyACWR(result.ACWR)
	return result
}
