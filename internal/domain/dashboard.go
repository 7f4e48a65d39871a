package domain

import "time"

// DashboardStats is the athlete's home screen summary
type DashboardStats struct {
	WeekStart        string            `json:"week_start"`
	WeekEnd          string            `json:"week_end"`
	ThisWeekWorkouts int               `json:"this_week_workouts"`
	ThisWeekVolume   map[SportType]int `json:"this_week_volume"` // minutes per sport
	RecentWorkouts   []*Workout        `json:"recent_workouts"`
	TodayHRV         *int              `json:"today_hrv"`
	TodayReadiness   *int              `json:"today_readiness"`
	CurrentCycle     *TrainingCycle    `json:"current_cycle"`
}

// CalendarWeek is a Monday..Sunday view of workouts
type CalendarWeek struct {
	WeekStart string      `json:"week_start"`
	WeekEnd   string      `json:"week_end"`
	Days      []time.Time `json:"days"`
	Workouts  []*Workout  `json:"workouts"`
}

// WeeklySportVolume sums completed workout minutes per sport. Every sport is
// present in the result, zero when untrained.
func WeeklySportVolume(workouts []*Workout) (map[SportType]int, int) {
	volume := make(map[SportType]int, len(AllSports))
	for _, s := range AllSports {
		volume[s] = 0
	}
	count := 0
	for _, w := range workouts {
		if w == nil || !w.Completed {
			continue
		}
		volume[w.Sport] += w.DurationMinutes()
		count++
	}
	return volume, count
}
