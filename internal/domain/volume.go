package domain

import "sort"

type volumeAccumulator struct {
	duration int
	distance float64
	workouts int
	tss      float64
}

// ComputeVolumeAnalytics aggregates workouts inside dateRange into totals, a
// per-sport breakdown sorted by duration (descending, stable on first
// appearance) and a per-week series sorted by week.
func ComputeVolumeAnalytics(workouts []*Workout, dateRange DateRange) VolumeAnalytics {
	result := VolumeAnalytics{
		BySport: []SportVolumeBreakdown{},
		ByWeek:  []WeeklyVolume{},
	}

	var sportOrder []SportType
	bySport := make(map[SportType]*volumeAccumulator)
	byWeek := make(map[string]*volumeAccumulator)

	for _, w := range workouts {
		if w == nil || !dateRange.Contains(w.Date) {
			continue
		}
		duration := w.DurationMinutes()
		distance := w.DistanceKm()

		result.TotalDuration += duration
		result.TotalDistance += distance
		result.TotalWorkouts++

		sport, ok := bySport[w.Sport]
		if !ok {
			sport = &volumeAccumulator{}
			bySport[w.Sport] = sport
			sportOrder = append(sportOrder, w.Sport)
		}
		sport.duration += duration
		sport.distance += distance
		sport.workouts++

		key := WeekKey(w.Date)
		week, ok := byWeek[key]
		if !ok {
			week = &volumeAccumulator{}
			byWeek[key] = week
		}
		week.duration += duration
		week.distance += distance
		week.workouts++
		week.tss += w.RecordedTSS()
	}

	if result.TotalWorkouts == 0 {
		return result
	}

	for _, s := range sportOrder {
		acc := bySport[s]
		breakdown := SportVolumeBreakdown{
			Sport:    s,
			Duration: acc.duration,
			Distance: acc.distance,
			Workouts: acc.workouts,
		}
		if acc.workouts > 0 {
			breakdown.AvgDuration = float64(acc.duration) / float64(acc.workouts)
		}
		if result.TotalDuration > 0 {
			breakdown.Percentage = float64(acc.duration) / float64(result.TotalDuration) * 100
		}
		result.BySport = append(result.BySport, breakdown)
	}
	sort.SliceStable(result.BySport, func(i, j int) bool {
		return result.BySport[i].Duration > result.BySport[j].Duration
	})

	for key, acc := range byWeek {
		week := WeeklyVolume{
			Week:     key,
			Duration: acc.duration,
			Distance: acc.distance,
			Workouts: acc.workouts,
		}
		if acc.tss > 0 {
			tss := acc.tss
			week.TSS = &tss
		}
		result.ByWeek = append(result.ByWeek, week)
	}
	sort.Slice(result.ByWeek, func(i, j int) bool {
		return result.ByWeek[i].Week < result.ByWeek[j].Week
	})

	return result
}
