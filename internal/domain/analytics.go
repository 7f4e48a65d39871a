package domain

// VolumeAnalytics is the aggregated training volume of a set of workouts
type VolumeAnalytics struct {
	TotalDuration int                    `json:"total_duration"` // minutes
	TotalDistance float64                `json:"total_distance"` // km
	TotalWorkouts int                    `json:"total_workouts"`
	BySport       []SportVolumeBreakdown `json:"by_sport"`
	ByWeek        []WeeklyVolume         `json:"by_week"`
}

// SportVolumeBreakdown is the volume of one sport
type SportVolumeBreakdown struct {
	Sport       SportType `json:"sport"`
	Duration    int       `json:"duration"`
	Distance    float64   `json:"distance"`
	Workouts    int       `json:"workouts"`
	AvgDuration float64   `json:"avg_duration"`
	Percentage  float64   `json:"percentage"` // share of total duration
}

// WeeklyVolume is the volume of one Monday-start week
type WeeklyVolume struct {
	Week     string   `json:"week"` // Monday, YYYY-MM-DD
	Duration int      `json:"duration"`
	Distance float64  `json:"distance"`
	Workouts int      `json:"workouts"`
	TSS      *float64 `json:"tss,omitempty"` // only set when the week recorded TSS
}

// WeeklyTSS is the summed training load of one week
type WeeklyTSS struct {
	Week string  `json:"week"`
	TSS  float64 `json:"tss"`
}

// LoadStatus classifies an acute:chronic workload ratio
type LoadStatus string

const (
	LoadStatusLow      LoadStatus = "low_load"
	LoadStatusOptimal  LoadStatus = "optimal"
	LoadStatusCaution  LoadStatus = "caution"
	LoadStatusHighRisk LoadStatus = "high_risk"
)

// ClassifyACWR maps a ratio onto its band:
// < 0.8 low, 0.8..1.3 optimal, (1.3, 1.5] caution, > 1.5 high risk
func ClassifyACWR(acwr float64) LoadStatus {
	switch {
	case acwr < 0.8:
		return LoadStatusLow
	case acwr <= 1.3:
		return LoadStatusOptimal
	case acwr <= 1.5:
		return LoadStatusCaution
	default:
		return LoadStatusHighRisk
	}
}

// TrainingLoadMetrics is the acute/chronic load summary at a point in time
type TrainingLoadMetrics struct {
	AcuteLoad   int         `json:"acute_load"`   // 7-day average, rounded
	ChronicLoad int         `json:"chronic_load"` // 42-day average, rounded
	ACWR        float64     `json:"acwr"`         // from unrounded loads, 2 decimals
	CurrentTSS  int         `json:"current_tss"`
	WeeklyTSS   []WeeklyTSS `json:"weekly_tss"`
	Status      LoadStatus  `json:"status"`
}
