package domain

import (
	"context"
	"regexp"
	"time"
)

var (
	ErrWorkoutNotFound = newNotFoundError("workout")
)

// SportType is one of the supported sports
type SportType string

const (
	SportSwim   SportType = "swim"
	SportBike   SportType = "bike"
	SportRun    SportType = "run"
	SportHockey SportType = "hockey"
	SportGym    SportType = "gym"
)

// DefaultSport is used for planned workouts that do not name a sport
const DefaultSport = SportRun

// AllSports lists every sport in display order
var AllSports = []SportType{SportSwim, SportBike, SportRun, SportHockey, SportGym}

func (s SportType) String() string {
	return string(s)
}

func (s SportType) IsValid() bool {
	switch s {
	case SportSwim, SportBike, SportRun, SportHockey, SportGym:
		return true
	default:
		return false
	}
}

// IsEndurance reports whether the sport records pace/TSS style metrics
func (s SportType) IsEndurance() bool {
	return s == SportSwim || s == SportBike || s == SportRun
}

var workoutTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsValidWorkoutTime reports whether value is an HH:MM clock time
func IsValidWorkoutTime(value string) bool {
	return workoutTimePattern.MatchString(value)
}

// GymExercise is a single strength exercise inside a gym workout
type GymExercise struct {
	Name         string  `json:"name" bson:"name"`
	Sets         int     `json:"sets" bson:"sets"`
	Reps         int     `json:"reps" bson:"reps"`
	Weight       float64 `json:"weight" bson:"weight"`
	RestInterval *int    `json:"rest_interval,omitempty" bson:"rest_interval,omitempty"`
}

// WorkoutMetrics holds the optional sport-specific measurements of a workout.
// Absent values stay nil; aggregations treat them as zero.
type WorkoutMetrics struct {
	// Endurance
	Pace         *float64 `json:"pace,omitempty" bson:"pace,omitempty"`
	Speed        *float64 `json:"speed,omitempty" bson:"speed,omitempty"`
	AvgHeartRate *int     `json:"avg_heart_rate,omitempty" bson:"avg_heart_rate,omitempty"`
	MaxHeartRate *int     `json:"max_heart_rate,omitempty" bson:"max_heart_rate,omitempty"`
	TSS          *float64 `json:"tss,omitempty" bson:"tss,omitempty"`
	Power        *int     `json:"power,omitempty" bson:"power,omitempty"`

	// Hockey
	FieldTime   *int     `json:"field_time,omitempty" bson:"field_time,omitempty"`
	DrillTypes  []string `json:"drill_types,omitempty" bson:"drill_types,omitempty"`
	SprintCount *int     `json:"sprint_count,omitempty" bson:"sprint_count,omitempty"`

	// Gym
	Exercises []GymExercise `json:"exercises,omitempty" bson:"exercises,omitempty"`

	// Planned workouts carry the template's labels
	WorkoutType string `json:"workout_type,omitempty" bson:"workout_type,omitempty"`
	Intensity   string `json:"intensity,omitempty" bson:"intensity,omitempty"`
}

// Workout is a single logged or planned training session
type Workout struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	UserID      string         `json:"user_id" bson:"user_id"`
	Sport       SportType      `json:"sport_type" bson:"sport_type"`
	Date        time.Time      `json:"date" bson:"date"`
	WorkoutTime string         `json:"workout_time,omitempty" bson:"workout_time,omitempty"` // HH:MM
	Duration    int            `json:"duration" bson:"duration"`                             // minutes
	Distance    *float64       `json:"distance,omitempty" bson:"distance,omitempty"`         // km
	Metrics     WorkoutMetrics `json:"metrics" bson:"metrics"`
	CycleID     string         `json:"cycle_id,omitempty" bson:"cycle_id,omitempty"`
	PlanID      string         `json:"plan_id,omitempty" bson:"plan_id,omitempty"`
	BatchID     string         `json:"batch_id,omitempty" bson:"batch_id,omitempty"` // groups rows created by one plan application
	Planned     bool           `json:"planned" bson:"planned"`
	Completed   bool           `json:"completed" bson:"completed"`
	Note        *WorkoutNote   `json:"note,omitempty" bson:"-"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" bson:"updated_at"`
}

// DistanceKm returns the distance, or 0 when absent or negative
func (w *Workout) DistanceKm() float64 {
	if w.Distance == nil || *w.Distance < 0 {
		return 0
	}
	return *w.Distance
}

// DurationMinutes returns the duration, clamped at 0
func (w *Workout) DurationMinutes() int {
	if w.Duration < 0 {
		return 0
	}
	return w.Duration
}

// RecordedTSS returns the explicit TSS, or 0 when absent or negative
func (w *Workout) RecordedTSS() float64 {
	if w.Metrics.TSS == nil || *w.Metrics.TSS < 0 {
		return 0
	}
	return *w.Metrics.TSS
}

// Validate checks the fields required to store a workout
func (w *Workout) Validate() error {
	if !w.Sport.IsValid() {
		return NewValidationError("sport_type", "unknown sport %q", w.Sport)
	}
	if w.Date.IsZero() {
		return NewValidationError("date", "is required")
	}
	if w.Duration < 0 {
		return NewValidationError("duration", "must not be negative")
	}
	if w.Distance != nil && *w.Distance < 0 {
		return NewValidationError("distance", "must not be negative")
	}
	if w.Metrics.TSS != nil && *w.Metrics.TSS < 0 {
		return NewValidationError("tss", "must not be negative")
	}
	if w.WorkoutTime != "" && !IsValidWorkoutTime(w.WorkoutTime) {
		return NewValidationError("workout_time", "must be HH:MM")
	}
	return nil
}

// WorkoutRepository is the data-store collaborator for workouts.
// Every query is scoped to the owning user.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *Workout) error
	// InsertMany bulk-creates workouts for a user and returns how many rows were written
	InsertMany(ctx context.Context, userID string, workouts []*Workout) (int, error)
	GetByID(ctx context.Context, userID, id string) (*Workout, error)
	// GetByIDs returns the user's workouts among ids keyed by id; unknown ids are skipped
	GetByIDs(ctx context.Context, userID string, ids []string) (map[string]*Workout, error)
	// ListByUser returns the user's workouts inside the range, ascending by date
	ListByUser(ctx context.Context, userID string, dateRange DateRange) ([]*Workout, error)
	// ListByCycle returns the user's workouts associated with a cycle, ascending by date
	ListByCycle(ctx context.Context, userID, cycleID string) ([]*Workout, error)
	// ListRecent returns the newest workouts first
	ListRecent(ctx context.Context, userID string, limit int) ([]*Workout, error)
	Delete(ctx context.Context, userID, id string) error
}
