package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

var (
	ErrPlanNotFound = newNotFoundError("training plan")
)

// DaysPerWeek is the number of days in every template week
const DaysPerWeek = 7

// WorkoutPlan is one scheduled session inside a template day
type WorkoutPlan struct {
	Sport          SportType `json:"sport_type,omitempty" bson:"sport_type,omitempty"`
	WorkoutType    string    `json:"workout_type" bson:"workout_type"`
	TargetDuration *int      `json:"target_duration,omitempty" bson:"target_duration,omitempty"` // minutes
	TargetDistance *float64  `json:"target_distance,omitempty" bson:"target_distance,omitempty"` // km
	Intensity      string    `json:"intensity,omitempty" bson:"intensity,omitempty"`
	TimeOfDay      string    `json:"time_of_day,omitempty" bson:"time_of_day,omitempty"` // HH:MM
}

func (p *WorkoutPlan) Validate() error {
	if p.Sport != "" && !p.Sport.IsValid() {
		return NewValidationError("sport_type", "unknown sport %q", p.Sport)
	}
	if p.TargetDuration != nil && *p.TargetDuration < 0 {
		return NewValidationError("target_duration", "must not be negative")
	}
	if p.TargetDistance != nil && *p.TargetDistance < 0 {
		return NewValidationError("target_distance", "must not be negative")
	}
	if p.TimeOfDay != "" && !IsValidWorkoutTime(p.TimeOfDay) {
		return NewValidationError("time_of_day", "must be HH:MM")
	}
	return nil
}

// DayPlan is one day of a template week. Day runs 1..7 with 1 = Monday.
// A day is a rest day exactly when Workouts is empty.
type DayPlan struct {
	Day       int           `json:"day" bson:"day"`
	IsRestDay bool          `json:"is_rest_day" bson:"is_rest_day"`
	Workouts  []WorkoutPlan `json:"workouts" bson:"workouts"`
}

// SetRestDay toggles rest status. Marking a rest day clears its workouts,
// unmarking seeds a single blank workout to fill in.
func (d *DayPlan) SetRestDay(rest bool) {
	d.IsRestDay = rest
	if rest {
		d.Workouts = []WorkoutPlan{}
		return
	}
	if len(d.Workouts) == 0 {
		d.Workouts = []WorkoutPlan{{}}
	}
}

// WeeklyStructure is one week of a plan template
type WeeklyStructure struct {
	Week int       `json:"week" bson:"week"`
	Days []DayPlan `json:"days" bson:"days"`
}

// NewRestWeek returns a template week of seven rest days
func NewRestWeek(week int) WeeklyStructure {
	days := make([]DayPlan, DaysPerWeek)
	for i := range days {
		days[i] = DayPlan{Day: i + 1, IsRestDay: true, Workouts: []WorkoutPlan{}}
	}
	return WeeklyStructure{Week: week, Days: days}
}

// TrainingPlan is a reusable multi-week template
type TrainingPlan struct {
	ID          string            `json:"id" bson:"_id,omitempty"`
	UserID      string            `json:"user_id" bson:"user_id"`
	Name        string            `json:"name" bson:"name"`
	Description string            `json:"description" bson:"description"`
	CycleID     string            `json:"cycle_id,omitempty" bson:"cycle_id,omitempty"`
	Structure   []WeeklyStructure `json:"structure" bson:"structure"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at"`
}

// Normalize renumbers weeks from 1 and derives each day's rest flag from its workouts
func (p *TrainingPlan) Normalize() {
	if p.Structure == nil {
		p.Structure = []WeeklyStructure{}
	}
	for w := range p.Structure {
		p.Structure[w].Week = w + 1
		for d := range p.Structure[w].Days {
			day := &p.Structure[w].Days[d]
			if day.Workouts == nil {
				day.Workouts = []WorkoutPlan{}
			}
			day.IsRestDay = len(day.Workouts) == 0
		}
	}
}

func (p *TrainingPlan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "is required")
	}
	return ValidateStructure(p.Structure)
}

// ValidateStructure checks day numbering and every planned workout
func ValidateStructure(structure []WeeklyStructure) error {
	for w, week := range structure {
		if len(week.Days) > DaysPerWeek {
			return NewValidationError(fmt.Sprintf("structure[%d].days", w), "a week has at most %d days, got %d", DaysPerWeek, len(week.Days))
		}
		seen := make(map[int]bool, len(week.Days))
		for _, day := range week.Days {
			field := fmt.Sprintf("structure[%d].day", w)
			if day.Day < 1 || day.Day > DaysPerWeek {
				return NewValidationError(field, "must be between 1 and %d, got %d", DaysPerWeek, day.Day)
			}
			if seen[day.Day] {
				return NewValidationError(field, "day %d appears twice", day.Day)
			}
			seen[day.Day] = true
			for i := range day.Workouts {
				if err := day.Workouts[i].Validate(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ExpandPlanToWeek turns a template into dated workout records. Week w of the
// template lands w weeks after weekStart; day d lands d-1 days after that week's
// Monday. A day is scheduled only by its workouts; the stored IsRestDay flag
// is ignored. When the whole template produces nothing, ErrNothingToCreate is
// returned.
func ExpandPlanToWeek(structure []WeeklyStructure, weekStart time.Time, cycleID string) ([]*Workout, error) {
	if weekStart.IsZero() {
		return nil, NewValidationError("week_start", "is required")
	}
	start := DateOf(weekStart)
	if start.Weekday() != time.Monday {
		return nil, NewValidationError("week_start", "must be a Monday, got %s", start.Weekday())
	}
	if err := ValidateStructure(structure); err != nil {
		return nil, err
	}

	var records []*Workout
	for w, week := range structure {
		for _, day := range week.Days {
			if len(day.Workouts) == 0 {
				continue
			}
			date := start.AddDate(0, 0, w*DaysPerWeek+day.Day-1)
			for _, wp := range day.Workouts {
				records = append(records, wp.toWorkout(date, cycleID))
			}
		}
	}

	if len(records) == 0 {
		return nil, ErrNothingToCreate
	}
	return records, nil
}

func (p WorkoutPlan) toWorkout(date time.Time, cycleID string) *Workout {
	sport := p.Sport
	if sport == "" {
		sport = DefaultSport
	}
	duration := 0
	if p.TargetDuration != nil {
		duration = *p.TargetDuration
	}
	var distance *float64
	if p.TargetDistance != nil {
		d := *p.TargetDistance
		distance = &d
	}
	return &Workout{
		Sport:       sport,
		Date:        date,
		WorkoutTime: p.TimeOfDay,
		Duration:    duration,
		Distance:    distance,
		Metrics: WorkoutMetrics{
			WorkoutType: p.WorkoutType,
			Intensity:   p.Intensity,
		},
		CycleID:   cycleID,
		Planned:   true,
		Completed: false,
	}
}

// PlanRepository handles the training_plans collection
type PlanRepository interface {
	Create(ctx context.Context, plan *TrainingPlan) error
	GetByID(ctx context.Context, userID, id string) (*TrainingPlan, error)
	List(ctx context.Context, userID string) ([]*TrainingPlan, error)
	Delete(ctx context.Context, userID, id string) error
}
