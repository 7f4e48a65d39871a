package domain

import (
	"context"
	"time"
)

var (
	ErrMetricNotFound = newNotFoundError("metric")
)

// DefaultMetricDays is how many recent daily entries are listed by default
const DefaultMetricDays = 30

// Metric is one day of recovery data. Each user has at most one per date.
type Metric struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	UserID           string    `json:"user_id" bson:"user_id"`
	Date             time.Time `json:"date" bson:"date"`
	HRV              *int      `json:"hrv,omitempty" bson:"hrv,omitempty"`
	RestingHeartRate *int      `json:"resting_heart_rate,omitempty" bson:"resting_heart_rate,omitempty"`
	Weight           *float64  `json:"weight,omitempty" bson:"weight,omitempty"` // kg
	SleepHours       *float64  `json:"sleep_hours,omitempty" bson:"sleep_hours,omitempty"`
	SleepQuality     *int      `json:"sleep_quality,omitempty" bson:"sleep_quality,omitempty"` // 1-10
	StressLevel      *int      `json:"stress_level,omitempty" bson:"stress_level,omitempty"`   // 1-10
	Readiness        *int      `json:"readiness,omitempty" bson:"readiness,omitempty"`         // 1-10
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

func (m *Metric) Validate() error {
	if m.Date.IsZero() {
		return NewValidationError("date", "is required")
	}
	if m.HRV != nil && *m.HRV < 0 {
		return NewValidationError("hrv", "must not be negative")
	}
	if m.RestingHeartRate != nil && *m.RestingHeartRate < 0 {
		return NewValidationError("resting_heart_rate", "must not be negative")
	}
	if m.Weight != nil && *m.Weight < 0 {
		return NewValidationError("weight", "must not be negative")
	}
	if m.SleepHours != nil && (*m.SleepHours < 0 || *m.SleepHours > 24) {
		return NewValidationError("sleep_hours", "must be between 0 and 24")
	}
	for field, v := range map[string]*int{
		"sleep_quality": m.SleepQuality,
		"stress_level":  m.StressLevel,
		"readiness":     m.Readiness,
	} {
		if v != nil && (*v < 1 || *v > 10) {
			return NewValidationError(field, "must be between 1 and 10")
		}
	}
	return nil
}

// MetricRepository handles the metrics collection
type MetricRepository interface {
	// Upsert creates or replaces the user's entry for metric.Date
	Upsert(ctx context.Context, metric *Metric) error
	GetByDate(ctx context.Context, userID string, day time.Time) (*Metric, error)
	// ListRecent returns up to limit entries, newest date first
	ListRecent(ctx context.Context, userID string, limit int) ([]*Metric, error)
	Delete(ctx context.Context, userID, id string) error
}
