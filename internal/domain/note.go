package domain

import (
	"context"
	"strings"
	"time"
)

// WorkoutNote is the athlete's reflection attached to a workout
type WorkoutNote struct {
	ID                 string    `json:"id" bson:"_id,omitempty"`
	UserID             string    `json:"user_id" bson:"user_id"`
	WorkoutID          string    `json:"workout_id" bson:"workout_id"`
	RPE                *int      `json:"rpe,omitempty" bson:"rpe,omitempty"` // Rate of Perceived Exertion (1-10)
	Feeling            string    `json:"feeling" bson:"feeling"`
	WhatWentWell       string    `json:"what_went_well" bson:"what_went_well"`
	WhatToAdjust       string    `json:"what_to_adjust" bson:"what_to_adjust"`
	PhysicalSensations string    `json:"physical_sensations" bson:"physical_sensations"`
	MentalNotes        string    `json:"mental_notes" bson:"mental_notes"`
	Tags               []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
}

// IsEmpty reports whether the note carries no content worth storing
func (n *WorkoutNote) IsEmpty() bool {
	return n.RPE == nil &&
		strings.TrimSpace(n.Feeling) == "" &&
		strings.TrimSpace(n.WhatWentWell) == "" &&
		strings.TrimSpace(n.WhatToAdjust) == "" &&
		strings.TrimSpace(n.PhysicalSensations) == "" &&
		strings.TrimSpace(n.MentalNotes) == "" &&
		len(n.Tags) == 0
}

func (n *WorkoutNote) Validate() error {
	if n.RPE != nil && (*n.RPE < 1 || *n.RPE > 10) {
		return NewValidationError("rpe", "must be between 1 and 10")
	}
	return nil
}

// ParseTags splits a comma separated tag list, dropping blanks
func ParseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NoteSearch filters workout notes. Empty fields (or "all") match everything.
type NoteSearch struct {
	Query string
	Sport string
	Tag   string
}

// NoteWithWorkout is a search hit joined with a summary of its workout
type NoteWithWorkout struct {
	*WorkoutNote
	Workout *Workout `json:"workout,omitempty"`
}

// NoteRepository handles the workout_notes collection
type NoteRepository interface {
	Create(ctx context.Context, note *WorkoutNote) error
	GetByWorkoutIDs(ctx context.Context, userID string, workoutIDs []string) (map[string]*WorkoutNote, error)
	// Search matches the query case-insensitively against the free-text fields, newest first
	Search(ctx context.Context, userID, query string) ([]*WorkoutNote, error)
	DistinctTags(ctx context.Context, userID string) ([]string, error)
	DeleteByWorkoutID(ctx context.Context, userID, workoutID string) error
}
