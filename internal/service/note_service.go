package service

import (
	"context"
	"strings"

	"github.com/spockey4711/trainingbuilder/internal/domain"
)

// filterAll is the UI's "no filter" value
const filterAll = "all"

type NoteService struct {
	noteRepo    domain.NoteRepository
	workoutRepo domain.WorkoutRepository
}

func NewNoteService(noteRepo domain.NoteRepository, workoutRepo domain.WorkoutRepository) *NoteService {
	return &NoteService{
		noteRepo:    noteRepo,
		workoutRepo: workoutRepo,
	}
}

// Search finds notes by free text, then narrows by tag and by the sport of
// the workout each note belongs to. Hits keep the store's newest-first order.
func (s *NoteService) Search(ctx context.Context, userID string, search domain.NoteSearch) ([]*domain.NoteWithWorkout, error) {
	notes, err := s.noteRepo.Search(ctx, userID, search.Query)
	if err != nil {
		return nil, domain.StoreError("search notes", err)
	}

	tag := normalizeFilter(search.Tag)
	sport := normalizeFilter(search.Sport)
	if sport != "" && !domain.SportType(sport).IsValid() {
		return nil, domain.NewValidationError("sport", "unknown sport %q", search.Sport)
	}

	candidates := make([]*domain.WorkoutNote, 0, len(notes))
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		if tag != "" && !hasTag(n.Tags, tag) {
			continue
		}
		candidates = append(candidates, n)
		ids = append(ids, n.WorkoutID)
	}

	workouts, err := s.workoutRepo.GetByIDs(ctx, userID, ids)
	if err != nil {
		return nil, domain.StoreError("get workouts", err)
	}

	results := make([]*domain.NoteWithWorkout, 0, len(candidates))
	for _, n := range candidates {
		w := workouts[n.WorkoutID]
		if sport != "" && (w == nil || string(w.Sport) != sport) {
			continue
		}
		results = append(results, &domain.NoteWithWorkout{WorkoutNote: n, Workout: w})
	}
	return results, nil
}

// Tags lists every tag the athlete has used
func (s *NoteService) Tags(ctx context.Context, userID string) ([]string, error) {
	tags, err := s.noteRepo.DistinctTags(ctx, userID)
	if err != nil {
		return nil, domain.StoreError("list tags", err)
	}
	return tags, nil
}

func normalizeFilter(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, filterAll) {
		return ""
	}
	return value
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
