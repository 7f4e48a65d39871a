package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spockey4711/trainingbuilder/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// free-text fields covered by note search
var noteSearchFields = []string{
	"feeling",
	"what_went_well",
	"what_to_adjust",
	"physical_sensations",
	"mental_notes",
}

// MongoNoteRepository implements domain.NoteRepository
type MongoNoteRepository struct {
	collection *mongo.Collection
}

func NewMongoNoteRepository(db *mongo.Database) *MongoNoteRepository {
	coll := db.Collection("workout_notes")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "workout_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "tags", Value: 1}}},
	})

	return &MongoNoteRepository{
		collection: coll,
	}
}

func (r *MongoNoteRepository) Create(ctx context.Context, note *domain.WorkoutNote) error {
	now := time.Now()
	note.ID = ""
	note.CreatedAt = now
	note.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, note)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		note.ID = oid.Hex()
	}
	return nil
}

// GetByWorkoutIDs returns the notes of the given workouts keyed by workout id
func (r *MongoNoteRepository) GetByWorkoutIDs(ctx context.Context, userID string, workoutIDs []string) (map[string]*domain.WorkoutNote, error) {
	notes := make(map[string]*domain.WorkoutNote, len(workoutIDs))
	if len(workoutIDs) == 0 {
		return notes, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{
		"user_id":    userID,
		"workout_id": bson.M{"$in": workoutIDs},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}
	defer cursor.Close(ctx)

	var found []*domain.WorkoutNote
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	for _, n := range found {
		notes[n.WorkoutID] = n
	}
	return notes, nil
}

func (r *MongoNoteRepository) Search(ctx context.Context, userID, query string) ([]*domain.WorkoutNote, error) {
	filter := bson.M{"user_id": userID}
	if q := strings.TrimSpace(query); q != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		or := make(bson.A, 0, len(noteSearchFields))
		for _, field := range noteSearchFields {
			or = append(or, bson.M{field: pattern})
		}
		filter["$or"] = or
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := []*domain.WorkoutNote{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}

// DistinctTags returns the user's tags sorted alphabetically
func (r *MongoNoteRepository) DistinctTags(ctx context.Context, userID string) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "tags", bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	tags := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			tags = append(tags, s)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func (r *MongoNoteRepository) DeleteByWorkoutID(ctx context.Context, userID, workoutID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID, "workout_id": workoutID})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
