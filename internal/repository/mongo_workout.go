package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spockey4711/trainingbuilder/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWorkoutRepository implements domain.WorkoutRepository
type MongoWorkoutRepository struct {
	collection *mongo.Collection
}

func NewMongoWorkoutRepository(db *mongo.Database) *MongoWorkoutRepository {
	coll := db.Collection("workouts")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "cycle_id", Value: 1}}},
		{Keys: bson.D{{Key: "batch_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	})

	return &MongoWorkoutRepository{
		collection: coll,
	}
}

func (r *MongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	now := time.Now()
	workout.ID = ""
	workout.Date = domain.DateOf(workout.Date)
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		workout.ID = oid.Hex()
	}
	return nil
}

// InsertMany writes all workouts in one ordered batch, stamping the owner.
// On a partial failure the count of rows the store accepted is returned with the error.
func (r *MongoWorkoutRepository) InsertMany(ctx context.Context, userID string, workouts []*domain.Workout) (int, error) {
	if len(workouts) == 0 {
		return 0, nil
	}

	now := time.Now()
	docs := make([]interface{}, len(workouts))
	for i, w := range workouts {
		w.ID = ""
		w.UserID = userID
		w.Date = domain.DateOf(w.Date)
		w.CreatedAt = now
		w.UpdatedAt = now
		docs[i] = w
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if result != nil {
		for i, id := range result.InsertedIDs {
			if oid, ok := id.(primitive.ObjectID); ok && i < len(workouts) {
				workouts[i].ID = oid.Hex()
			}
		}
	}
	if err != nil {
		inserted := 0
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) && len(bulkErr.WriteErrors) > 0 {
			// ordered inserts stop at the first failing document
			inserted = bulkErr.WriteErrors[0].Index
		}
		return inserted, fmt.Errorf("failed to insert workouts: %w", err)
	}
	return len(result.InsertedIDs), nil
}

func (r *MongoWorkoutRepository) GetByID(ctx context.Context, userID, id string) (*domain.Workout, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var workout domain.Workout
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}
	return &workout, nil
}

func (r *MongoWorkoutRepository) GetByIDs(ctx context.Context, userID string, ids []string) (map[string]*domain.Workout, error) {
	byID := make(map[string]*domain.Workout, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return byID, nil
	}

	workouts, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}, "user_id": userID}, options.Find())
	if err != nil {
		return nil, err
	}
	for _, w := range workouts {
		byID[w.ID] = w
	}
	return byID, nil
}

func (r *MongoWorkoutRepository) ListByUser(ctx context.Context, userID string, dateRange domain.DateRange) ([]*domain.Workout, error) {
	filter := bson.M{"user_id": userID}
	dateFilter := bson.M{}
	if dateRange.Start != nil {
		dateFilter["$gte"] = domain.DateOf(*dateRange.Start)
	}
	if dateRange.End != nil {
		dateFilter["$lte"] = domain.DateOf(*dateRange.End)
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "workout_time", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MongoWorkoutRepository) ListByCycle(ctx context.Context, userID, cycleID string) ([]*domain.Workout, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "workout_time", Value: 1}})
	return r.find(ctx, bson.M{"user_id": userID, "cycle_id": cycleID}, opts)
}

func (r *MongoWorkoutRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Workout, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "workout_time", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

func (r *MongoWorkoutRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrWorkoutNotFound
	}
	return nil
}

func (r *MongoWorkoutRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Workout, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer cursor.Close(ctx)

	workouts := []*domain.Workout{}
	if err := cursor.All(ctx, &workouts); err != nil {
		return nil, fmt.Errorf("failed to decode workouts: %w", err)
	}
	return workouts, nil
}
