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

// MongoCycleRepository implements domain.CycleRepository
type MongoCycleRepository struct {
	collection *mongo.Collection
}

func NewMongoCycleRepository(db *mongo.Database) *MongoCycleRepository {
	coll := db.Collection("training_cycles")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start_date", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "type", Value: 1}, {Key: "end_date", Value: 1}}},
	})

	return &MongoCycleRepository{
		collection: coll,
	}
}

func (r *MongoCycleRepository) Create(ctx context.Context, cycle *domain.TrainingCycle) error {
	now := time.Now()
	cycle.ID = ""
	cycle.StartDate = domain.DateOf(cycle.StartDate)
	cycle.EndDate = domain.DateOf(cycle.EndDate)
	cycle.CreatedAt = now
	cycle.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, cycle)
	if err != nil {
		return fmt.Errorf("failed to create cycle: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		cycle.ID = oid.Hex()
	}
	return nil
}

func (r *MongoCycleRepository) GetByID(ctx context.Context, userID, id string) (*domain.TrainingCycle, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var cycle domain.TrainingCycle
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&cycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCycleNotFound
		}
		return nil, fmt.Errorf("failed to get cycle: %w", err)
	}
	return &cycle, nil
}

func (r *MongoCycleRepository) List(ctx context.Context, userID string, cycleType domain.CycleType) ([]*domain.TrainingCycle, error) {
	filter := bson.M{"user_id": userID}
	if cycleType != "" {
		filter["type"] = cycleType
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}
	defer cursor.Close(ctx)

	cycles := []*domain.TrainingCycle{}
	if err := cursor.All(ctx, &cycles); err != nil {
		return nil, fmt.Errorf("failed to decode cycles: %w", err)
	}
	return cycles, nil
}

// GetActive returns nil, nil when no cycle of the type covers day
func (r *MongoCycleRepository) GetActive(ctx context.Context, userID string, cycleType domain.CycleType, day time.Time) (*domain.TrainingCycle, error) {
	d := domain.DateOf(day)
	filter := bson.M{
		"user_id":    userID,
		"type":       cycleType,
		"start_date": bson.M{"$lte": d},
		"end_date":   bson.M{"$gte": d},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var cycle domain.TrainingCycle
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&cycle); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active cycle: %w", err)
	}
	return &cycle, nil
}

func (r *MongoCycleRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete cycle: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrCycleNotFound
	}

	// children keep existing as roots
	_, err = r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "parent_cycle_id": id},
		bson.M{"$unset": bson.M{"parent_cycle_id": ""}},
	)
	if err != nil {
		return fmt.Errorf("failed to detach child cycles: %w", err)
	}
	return nil
}
