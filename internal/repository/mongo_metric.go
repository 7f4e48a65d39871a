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

// MongoMetricRepository implements domain.MetricRepository
type MongoMetricRepository struct {
	collection *mongo.Collection
}

func NewMongoMetricRepository(db *mongo.Database) *MongoMetricRepository {
	coll := db.Collection("metrics")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// one entry per user and calendar day
	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoMetricRepository{
		collection: coll,
	}
}

// Upsert replaces the measurements for metric.Date, creating the entry if needed.
// Absent measurements are cleared so the stored day matches the submitted one.
func (r *MongoMetricRepository) Upsert(ctx context.Context, metric *domain.Metric) error {
	now := time.Now()
	metric.Date = domain.DateOf(metric.Date)

	filter := bson.M{"user_id": metric.UserID, "date": metric.Date}
	set := bson.M{"updated_at": now}
	unset := bson.M{}
	fields := map[string]interface{}{
		"hrv":                metric.HRV,
		"resting_heart_rate": metric.RestingHeartRate,
		"weight":             metric.Weight,
		"sleep_hours":        metric.SleepHours,
		"sleep_quality":      metric.SleepQuality,
		"stress_level":       metric.StressLevel,
		"readiness":          metric.Readiness,
	}
	for key, value := range fields {
		if isNilPointer(value) {
			unset[key] = ""
			continue
		}
		set[key] = value
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var stored domain.Metric
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return fmt.Errorf("failed to upsert metric: %w", err)
	}

	*metric = stored
	return nil
}

func (r *MongoMetricRepository) GetByDate(ctx context.Context, userID string, day time.Time) (*domain.Metric, error) {
	var metric domain.Metric
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "date": domain.DateOf(day)}).Decode(&metric)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMetricNotFound
		}
		return nil, fmt.Errorf("failed to get metric: %w", err)
	}
	return &metric, nil
}

func (r *MongoMetricRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Metric, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	defer cursor.Close(ctx)

	metrics := []*domain.Metric{}
	if err := cursor.All(ctx, &metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics: %w", err)
	}
	return metrics, nil
}

func (r *MongoMetricRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete metric: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrMetricNotFound
	}
	return nil
}

func isNilPointer(v interface{}) bool {
	switch p := v.(type) {
	case *int:
		return p == nil
	case *float64:
		return p == nil
	default:
		return v == nil
	}
}
