package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Read models are keyed per athlete so a single pattern drops all of them:
//
//	athlete:{userID}:dashboard:{YYYY-MM-DD}
//	athlete:{userID}:load:{YYYY-MM-DD}:{windowDays}
const athleteKeyPrefix = "athlete:"

var ErrCacheMiss = errors.New("cache miss")

// RedisCacheRepository implements domain.CacheRepository using Redis
type RedisCacheRepository struct {
	client *redis.Client
}

// NewRedisCacheRepository creates a new Redis cache repository
func NewRedisCacheRepository(client *redis.Client) *RedisCacheRepository {
	return &RedisCacheRepository{
		client: client,
	}
}

func dashboardKey(userID string, day time.Time) string {
	return fmt.Sprintf("%s%s:dashboard:%s", athleteKeyPrefix, userID, domain.DateKey(day))
}

func trainingLoadKey(userID string, day time.Time, windowDays int) string {
	return fmt.Sprintf("%s%s:load:%s:%d", athleteKeyPrefix, userID, domain.DateKey(day), windowDays)
}

func (r *RedisCacheRepository) GetDashboard(ctx context.Context, userID string, day time.Time) (*domain.DashboardStats, bool, error) {
	var stats domain.DashboardStats
	if err := r.Get(ctx, dashboardKey(userID, day), &stats); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &stats, true, nil
}

func (r *RedisCacheRepository) SetDashboard(ctx context.Context, userID string, day time.Time, stats *domain.DashboardStats, ttl time.Duration) error {
	return r.Set(ctx, dashboardKey(userID, day), stats, ttl)
}

func (r *RedisCacheRepository) GetTrainingLoad(ctx context.Context, userID string, day time.Time, windowDays int) (*domain.TrainingLoadMetrics, bool, error) {
	var metrics domain.TrainingLoadMetrics
	if err := r.Get(ctx, trainingLoadKey(userID, day, windowDays), &metrics); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &metrics, true, nil
}

func (r *RedisCacheRepository) SetTrainingLoad(ctx context.Context, userID string, day time.Time, windowDays int, metrics *domain.TrainingLoadMetrics, ttl time.Duration) error {
	return r.Set(ctx, trainingLoadKey(userID, day, windowDays), metrics, ttl)
}

// InvalidateUser removes every cached read model of a user
func (r *RedisCacheRepository) InvalidateUser(ctx context.Context, userID string) error {
	return r.DeleteByPattern(ctx, athleteKeyPrefix+userID+":*")
}

// =============================================================================
// Generic Cache Operations with OpenTelemetry Tracing
// =============================================================================

// Get retrieves a value from cache by key with OTel tracing
func (r *RedisCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Get",
		trace.WithAttributes(attribute.String("cache.key", key)),
	)
	defer span.End()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.String("cache.result", "miss"))
			return ErrCacheMiss
		}
		span.RecordError(err)
		return fmt.Errorf("redis get error: %w", err)
	}

	span.SetAttributes(attribute.String("cache.result", "hit"))
	if err := json.Unmarshal(data, dest); err != nil {
		span.RecordError(err)
		return fmt.Errorf("unmarshal error: %w", err)
	}

	return nil
}

// Set stores a value in cache with TTL and OTel tracing
func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Set",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.Int64("cache.ttl_seconds", int64(ttl.Seconds())),
		),
	)
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

// Delete removes keys from cache with OTel tracing
func (r *RedisCacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Delete",
		trace.WithAttributes(attribute.Int("cache.key_count", len(keys))),
	)
	defer span.End()

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis delete error: %w", err)
	}

	return nil
}

// DeleteByPattern removes keys matching a glob pattern. It walks the keyspace
// with SCAN so a large keyspace does not block the server.
func (r *RedisCacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.DeleteByPattern",
		trace.WithAttributes(attribute.String("cache.pattern", pattern)),
	)
	defer span.End()

	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis scan error: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	span.SetAttributes(attribute.Int("cache.matched_keys", len(keys)))
	return r.client.Del(ctx, keys...).Err()
}
