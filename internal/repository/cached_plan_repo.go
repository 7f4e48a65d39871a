package repository

import (
	"context"
	"time"

	"github.com/spockey4711/trainingbuilder/internal/domain"
)

const (
	planByIDKeyPrefix = "plan:id:"
	planCacheTTL      = 15 * time.Minute
)

// CachedPlanRepository wraps a PlanRepository with read-through Redis caching
// of single plans. Templates are read on every application but rarely change.
type CachedPlanRepository struct {
	store domain.PlanRepository
	cache *RedisCacheRepository
}

func NewCachedPlanRepository(store domain.PlanRepository, cache *RedisCacheRepository) *CachedPlanRepository {
	return &CachedPlanRepository{
		store: store,
		cache: cache,
	}
}

func planKey(userID, id string) string {
	return planByIDKeyPrefix + userID + ":" + id
}

// GetByID retrieves a plan, trying the cache first
func (r *CachedPlanRepository) GetByID(ctx context.Context, userID, id string) (*domain.TrainingPlan, error) {
	key := planKey(userID, id)

	var plan domain.TrainingPlan
	if err := r.cache.Get(ctx, key, &plan); err == nil {
		return &plan, nil
	}

	result, err := r.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	// cache errors never fail a read
	_ = r.cache.Set(ctx, key, result, planCacheTTL)

	return result, nil
}

func (r *CachedPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) error {
	return r.store.Create(ctx, plan)
}

func (r *CachedPlanRepository) List(ctx context.Context, userID string) ([]*domain.TrainingPlan, error) {
	return r.store.List(ctx, userID)
}

// Delete removes the plan and its cached copy
func (r *CachedPlanRepository) Delete(ctx context.Context, userID, id string) error {
	if err := r.store.Delete(ctx, userID, id); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, planKey(userID, id))
	return nil
}
