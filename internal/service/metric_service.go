package service

import (
	"context"
	"errors"
	"time"

	"github.com/spockey4711/trainingbuilder/internal/domain"
)

// maxMetricDays bounds the history a single request can pull
const maxMetricDays = 365

type MetricService struct {
	metricRepo domain.MetricRepository
	cache      domain.CacheRepository
	now        func() time.Time
}

func NewMetricService(metricRepo domain.MetricRepository, cache domain.CacheRepository) *MetricService {
	return &MetricService{
		metricRepo: metricRepo,
		cache:      cache,
		now:        time.Now,
	}
}

// SaveMetric creates or replaces the athlete's entry for metric.Date.
// A zero date means today.
func (s *MetricService) SaveMetric(ctx context.Context, userID string, metric *domain.Metric) (*domain.Metric, error) {
	metric.UserID = userID
	if metric.Date.IsZero() {
		metric.Date = domain.DateOf(s.now())
	}
	if err := metric.Validate(); err != nil {
		return nil, err
	}

	if err := s.metricRepo.Upsert(ctx, metric); err != nil {
		return nil, domain.StoreError("upsert metric", err)
	}
	// today's HRV and readiness feed the dashboard
	invalidateReadModels(ctx, s.cache, userID)
	return metric, nil
}

// ListMetrics returns up to days entries, newest first. days <= 0 means the default.
func (s *MetricService) ListMetrics(ctx context.Context, userID string, days int) ([]*domain.Metric, error) {
	if days <= 0 {
		days = domain.DefaultMetricDays
	}
	if days > maxMetricDays {
		days = maxMetricDays
	}
	metrics, err := s.metricRepo.ListRecent(ctx, userID, days)
	if err != nil {
		return nil, domain.StoreError("list metrics", err)
	}
	return metrics, nil
}

// Today returns today's entry, or nil when none was logged
func (s *MetricService) Today(ctx context.Context, userID string) (*domain.Metric, error) {
	metric, err := s.metricRepo.GetByDate(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, domain.StoreError("get metric", err)
	}
	return metric, nil
}

func (s *MetricService) DeleteMetric(ctx context.Context, userID, id string) error {
	if err := s.metricRepo.Delete(ctx, userID, id); err != nil {
		return domain.StoreError("delete metric", err)
	}
	invalidateReadModels(ctx, s.cache, userID)
	return nil
}
