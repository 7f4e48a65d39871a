package domain

import (
	"context"
	"time"
)

// CacheRepository caches derived per-user read models.
// A miss is reported with a false return, not an error.
type CacheRepository interface {
	GetDashboard(ctx context.Context, userID string, day time.Time) (*DashboardStats, bool, error)
	SetDashboard(ctx context.Context, userID string, day time.Time, stats *DashboardStats, ttl time.Duration) error
	GetTrainingLoad(ctx context.Context, userID string, day time.Time, windowDays int) (*TrainingLoadMetrics, bool, error)
	SetTrainingLoad(ctx context.Context, userID string, day time.Time, windowDays int, metrics *TrainingLoadMetrics, ttl time.Duration) error
	// InvalidateUser drops every cached read model of the user
	InvalidateUser(ctx context.Context, userID string) error
}
