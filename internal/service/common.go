package service

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/domain"
)

// generateULID creates a new ULID string
func generateULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// invalidateReadModels drops the athlete's cached dashboard and load.
// Failures are logged; a stale cache entry expires with its TTL.
func invalidateReadModels(ctx context.Context, cache domain.CacheRepository, userID string) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateUser(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("failed to invalidate cached read models")
	}
}
