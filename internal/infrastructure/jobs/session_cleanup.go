package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"smilecare.backend/pkg/logger"
)

// DefaultCleanupInterval is how often expired auth rows are purged
const DefaultCleanupInterval = time.Hour

// ExpiredPurger deletes rows that expired before the cutoff
type ExpiredPurger interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// SessionCleanupJob purges expired one-time codes and dead refresh tokens
type SessionCleanupJob struct {
	purgers  map[string]ExpiredPurger
	interval time.Duration
	// rows are kept for retention after they expire
	retention time.Duration
	now       func() time.Time
	stop      chan struct{}
}

// NewSessionCleanupJob creates a job purging the given stores. Keys name the store in logs.
func NewSessionCleanupJob(purgers map[string]ExpiredPurger, interval, retention time.Duration) *SessionCleanupJob {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &SessionCleanupJob{
		purgers:   purgers,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
}

// Start runs until ctx is cancelled or Stop is called
func (j *SessionCleanupJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting session cleanup job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(context.Background(), "Session cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Session cleanup job stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// Stop ends a running Start loop
func (j *SessionCleanupJob) Stop() {
	close(j.stop)
}

// RunOnce purges every store once and returns the rows removed per store
func (j *SessionCleanupJob) RunOnce(ctx context.Context) map[string]int64 {
	cutoff := j.now().Add(-j.retention)
	removed := make(map[string]int64, len(j.purgers))
	for name, p := range j.purgers {
		n, err := p.DeleteExpired(ctx, cutoff)
		if err != nil {
			logger.Error(ctx, "Failed to purge expired rows", zap.String("store", name), zap.Error(err))
			continue
		}
		removed[name] = n
		if n > 0 {
			logger.Info(ctx, "Purged expired rows", zap.String("store", name), zap.Int64("rows", n))
		}
	}
	return removed
}
