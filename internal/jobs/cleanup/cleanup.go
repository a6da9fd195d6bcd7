package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultRetention = 72 * time.Hour

// Job removes accounts that signed up but never confirmed their
// college email within the retention window.
type Job struct {
	users     unconfirmedCleaner
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

type unconfirmedCleaner interface {
	DeleteUnconfirmedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

func New(users unconfirmedCleaner, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = defaultRetention
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		users:     users,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.users == nil {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	rows, err := j.users.DeleteUnconfirmedOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete unconfirmed users: %w", err)
	}
	if rows > 0 {
		j.logger.Info("cleanup unconfirmed users completed", zap.Int64("deleted", rows))
	}
	return nil
}

// RunLoop executes the job immediately and then on every tick until the
// context is cancelled.
func (j *Job) RunLoop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	if err := j.Run(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				return err
			}
		}
	}
}
