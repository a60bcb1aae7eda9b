package jobs

import (
	"context"
	"sync"
	"time"

	"account-api.backend/pkg/logger"
	"go.uber.org/zap"
)

type expiredTokenDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// VerificationTokenSweeper deletes email verification tokens past their expiry
type VerificationTokenSweeper struct {
	repo     expiredTokenDeleter
	interval time.Duration
	nowFunc  func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewVerificationTokenSweeper(repo expiredTokenDeleter, interval time.Duration) *VerificationTokenSweeper {
	return &VerificationTokenSweeper{
		repo:     repo,
		interval: interval,
		nowFunc:  time.Now,
		stop:     make(chan struct{}),
	}
}

// Start blocks until ctx is cancelled or Stop is called
func (j *VerificationTokenSweeper) Start(ctx context.Context) {
	logger.Info(ctx, "starting verification token sweeper", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "verification token sweeper stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "verification token sweeper stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *VerificationTokenSweeper) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *VerificationTokenSweeper) sweep(ctx context.Context) {
	n, err := j.repo.DeleteExpired(ctx, j.nowFunc())
	if err != nil {
		logger.Error(ctx, "failed to delete expired verification tokens", zap.Error(err))
		return
	}
	if n == 0 {
		return
	}
	logger.Info(ctx, "deleted expired verification tokens", zap.Int64("count", n))
}
