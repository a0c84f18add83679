package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Enforcer runs a single retention pass.
type Enforcer interface {
	Enforce(ctx context.Context) error
}

// StartRetentionSweeper periodically reruns the retention pass so the store
// converges after a crash mid-pass left orphaned records or blobs. A zero or
// negative interval disables the sweeper. The goroutine stops with ctx.
func StartRetentionSweeper(ctx context.Context, enforcer Enforcer, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 || enforcer == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("retention sweeper started", zap.Duration("interval", interval))
		for {
			select {
			case <-ctx.Done():
				logger.Info("retention sweeper stopped")
				return
			case <-ticker.C:
				if err := enforcer.Enforce(ctx); err != nil {
					logger.Warn("retention sweep failed", zap.Error(err))
				}
			}
		}
	}()
}
