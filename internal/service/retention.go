package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/thuanhighclean/cleaning-service/internal/domain"
	"github.com/thuanhighclean/cleaning-service/internal/events"
	"github.com/thuanhighclean/cleaning-service/internal/observability"
	"github.com/thuanhighclean/cleaning-service/internal/repository"
	"github.com/thuanhighclean/cleaning-service/internal/storage"
	"github.com/thuanhighclean/cleaning-service/pkg/util"
)

// PassLock serializes retention passes across concurrent order creations.
// The lock is best-effort: blob and record deletes are idempotent, so an
// unserialized overlapping pass is wasteful but safe.
type PassLock interface {
	TryLock(ctx context.Context) (release func(), acquired bool)
}

// NoopPassLock always grants the lock. Used when no Redis is configured.
type NoopPassLock struct{}

// TryLock grants immediately.
func (NoopPassLock) TryLock(context.Context) (func(), bool) {
	return func() {}, true
}

// RetentionEnforcer keeps the stored order count at or below a fixed cap by
// purging the oldest excess orders together with their remote images.
type RetentionEnforcer struct {
	orders     repository.OrderRepository
	store      storage.Store
	lock       PassLock
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	maxOrders  int
}

// NewRetentionEnforcer builds the enforcer.
func NewRetentionEnforcer(
	orders repository.OrderRepository,
	store storage.Store,
	lock PassLock,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	metrics *observability.Metrics,
	maxOrders int,
) *RetentionEnforcer {
	if lock == nil {
		lock = NoopPassLock{}
	}
	return &RetentionEnforcer{
		orders:     orders,
		store:      store,
		lock:       lock,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		maxOrders:  maxOrders,
	}
}

// Enforce re-reads the full order set, oldest first, and purges orders until
// the remaining count equals the cap. Deletion proceeds strictly oldest to
// newest and never removes more than the excess. A failed blob delete is
// logged and skipped; the order record is still removed. A failed record
// delete aborts the pass.
func (e *RetentionEnforcer) Enforce(ctx context.Context) error {
	release, acquired := e.lock.TryLock(ctx)
	if acquired {
		defer release()
	} else {
		e.logger.Debug("retention pass overlapping with another; continuing unserialized")
	}

	orders, err := e.orders.ListByDate(ctx, repository.SortAscending)
	if err != nil {
		return util.NewRepositoryError(err)
	}

	idx := 0
	for len(orders)-idx > e.maxOrders {
		order := orders[idx]
		deleted, failed := e.deleteImages(ctx, &order)

		if err := e.orders.Delete(ctx, order.ID); err != nil {
			// another pass already removed this record
			if !errors.Is(err, pgx.ErrNoRows) {
				return util.NewRepositoryError(err)
			}
		}

		e.publishPurged(ctx, &order, deleted, failed)
		idx++
	}

	if idx > 0 {
		e.metrics.RecordPurgedOrders(idx)
		e.logger.Info("retention pass purged orders",
			zap.Int("purged", idx),
			zap.Int("remaining", len(orders)-idx),
		)
	}
	return nil
}

// deleteImages issues one delete per non-empty image reference on the order.
func (e *RetentionEnforcer) deleteImages(ctx context.Context, order *domain.Order) (deleted, failed int) {
	for _, url := range order.ImageURLs() {
		if err := e.store.Delete(ctx, url); err != nil {
			failed++
			e.logger.Warn("blob delete failed during retention pass",
				zap.String("order_id", order.ID),
				zap.String("url", url),
				zap.Error(err),
			)
			continue
		}
		deleted++
	}
	return deleted, failed
}

func (e *RetentionEnforcer) publishPurged(ctx context.Context, order *domain.Order, deleted, failed int) {
	if e.dispatcher == nil {
		return
	}
	_ = e.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOrderPurged,
		Timestamp: time.Now(),
		Payload: events.OrderPurgedPayload{
			OrderID:      order.ID,
			DateOfOrder:  order.DateOfOrder,
			DeletedBlobs: deleted,
			FailedBlobs:  failed,
		},
	})
}
