package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/thuanhighclean/cleaning-service/internal/domain"
	"github.com/thuanhighclean/cleaning-service/internal/events"
	"github.com/thuanhighclean/cleaning-service/internal/repository"
	"github.com/thuanhighclean/cleaning-service/internal/storage"
	"github.com/thuanhighclean/cleaning-service/pkg/util"
)

// OrderCreateInput describes an order creation payload with raw image blobs.
type OrderCreateInput struct {
	NameOfCustomer string
	Phone          string
	Address        string
	Service        string
	DateOfOrder    time.Time
	MainBefore     storage.File
	MainAfter      storage.File
	BeforeImages   []storage.File
	AfterImages    []storage.File
}

// OrderService coordinates order workflows: image uploads, persistence,
// and the retention pass that follows every insertion.
type OrderService struct {
	orders     repository.OrderRepository
	store      storage.Store
	enforcer   *RetentionEnforcer
	dispatcher events.Dispatcher
	logger     *zap.Logger
	maxGallery int
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo  repository.OrderRepository
	Store      storage.Store
	Enforcer   *RetentionEnforcer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	MaxGallery int
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	maxGallery := deps.MaxGallery
	if maxGallery <= 0 {
		maxGallery = 3
	}
	return &OrderService{
		orders:     deps.OrderRepo,
		store:      deps.Store,
		enforcer:   deps.Enforcer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		maxGallery: maxGallery,
	}
}

// CreateOrder uploads all images, inserts the record, and runs the retention
// pass before returning. Any upload failure aborts the request; blobs already
// uploaded for it are discarded best-effort so no record ever references a
// missing or empty image.
func (s *OrderService) CreateOrder(ctx context.Context, input OrderCreateInput) (*domain.Order, error) {
	if len(input.MainBefore.Data) == 0 || len(input.MainAfter.Data) == 0 {
		return nil, util.NewValidationError("main before and after images are required", nil)
	}
	if len(input.BeforeImages) > s.maxGallery || len(input.AfterImages) > s.maxGallery {
		return nil, util.NewValidationError(
			fmt.Sprintf("at most %d before and %d after images allowed", s.maxGallery, s.maxGallery), nil)
	}

	var uploaded []string

	mainBeforeURL, err := s.store.Upload(ctx, input.MainBefore)
	if err != nil {
		return nil, err
	}
	uploaded = append(uploaded, mainBeforeURL)

	mainAfterURL, err := s.store.Upload(ctx, input.MainAfter)
	if err != nil {
		s.discardBlobs(ctx, uploaded)
		return nil, err
	}
	uploaded = append(uploaded, mainAfterURL)

	beforeURLs, err := s.uploadGallery(ctx, input.BeforeImages, &uploaded)
	if err != nil {
		s.discardBlobs(ctx, uploaded)
		return nil, err
	}
	afterURLs, err := s.uploadGallery(ctx, input.AfterImages, &uploaded)
	if err != nil {
		s.discardBlobs(ctx, uploaded)
		return nil, err
	}

	order := &domain.Order{
		NameOfCustomer: input.NameOfCustomer,
		Phone:          input.Phone,
		Address:        input.Address,
		Service:        input.Service,
		MainBeforeURL:  mainBeforeURL,
		MainAfterURL:   mainAfterURL,
		BeforeURLs:     beforeURLs,
		AfterURLs:      afterURLs,
		DateOfOrder:    input.DateOfOrder,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.discardBlobs(ctx, uploaded)
		return nil, util.NewRepositoryError(err)
	}

	s.publish(ctx, events.EventOrderCreated, events.OrderCreatedPayload{
		OrderID:     order.ID,
		Service:     order.Service,
		DateOfOrder: order.DateOfOrder,
		ImageCount:  len(order.ImageURLs()),
	})

	// The client's response waits for the retention pass. A failed pass is
	// logged, not surfaced: the order itself was created.
	if err := s.enforcer.Enforce(ctx); err != nil {
		s.logger.Error("retention pass failed after order creation",
			zap.String("order_id", order.ID), zap.Error(err))
	}

	return order, nil
}

// uploadGallery uploads an ordered image group sequentially. Each upload is
// independent; the first failure is returned after the whole group finished.
func (s *OrderService) uploadGallery(ctx context.Context, files []storage.File, uploaded *[]string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	results := s.store.UploadMany(ctx, files)
	urls := make([]string, 0, len(results))
	var firstErr error
	for _, result := range results {
		if result.Err != nil {
			if firstErr == nil {
				firstErr = result.Err
			}
			continue
		}
		urls = append(urls, result.URL)
		*uploaded = append(*uploaded, result.URL)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return urls, nil
}

// ListOrders returns all orders, newest order date first.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.ListByDate(ctx, repository.SortDescending)
	if err != nil {
		return nil, util.NewRepositoryError(err)
	}
	return orders, nil
}

// GetOrder fetches a single order by id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("order", map[string]any{"id": id})
		}
		return nil, util.NewRepositoryError(err)
	}
	return order, nil
}

// DeleteOrder removes an order and its images. Blob deletes are best-effort;
// failures are logged and the record is removed regardless.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("order", map[string]any{"id": id})
		}
		return util.NewRepositoryError(err)
	}

	deleted, failed := 0, 0
	for _, url := range order.ImageURLs() {
		if err := s.store.Delete(ctx, url); err != nil {
			failed++
			s.logger.Warn("blob delete failed",
				zap.String("order_id", order.ID),
				zap.String("url", url),
				zap.Error(err),
			)
			continue
		}
		deleted++
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("order", map[string]any{"id": id})
		}
		return util.NewRepositoryError(err)
	}

	s.publish(ctx, events.EventOrderDeleted, events.OrderDeletedPayload{
		OrderID:      id,
		DeletedBlobs: deleted,
		FailedBlobs:  failed,
	})
	return nil
}

// discardBlobs removes blobs uploaded for a request that is being aborted.
func (s *OrderService) discardBlobs(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.store.Delete(ctx, url); err != nil {
			s.logger.Warn("failed to discard uploaded blob", zap.String("url", url), zap.Error(err))
		}
	}
}

func (s *OrderService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
