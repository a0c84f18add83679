package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/thuanhighclean/cleaning-service/internal/domain"
	"github.com/thuanhighclean/cleaning-service/internal/repository"
	"github.com/thuanhighclean/cleaning-service/internal/storage"
	"github.com/thuanhighclean/cleaning-service/pkg/util"
)

type fakeOrderRepo struct {
	mu      sync.Mutex
	orders  []domain.Order
	nextID  int
	listErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	order.ID = fmt.Sprintf("order-%d", f.nextID)
	order.CreatedAt = time.Now()
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrderRepo) ListByDate(_ context.Context, direction repository.SortDirection) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]domain.Order, len(f.orders))
	copy(result, f.orders)
	sort.Slice(result, func(i, j int) bool {
		if direction == repository.SortDescending {
			return result[i].DateOfOrder.After(result[j].DateOfOrder)
		}
		return result[i].DateOfOrder.Before(result[j].DateOfOrder)
	})
	return result, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == id {
			order := f.orders[i]
			return &order, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeOrderRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeOrderRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeOrderRepo) seed(order domain.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if order.ID == "" {
		order.ID = fmt.Sprintf("order-%d", f.nextID)
	}
	f.orders = append(f.orders, order)
}

type fakeStore struct {
	mu          sync.Mutex
	nextKey     int
	uploads     []string
	deletes     []string
	failAfter   int // fail every upload once this many succeeded; <0 disables
	failDeletes map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{failAfter: -1, failDeletes: map[string]bool{}}
}

func (f *fakeStore) Upload(_ context.Context, _ storage.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter >= 0 && len(f.uploads) >= f.failAfter {
		return "", util.NewStoreUnavailable(fmt.Errorf("store down"))
	}
	f.nextKey++
	url := fmt.Sprintf("https://bucket.s3.region.amazonaws.com/blob-%d", f.nextKey)
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeStore) UploadMany(ctx context.Context, files []storage.File) []storage.UploadResult {
	results := make([]storage.UploadResult, len(files))
	for i, file := range files {
		url, err := f.Upload(ctx, file)
		results[i] = storage.UploadResult{URL: url, Err: err}
	}
	return results
}

func (f *fakeStore) Delete(_ context.Context, publicURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, publicURL)
	if f.failDeletes[publicURL] {
		return util.NewDeleteFailed(publicURL, fmt.Errorf("store down"))
	}
	return nil
}

func (f *fakeStore) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deletes)
}
