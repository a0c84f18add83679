package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thuanhighclean/cleaning-service/internal/domain"
)

// SortDirection selects ordering for listing queries.
type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	ListByDate(ctx context.Context, direction SortDirection) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (name_of_customer, phone, address, service, main_before_url, main_after_url, before_urls, after_urls, date_of_order)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		order.NameOfCustomer,
		order.Phone,
		order.Address,
		order.Service,
		order.MainBeforeURL,
		order.MainAfterURL,
		order.BeforeURLs,
		order.AfterURLs,
		order.DateOfOrder,
	).Scan(&order.ID, &order.CreatedAt)
}

func (r *orderRepository) ListByDate(ctx context.Context, direction SortDirection) ([]domain.Order, error) {
	query := `
        SELECT id, name_of_customer, phone, address, service, main_before_url, main_after_url, before_urls, after_urls, date_of_order, created_at
        FROM orders ORDER BY date_of_order ASC`
	if direction == SortDescending {
		query = `
        SELECT id, name_of_customer, phone, address, service, main_before_url, main_after_url, before_urls, after_urls, date_of_order, created_at
        FROM orders ORDER BY date_of_order DESC`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
        SELECT id, name_of_customer, phone, address, service, main_before_url, main_after_url, before_urls, after_urls, date_of_order, created_at
        FROM orders WHERE id=$1`
	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.NameOfCustomer,
		&order.Phone,
		&order.Address,
		&order.Service,
		&order.MainBeforeURL,
		&order.MainAfterURL,
		&order.BeforeURLs,
		&order.AfterURLs,
		&order.DateOfOrder,
		&order.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM orders WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.NameOfCustomer,
			&order.Phone,
			&order.Address,
			&order.Service,
			&order.MainBeforeURL,
			&order.MainAfterURL,
			&order.BeforeURLs,
			&order.AfterURLs,
			&order.DateOfOrder,
			&order.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
