package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thuanhighclean/cleaning-service/internal/domain"
)

// MessageRepository encapsulates contact message persistence.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByCreated(ctx context.Context) ([]domain.Message, error)
	Delete(ctx context.Context, id string) error
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	const query = `
        INSERT INTO messages (name_of_customer, phone, body, service)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		message.NameOfCustomer,
		message.Phone,
		message.Body,
		message.Service,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *messageRepository) ListByCreated(ctx context.Context) ([]domain.Message, error) {
	const query = `
        SELECT id, name_of_customer, phone, body, service, created_at
        FROM messages ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var message domain.Message
		if err := rows.Scan(
			&message.ID,
			&message.NameOfCustomer,
			&message.Phone,
			&message.Body,
			&message.Service,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, message)
	}
	return result, rows.Err()
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM messages WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
