package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/thuanhighclean/cleaning-service/internal/domain"
	"github.com/thuanhighclean/cleaning-service/internal/events"
	"github.com/thuanhighclean/cleaning-service/internal/repository"
	"github.com/thuanhighclean/cleaning-service/pkg/util"
)

// MessageCreateInput describes a contact message payload.
type MessageCreateInput struct {
	NameOfCustomer string
	Phone          string
	Body           string
	Service        string
}

// MessageService coordinates contact message workflows.
type MessageService struct {
	messages   repository.MessageRepository
	dispatcher events.Dispatcher
}

// NewMessageService constructs the service.
func NewMessageService(messages repository.MessageRepository, dispatcher events.Dispatcher) *MessageService {
	return &MessageService{messages: messages, dispatcher: dispatcher}
}

// CreateMessage stores a new contact message.
func (s *MessageService) CreateMessage(ctx context.Context, input MessageCreateInput) (*domain.Message, error) {
	message := &domain.Message{
		NameOfCustomer: input.NameOfCustomer,
		Phone:          input.Phone,
		Body:           input.Body,
		Service:        input.Service,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, util.NewRepositoryError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventMessageReceived,
			Timestamp: time.Now(),
			Payload: events.MessageReceivedPayload{
				MessageID: message.ID,
				Service:   message.Service,
			},
		})
	}
	return message, nil
}

// ListMessages returns all messages, oldest first.
func (s *MessageService) ListMessages(ctx context.Context) ([]domain.Message, error) {
	messages, err := s.messages.ListByCreated(ctx)
	if err != nil {
		return nil, util.NewRepositoryError(err)
	}
	return messages, nil
}

// DeleteMessage removes a message by id.
func (s *MessageService) DeleteMessage(ctx context.Context, id string) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("message", map[string]any{"id": id})
		}
		return util.NewRepositoryError(err)
	}
	return nil
}
