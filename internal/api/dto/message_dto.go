package dto

import (
	"time"

	"github.com/thuanhighclean/cleaning-service/internal/domain"
)

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	NameOfCustomer string `json:"nameOfCustomer" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Message        string `json:"message" validate:"required"`
	Service        string `json:"service" validate:"required"`
}

// MessageResponse response.
type MessageResponse struct {
	ID             string    `json:"id"`
	NameOfCustomer string    `json:"nameOfCustomer"`
	Phone          string    `json:"phone"`
	Message        string    `json:"message"`
	Service        string    `json:"service"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(message *domain.Message) MessageResponse {
	return MessageResponse{
		ID:             message.ID,
		NameOfCustomer: message.NameOfCustomer,
		Phone:          message.Phone,
		Message:        message.Body,
		Service:        message.Service,
		CreatedAt:      message.CreatedAt,
	}
}
