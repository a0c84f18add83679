package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/thuanhighclean/cleaning-service/internal/api/dto"
	"github.com/thuanhighclean/cleaning-service/internal/service"
	apperrors "github.com/thuanhighclean/cleaning-service/pkg/util"
)

var validate = validator.New()

// MessagesHandler exposes the contact message endpoints.
type MessagesHandler struct {
	messages *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messageService}
}

// Create handles POST /api/message.
func (h *MessagesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.NewValidationError("nameOfCustomer, phone, message, service required", nil)
	}

	message, err := h.messages.CreateMessage(c.Context(), service.MessageCreateInput{
		NameOfCustomer: req.NameOfCustomer,
		Phone:          req.Phone,
		Body:           req.Message,
		Service:        req.Service,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewMessageResponse(message),
	})
}

// List handles GET /api/message.
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	messages, err := h.messages.ListMessages(c.Context())
	if err != nil {
		return err
	}

	response := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		response = append(response, dto.NewMessageResponse(&messages[i]))
	}
	return c.JSON(fiber.Map{"data": response})
}

// Delete handles DELETE /api/message/:id.
func (h *MessagesHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.messages.DeleteMessage(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "deleted": true}})
}
