package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/thuanhighclean/cleaning-service/internal/api/dto"
	"github.com/thuanhighclean/cleaning-service/internal/service"
	apperrors "github.com/thuanhighclean/cleaning-service/pkg/util"
)

// AdminHandler exposes the admin login and token check endpoints.
type AdminHandler struct {
	auth *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{auth: authService}
}

// Login handles POST /admin/login. A failed login answers with a plain
// message body, never a token.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, expiresAt, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "INVALID_CREDENTIALS" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
		}
		return err
	}

	return c.JSON(dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Ping handles GET /, a token-gated liveness check.
func (h *AdminHandler) Ping(c *fiber.Ctx) error {
	return c.SendString("ok")
}
