package service

import (
	"context"
	"time"

	"github.com/thuanhighclean/cleaning-service/internal/auth"
	"github.com/thuanhighclean/cleaning-service/internal/config"
	"github.com/thuanhighclean/cleaning-service/internal/domain"
	"github.com/thuanhighclean/cleaning-service/pkg/util"
)

// AuthService handles the single admin login flow. Credentials live in
// configuration; nothing is persisted server-side.
type AuthService struct {
	tokenMgr          *auth.TokenManager
	adminUsername     string
	adminPasswordHash string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		tokenMgr:          auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		adminUsername:     cfg.AdminUsername,
		adminPasswordHash: cfg.AdminPasswordHash,
	}
}

// Login verifies the admin credentials and issues a role-bearing token.
// Any mismatch yields InvalidCredentials, never a token.
func (s *AuthService) Login(_ context.Context, username, password string) (string, time.Time, error) {
	if err := auth.ComparePassword(s.adminPasswordHash, password); err != nil {
		return "", time.Time{}, util.NewInvalidCredentials()
	}
	if username != s.adminUsername {
		return "", time.Time{}, util.NewInvalidCredentials()
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(username, domain.RoleAdmin)
	if err != nil {
		return "", time.Time{}, util.NewInternalError(err)
	}
	return token, expiresAt, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
