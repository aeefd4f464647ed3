package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samims/ecowatt/internal/auth"
	appErr "github.com/samims/ecowatt/internal/errors"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*auth.Identity, string, error)
}

type authService struct {
	authenticator auth.Authenticator
	tokenSvc      auth.TokenService
	logger        *slog.Logger
}

func NewAuthService(authenticator auth.Authenticator, tokenSvc auth.TokenService, logger *slog.Logger) AuthService {
	l := logger.With("layer", "service", "component", "authService")
	return &authService{authenticator: authenticator, tokenSvc: tokenSvc, logger: l}
}

func (s *authService) Login(ctx context.Context, email, password string) (*auth.Identity, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.logger.Info("Login called", slog.String("email", email))

	if email == "" || password == "" {
		return nil, "", appErr.NewInvalidInput("email and password are required")
	}

	id, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login rejected", slog.String("email", email))
		return nil, "", appErr.ErrUnauthorized
	}

	token, err := s.tokenSvc.GenerateToken(id)
	if err != nil {
		s.logger.Error("Token generation failed", slog.String("email", email), slog.Any("error", err))
		return nil, "", appErr.NewInternal("token generation failed")
	}

	s.logger.Info("Token generated", slog.String("email", email), slog.String("role", string(id.Role)))
	return id, token, nil
}
