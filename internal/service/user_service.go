package service

import (
	"context"
	"log/slog"

	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/internal/storage"
)

// UserService lists back-office users and site visitors. Both tables are
// not provisioned yet; the storages answer ErrUnavailable and the error is
// passed through untouched so callers can tell it from an empty list.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListVisitors(ctx context.Context) ([]model.Visitor, error)
}

type userService struct {
	users    storage.UserStorage
	visitors storage.VisitorStorage
	logger   *slog.Logger
}

func NewUserService(users storage.UserStorage, visitors storage.VisitorStorage, logger *slog.Logger) UserService {
	l := logger.With("layer", "service", "component", "userService")
	return &userService{users: users, visitors: visitors, logger: l}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Debug("ListUsers failed", slog.Any("error", err))
	}
	return users, err
}

func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetUser(ctx, id)
}

func (s *userService) ListVisitors(ctx context.Context) ([]model.Visitor, error) {
	visitors, err := s.visitors.ListVisitors(ctx)
	if err != nil {
		s.logger.Debug("ListVisitors failed", slog.Any("error", err))
	}
	return visitors, err
}
