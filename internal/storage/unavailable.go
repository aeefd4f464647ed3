package storage

import (
	"context"

	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/model"
)

// The users and visitors tables do not exist yet. These stores say so
// explicitly instead of pretending the tables are empty.

type unavailableUserStorage struct{}

func NewUnavailableUserStorage() UserStorage { return unavailableUserStorage{} }

func (unavailableUserStorage) ListUsers(context.Context) ([]model.User, error) {
	return nil, appErr.NewUnavailable("users")
}

func (unavailableUserStorage) GetUser(context.Context, string) (*model.User, error) {
	return nil, appErr.NewUnavailable("users")
}

type unavailableVisitorStorage struct{}

func NewUnavailableVisitorStorage() VisitorStorage { return unavailableVisitorStorage{} }

func (unavailableVisitorStorage) ListVisitors(context.Context) ([]model.Visitor, error) {
	return nil, appErr.NewUnavailable("visitors")
}
