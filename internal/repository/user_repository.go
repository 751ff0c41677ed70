package repository

import (
	"context"
	"errors"

	"docportal/internal/model"
)

// ErrNoSnapshot is returned by Load when no user data has been persisted yet.
var ErrNoSnapshot = errors.New("no user snapshot")

// UserRepository persists the whole user collection as a single snapshot.
// Save replaces everything previously stored; there are no partial writes.
type UserRepository interface {
	Load(ctx context.Context) ([]model.User, error)
	Save(ctx context.Context, users []model.User) error
}
