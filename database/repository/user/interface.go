package userRepo

import (
	"context"
	"errors"

	"emviapp/models"
)

// ErrNotFound indicates the user ID or email does not resolve.
var ErrNotFound = errors.New("user not found")

// UserRepository persists client accounts.
type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
