package artistRepo

import (
	"context"
	"errors"

	"emviapp/models"
)

// ErrNotFound indicates the artist ID or email does not resolve.
var ErrNotFound = errors.New("artist not found")

// ArtistRepository persists artist profiles.
type ArtistRepository interface {
	Insert(ctx context.Context, artist *models.Artist) error
	GetByID(ctx context.Context, id string) (*models.Artist, error)
	GetByEmail(ctx context.Context, email string) (*models.Artist, error)
	Update(ctx context.Context, artist *models.Artist) error
	UpdateWorkingHours(ctx context.Context, artistID string, hours []models.WorkingHours) error
	UpdateServices(ctx context.Context, artistID string, services []models.Service) error
}
