package albums

import (
	"context"

	"github.com/photodrop/photodrop/internal/server/models"
)

// Repository is the read-only album lookup surface consumed by the session
// authenticator. Album writes belong to the admin subsystem.
type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Album, error)
	GetBySlug(ctx context.Context, slug string) (*models.Album, error)
}
