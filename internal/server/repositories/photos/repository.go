package photos

import (
	"context"

	"github.com/photodrop/photodrop/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, photo *models.Photo) error
}
