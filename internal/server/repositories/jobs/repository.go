package jobs

import (
	"context"

	"github.com/photodrop/photodrop/internal/server/models"
)

// Repository is the processing-job queue consumed by the completion handler.
// Enqueue must be idempotent per photo id.
type Repository interface {
	Enqueue(ctx context.Context, job *models.ProcessingJob) error
	SelectPending(ctx context.Context, limit int) ([]*models.ProcessingJob, error)
}
