package jobs

import (
	"context"
	"fmt"

	"github.com/photodrop/photodrop/internal/dbx"
	"github.com/photodrop/photodrop/internal/server/models"
)

// PostgresRepository implements the processing-job queue over a dbx.DBTX
// (*sql.DB or *sql.Tx). The photo_id primary key is the deduplication key:
// a second enqueue for the same photo is a no-op.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Enqueue inserts a job keyed by photo id. ON CONFLICT DO NOTHING collapses
// duplicate submissions, so zero rows affected is still success.
func (r *PostgresRepository) Enqueue(ctx context.Context, job *models.ProcessingJob) error {
	query := `
		INSERT INTO processing_jobs (photo_id, album_id, storage_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (photo_id) DO NOTHING;
	`
	res, err := r.db.ExecContext(ctx, query, job.PhotoID, job.AlbumID, job.StorageKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n > 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

// SelectPending returns up to limit queued jobs in enqueue order. Used by
// worker handoff and operator tooling.
func (r *PostgresRepository) SelectPending(ctx context.Context, limit int) ([]*models.ProcessingJob, error) {
	query := `
		SELECT photo_id, album_id, storage_key FROM processing_jobs
		WHERE status='queued'
		ORDER BY enqueued_at
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select jobs: %w", err)
	}
	defer rows.Close()

	var result []*models.ProcessingJob
	for rows.Next() {
		var item models.ProcessingJob
		if err := rows.Scan(&item.PhotoID, &item.AlbumID, &item.StorageKey); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
