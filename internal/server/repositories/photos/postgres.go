package photos

import (
	"context"
	"fmt"

	"github.com/photodrop/photodrop/internal/dbx"
	"github.com/photodrop/photodrop/internal/server/models"
)

// PostgresRepository implements the photo catalog over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a photo row. Exactly one row must be affected; the unique
// constraint on storage_key backs the key-uniqueness invariant.
func (r *PostgresRepository) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, album_id, filename, storage_key, status, file_size, mime_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	res, err := r.db.ExecContext(ctx, query,
		photo.ID, photo.AlbumID, photo.Filename, photo.StorageKey, photo.Status, photo.FileSize, photo.MimeType)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}
