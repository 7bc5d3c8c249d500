package albums

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/photodrop/photodrop/internal/common"
	"github.com/photodrop/photodrop/internal/dbx"
	"github.com/photodrop/photodrop/internal/server/models"
)

// PostgresRepository implements album lookups over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the album with the given primary key, or
// common.ErrorNotFound when no row exists.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Album, error) {
	query := `SELECT id, COALESCE(slug, ''), upload_token, is_public FROM albums WHERE id=$1`
	return r.getOne(ctx, query, id)
}

// GetBySlug returns the album with the given short code, or
// common.ErrorNotFound when no row exists.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Album, error) {
	query := `SELECT id, COALESCE(slug, ''), upload_token, is_public FROM albums WHERE slug=$1`
	return r.getOne(ctx, query, slug)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Album, error) {
	result := &models.Album{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&result.ID, &result.Slug, &result.UploadToken, &result.IsPublic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select album: %w", err)
	}
	return result, nil
}
