// Package services holds the ingestion server's business logic: session
// authentication and the upload completion pipeline.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/photodrop/photodrop/internal/common"
	"github.com/photodrop/photodrop/internal/logging"
	"github.com/photodrop/photodrop/internal/server/models"
	"github.com/photodrop/photodrop/internal/server/repositories/albums"
)

// SessionService resolves FTP credentials to an album-scoped session.
type SessionService struct {
	albums   albums.Repository
	tempRoot string
	logger   logging.Logger
}

func NewSessionService(repo albums.Repository, tempRoot string, logger logging.Logger) *SessionService {
	return &SessionService{
		albums:   repo,
		tempRoot: tempRoot,
		logger:   logger.With("module", "sessions"),
	}
}

// Authenticate resolves username (album id or slug) and checks the upload
// token. On success it provisions the album's session root (idempotent) and
// returns an immutable session.
//
// Both lookup paths fail with ErrAlbumNotFound so the response never leaks
// which one was attempted.
func (s *SessionService) Authenticate(ctx context.Context, username, password string) (*models.Session, error) {
	var album *models.Album
	var err error

	if _, parseErr := uuid.Parse(username); parseErr == nil {
		album, err = s.albums.GetByID(ctx, username)
	} else {
		album, err = s.albums.GetBySlug(ctx, username)
	}

	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("album lookup: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(album.UploadToken), []byte(password)) != 1 {
		return nil, common.ErrInvalidCredential
	}

	root := filepath.Join(s.tempRoot, album.ID)
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("session root %s: %w", root, err)
	}

	s.logger.Info(ctx, "session authenticated", "album_id", album.ID)

	return &models.Session{AlbumID: album.ID, Root: root}, nil
}
