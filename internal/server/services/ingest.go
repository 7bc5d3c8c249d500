package services

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/photodrop/photodrop/internal/logging"
	"github.com/photodrop/photodrop/internal/server/models"
	"github.com/photodrop/photodrop/internal/server/objectstore"
	"github.com/photodrop/photodrop/internal/server/repositories/jobs"
	"github.com/photodrop/photodrop/internal/server/repositories/photos"
)

const (
	// defaultExtension is applied when the client filename has none.
	defaultExtension = ".jpg"
	// fallbackMimeType is recorded when the extension maps to nothing.
	fallbackMimeType = "image/jpeg"

	// quarantineDir, under the temp root, receives artifacts whose handoff
	// failed so an operator can replay them. See DESIGN.md.
	quarantineDir = "quarantine"

	// filenameMetadataKey carries the URL-encoded original filename on the
	// stored object.
	filenameMetadataKey = "filename"
)

// newPhotoID generates photo identifiers; a variable so tests can pin it.
var newPhotoID = uuid.NewString

// Upload describes one completed file transfer handed to the ingest
// pipeline: the authenticated album, the unique on-disk temp artifact, and
// the name the client gave the file.
type Upload struct {
	AlbumID  string
	TempPath string
	Filename string
}

// IngestService performs the four-step handoff for every completed upload:
// object-store put, catalog insert, job enqueue, temp cleanup.
type IngestService struct {
	store    objectstore.Store
	photos   photos.Repository
	jobs     jobs.Repository
	tempRoot string
	logger   logging.Logger
}

func NewIngestService(store objectstore.Store, photoRepo photos.Repository, jobRepo jobs.Repository, tempRoot string, logger logging.Logger) *IngestService {
	return &IngestService{
		store:    store,
		photos:   photoRepo,
		jobs:     jobRepo,
		tempRoot: tempRoot,
		logger:   logger.With("module", "ingest"),
	}
}

// CompleteUpload runs the handoff for one uploaded file. On success the temp
// artifact is removed; on failure it is quarantined and the error returned.
// Errors never reach the protocol client: the transfer was already
// acknowledged when this runs.
func (s *IngestService) CompleteUpload(ctx context.Context, up Upload) (*models.Photo, error) {
	photo, step, err := s.handoff(ctx, up)
	if err != nil {
		s.logger.Error(ctx, "upload handoff failed",
			"album_id", up.AlbumID, "filename", up.Filename, "step", step, "error", err.Error())
		s.quarantine(ctx, up)
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	if err := os.Remove(up.TempPath); err != nil {
		// The photo is fully ingested at this point; a leftover temp file
		// is an operator concern, not a pipeline failure.
		s.logger.Warn(ctx, "failed to remove temp file",
			"album_id", up.AlbumID, "path", up.TempPath, "error", err.Error())
	}

	s.logger.Info(ctx, "photo ingested",
		"album_id", up.AlbumID, "photo_id", photo.ID, "storage_key", photo.StorageKey, "size", photo.FileSize)

	return photo, nil
}

func (s *IngestService) handoff(ctx context.Context, up Upload) (*models.Photo, string, error) {
	data, err := os.ReadFile(up.TempPath)
	if err != nil {
		return nil, "read", err
	}

	photoID := newPhotoID()
	ext := extensionOf(up.Filename)
	key := storageKey(up.AlbumID, photoID, ext)
	mimeType := mimeTypeOf(ext)

	metadata := map[string]string{
		filenameMetadataKey: url.QueryEscape(up.Filename),
	}
	if _, err := s.store.Put(ctx, key, data, mimeType, metadata); err != nil {
		return nil, "store", err
	}

	photo := &models.Photo{
		ID:         photoID,
		AlbumID:    up.AlbumID,
		Filename:   up.Filename,
		StorageKey: key,
		Status:     models.PhotoStatusPending,
		FileSize:   int64(len(data)),
		MimeType:   mimeType,
	}
	// Terminal on failure: a photo missing from the catalog must never be
	// handed to the processing queue.
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, "catalog", err
	}

	job := &models.ProcessingJob{
		PhotoID:    photo.ID,
		AlbumID:    photo.AlbumID,
		StorageKey: photo.StorageKey,
	}
	if err := s.jobs.Enqueue(ctx, job); err != nil {
		return nil, "enqueue", err
	}

	return photo, "", nil
}

// quarantine moves a failed upload's artifact under
// {tempRoot}/quarantine/{albumID}/ so it can be replayed by an operator.
func (s *IngestService) quarantine(ctx context.Context, up Upload) {
	dir := filepath.Join(s.tempRoot, quarantineDir, up.AlbumID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		s.logger.Error(ctx, "failed to create quarantine dir", "dir", dir, "error", err.Error())
		return
	}
	dest := filepath.Join(dir, filepath.Base(up.TempPath))
	if err := os.Rename(up.TempPath, dest); err != nil {
		s.logger.Error(ctx, "failed to quarantine temp file",
			"album_id", up.AlbumID, "path", up.TempPath, "error", err.Error())
		return
	}
	s.logger.Warn(ctx, "upload quarantined",
		"album_id", up.AlbumID, "filename", up.Filename, "path", dest)
}

// storageKey derives the deterministic object-store key for a photo.
func storageKey(albumID, photoID, ext string) string {
	return fmt.Sprintf("raw/%s/%s%s", albumID, photoID, ext)
}

// extensionOf returns the lower-cased extension of the client filename,
// falling back to defaultExtension when there is none.
func extensionOf(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return defaultExtension
	}
	return ext
}

// mimeTypeOf infers a content type from the extension. Extension-based
// inference replaces the legacy fixed default (DESIGN.md).
func mimeTypeOf(ext string) string {
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return fallbackMimeType
}
