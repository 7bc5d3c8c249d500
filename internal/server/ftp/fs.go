package ftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	ftpserver "github.com/fclairamb/ftpserverlib"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/photodrop/photodrop/internal/logging"
	"github.com/photodrop/photodrop/internal/server/models"
	"github.com/photodrop/photodrop/internal/server/services"
)

var (
	errPathEscapesRoot     = errors.New("path escapes session root")
	errResumeNotSupported  = errors.New("resumed transfers are not supported")
	errWriteFlagsForUpload = errors.New("uploads must be write-only")
)

// completionFunc receives one event per successfully completed file write.
type completionFunc func(up services.Upload)

// sessionFS confines one authenticated connection to its album-scoped root.
//
// Every write-mode open is redirected to a per-upload unique on-disk name so
// two sessions authenticated to the same album can never clobber each
// other's in-flight transfers. A per-session name map keeps metadata
// commands (SIZE, MDTM) working on the client-visible name after a STOR.
//
// The session value is immutable; no mutable per-connection state is shared
// with the completion path.
type sessionFS struct {
	afero.Fs
	session    models.Session
	onComplete completionFunc
	logger     logging.Logger

	mu    sync.Mutex
	names map[string]string // client path -> unique on-disk name
}

func newSessionFS(base afero.Fs, session models.Session, onComplete completionFunc, logger logging.Logger) *sessionFS {
	return &sessionFS{
		Fs:         base,
		session:    session,
		onComplete: onComplete,
		logger:     logger.With("album_id", session.AlbumID),
		names:      make(map[string]string),
	}
}

// securePath normalizes a client-supplied path and rejects anything that
// tries to resolve above the session root. Any ".." segment is hostile here:
// field devices upload into their own namespace and have no business
// navigating upward.
func securePath(name string) (string, error) {
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", errPathEscapesRoot
		}
	}
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return path.Clean(name), nil
}

// GetHandle intercepts data transfers. Write-mode opens become tracked
// uploads with unique temp names; reads pass through to the stored artifact.
func (s *sessionFS) GetHandle(name string, flags int, offset int64) (ftpserver.FileTransfer, error) {
	clientPath, err := securePath(name)
	if err != nil {
		return nil, err
	}

	if flags&(os.O_WRONLY|os.O_RDWR|os.O_APPEND) == 0 {
		f, err := s.Fs.OpenFile(s.resolve(clientPath), flags, 0o640)
		if err != nil {
			return nil, err
		}
		if offset > 0 {
			if _, err := f.Seek(offset, io.SeekStart); err != nil {
				_ = f.Close()
				return nil, err
			}
		}
		return f, nil
	}

	if flags&os.O_RDWR != 0 {
		return nil, errWriteFlagsForUpload
	}
	if offset > 0 || flags&os.O_APPEND != 0 {
		// Unique temp names make resume pointless: there is no prior
		// artifact to continue from.
		return nil, errResumeNotSupported
	}

	diskName := uniqueDiskName(clientPath)
	f, err := s.Fs.OpenFile(diskName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.names[clientPath] = diskName
	s.mu.Unlock()

	return &uploadFile{
		File:       f,
		fs:         s,
		clientPath: clientPath,
		diskName:   diskName,
	}, nil
}

// uniqueDiskName keeps the client's directory but prefixes the base name
// with a fresh UUID.
func uniqueDiskName(clientPath string) string {
	dir, base := path.Split(clientPath)
	return path.Join(dir, fmt.Sprintf("%s-%s", uuid.NewString(), base))
}

// resolve maps a client path to its on-disk name when an upload created one.
func (s *sessionFS) resolve(clientPath string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if disk, ok := s.names[clientPath]; ok {
		return disk
	}
	return clientPath
}

func (s *sessionFS) forget(clientPath string) {
	s.mu.Lock()
	delete(s.names, clientPath)
	s.mu.Unlock()
}

func (s *sessionFS) Open(name string) (afero.File, error) {
	clientPath, err := securePath(name)
	if err != nil {
		return nil, err
	}
	return s.Fs.Open(s.resolve(clientPath))
}

func (s *sessionFS) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	clientPath, err := securePath(name)
	if err != nil {
		return nil, err
	}
	return s.Fs.OpenFile(s.resolve(clientPath), flag, perm)
}

func (s *sessionFS) Stat(name string) (os.FileInfo, error) {
	clientPath, err := securePath(name)
	if err != nil {
		return nil, err
	}
	return s.Fs.Stat(s.resolve(clientPath))
}

func (s *sessionFS) Remove(name string) error {
	clientPath, err := securePath(name)
	if err != nil {
		return err
	}
	err = s.Fs.Remove(s.resolve(clientPath))
	if err == nil {
		s.forget(clientPath)
	}
	return err
}

func (s *sessionFS) Rename(oldname, newname string) error {
	oldPath, err := securePath(oldname)
	if err != nil {
		return err
	}
	newPath, err := securePath(newname)
	if err != nil {
		return err
	}
	err = s.Fs.Rename(s.resolve(oldPath), newPath)
	if err == nil {
		// The artifact now lives at the literal new name; stale mappings
		// for either client name would resolve to nonexistent files.
		s.forget(oldPath)
		s.forget(newPath)
	}
	return err
}

// tempPath converts a virtual on-disk name to the absolute filesystem path
// handed to the completion pipeline.
func (s *sessionFS) tempPath(diskName string) string {
	return filepath.Join(s.session.Root, filepath.FromSlash(strings.TrimPrefix(diskName, "/")))
}

// uploadFile is the write handle for one in-flight transfer. A successful
// Close fires exactly one completion event; an aborted or failed transfer
// fires none and removes its partial artifact.
type uploadFile struct {
	afero.File
	fs         *sessionFS
	clientPath string
	diskName   string
	aborted    bool
	completed  bool
}

// TransferError is invoked by the protocol layer when a data transfer fails
// or the control connection drops mid-transfer.
func (f *uploadFile) TransferError(err error) {
	f.aborted = true
	f.fs.logger.Warn(context.Background(), "transfer aborted", "path", f.clientPath, "error", err.Error())
}

func (f *uploadFile) Close() error {
	err := f.File.Close()

	if f.aborted || err != nil {
		// Partial artifact: never signal completion.
		_ = f.fs.Fs.Remove(f.diskName)
		f.fs.forget(f.clientPath)
		return err
	}

	if f.completed {
		return nil
	}
	f.completed = true

	f.fs.onComplete(services.Upload{
		AlbumID:  f.fs.session.AlbumID,
		TempPath: f.fs.tempPath(f.diskName),
		Filename: strings.TrimPrefix(f.clientPath, "/"),
	})
	return nil
}
