// Package common defines shared constants and sentinel errors used across
// the ingestion server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Authentication errors. Both map to the same generic protocol reply so
	// the client cannot tell which lookup path was attempted.
	ErrAlbumNotFound     = errors.New("album not found")
	ErrInvalidCredential = errors.New("invalid credential")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")
)
