// Package models defines server-side data models persisted in the database.
package models

// Album is an upload namespace owned by a customer. Albums are created and
// managed by the admin subsystem; the ingestion server only reads them.
type Album struct {
	// ID is the album's primary key (UUID). Field devices may use it
	// directly as the FTP username.
	ID string
	// Slug is an optional human-readable short code, usable as an alternate
	// FTP username. Empty when unset.
	Slug string
	// UploadToken is the shared secret presented as the FTP password.
	UploadToken string
	// IsPublic controls gallery visibility; carried for completeness, not
	// consulted during ingestion.
	IsPublic bool
}
