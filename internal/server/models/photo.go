package models

// PhotoStatusPending is the lifecycle status assigned at ingestion time.
// Later states ("processed", "failed") are owned by the processing workers.
const PhotoStatusPending = "pending"

// Photo describes one ingested image. Created by the completion handler;
// never mutated by the ingestion server after insert.
type Photo struct {
	// ID is generated server-side at ingestion (UUID), never client-supplied.
	ID string
	// AlbumID is the owning album.
	AlbumID string
	// Filename is the original client-supplied name, kept verbatim.
	Filename string
	// StorageKey is the object-store key: raw/{albumID}/{photoID}{ext}.
	StorageKey string
	// Status is the processing lifecycle state, "pending" on insert.
	Status string
	// FileSize is the payload size in bytes.
	FileSize int64
	// MimeType is inferred from the filename extension.
	MimeType string
}
