// Package objectstore abstracts durable blob storage for ingested photos.
package objectstore

import (
	"context"
	"io"
)

// Store is the narrow object-store contract consumed by the ingestion
// pipeline: put-by-buffer with metadata, and get for downstream readers.
// No deletion is required here.
type Store interface {
	// Put stores data under key and returns the backend's ETag.
	// Metadata values must already be safe for HTTP header transport
	// (callers URL-encode anything that may contain non-ASCII bytes).
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) (string, error)

	// Get returns a reader over the object stored at key. The caller owns
	// closing the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
