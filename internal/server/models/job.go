package models

// ProcessingJob is a queue entry handed to the image-processing workers.
// PhotoID doubles as the deduplication key: enqueueing the same photo twice
// collapses into a single pending job.
type ProcessingJob struct {
	PhotoID    string
	AlbumID    string
	StorageKey string
}
