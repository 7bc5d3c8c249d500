package models

// Session binds one authenticated FTP connection to a confined filesystem
// root. It is immutable after creation and never persisted.
type Session struct {
	// AlbumID is the authenticated album.
	AlbumID string
	// Root is the absolute album-scoped directory all file operations are
	// confined to for the lifetime of the connection.
	Root string
}
