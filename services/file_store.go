package services

import (
	"context"
	"io"
)

// StoredFile tells a caller where a stored attachment can be read from.
// Local stores fill Path; remote stores fill URL.
type StoredFile struct {
	Name string
	Path string
	URL  string
}

// FileStore persists message attachments under a flat namespace of names
type FileStore interface {
	// Save writes body under name
	Save(ctx context.Context, name string, body io.Reader, contentType string) error

	// Locate returns where name can be downloaded from, or ErrFileNotFound
	Locate(ctx context.Context, name string) (StoredFile, error)

	// Delete removes name; deleting a missing file is not an error
	Delete(ctx context.Context, name string) error
}
