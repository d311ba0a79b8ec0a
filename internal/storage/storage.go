// Package storage holds uploaded attachment content. Metadata lives in the
// attachments table; the bytes live behind BlobStore.
package storage

import "io"

// BlobStore persists raw file content under a caller-chosen relative path.
type BlobStore interface {
	// Save writes the content and returns the stored path for the metadata
	// row.
	Save(path string, content io.Reader) (string, error)
	// Delete removes stored content. Deleting a missing path is not an
	// error.
	Delete(path string) error
	// Open reads stored content back. The caller closes the returned
	// reader.
	Open(path string) (io.ReadCloser, error)
}
