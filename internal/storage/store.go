package storage

import "context"

// File is a binary blob pending upload.
type File struct {
	Data        []byte
	ContentType string
}

// UploadResult tags each uploaded file with its public URL or the upload error.
type UploadResult struct {
	URL string
	Err error
}

// Store abstracts the object store holding order images.
type Store interface {
	// Upload stores a blob under a fresh key and returns its public URL.
	Upload(ctx context.Context, file File) (string, error)
	// UploadMany uploads sequentially, preserving input order. A failed
	// upload does not abort the remaining ones; each slot carries its own
	// result.
	UploadMany(ctx context.Context, files []File) []UploadResult
	// Delete removes the blob addressed by a public URL.
	Delete(ctx context.Context, publicURL string) error
}
