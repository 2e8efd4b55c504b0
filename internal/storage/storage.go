package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrPresignUnsupported is returned by backends that cannot mint presigned
// upload URLs (the local filesystem backend).
var ErrPresignUnsupported = errors.New("presigned uploads not supported by this backend")

// UploadURL describes a presigned upload slot.
type UploadURL struct {
	UploadURL   string    `json:"upload_url"`
	Key         string    `json:"image_key"`
	FinalURL    string    `json:"final_image_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	ContentType string    `json:"content_type"`
}

// ObjectStorage stores image bytes and hands back public URLs. Deletion is
// addressed by URL so callers never deal in backend keys.
type ObjectStorage interface {
	EnsureReady(ctx context.Context) error
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (*UploadURL, error)
}
