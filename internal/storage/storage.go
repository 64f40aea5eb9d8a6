package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultPresignedURLExpiry applies when the caller passes no expiry.
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrDisabled is returned by every operation when object storage is not
// configured.
var ErrDisabled = errors.New("object storage is disabled")

// FileStorage defines the object storage operations used for exercise media.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// Disabled is the FileStorage used when s3.enabled is false.
type Disabled struct{}

func (Disabled) GeneratePresignedUploadURL(context.Context, string, string, time.Duration) (string, error) {
	return "", ErrDisabled
}

func (Disabled) GeneratePresignedDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrDisabled
}

func (Disabled) DeleteObject(context.Context, string) error {
	return ErrDisabled
}
