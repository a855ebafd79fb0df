package storage

import (
	"context"
	"io"
	"time"

	videoapp "github.com/contentgen/backend/internal/application/video"
)

// DisabledObjectStorage stands in when no bucket is configured. Uploads and
// deletes are no-ops; Presign reports that the mirror is unavailable.
type DisabledObjectStorage struct{}

var _ videoapp.ObjectStore = DisabledObjectStorage{}

// Upload drains nothing and succeeds
func (DisabledObjectStorage) Upload(context.Context, string, io.Reader, string) error {
	return nil
}

// Delete succeeds without doing anything
func (DisabledObjectStorage) Delete(context.Context, string) error {
	return nil
}

// Presign always fails with videoapp.ErrObjectStorageDisabled
func (DisabledObjectStorage) Presign(context.Context, string) (string, time.Time, error) {
	return "", time.Time{}, videoapp.ErrObjectStorageDisabled
}

// Enabled reports false
func (DisabledObjectStorage) Enabled() bool {
	return false
}

// Enabled reports true
func (s *S3ObjectStorage) Enabled() bool {
	return true
}
