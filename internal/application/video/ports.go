package video

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/contentgen/backend/internal/domain/shared"
)

// ErrObjectStorageDisabled is returned when a presigned URL is requested
// without a configured bucket
var ErrObjectStorageDisabled = shared.NewDomainError(shared.CodeNotConfigured, "Object storage is not enabled")

// FileStore keeps rendered videos on local disk
type FileStore interface {
	Path(name string) string
	Exists(name string) bool
	Create(name string, write func(w io.Writer) error) (string, error)
	Open(name string) (*os.File, error)
	Remove(name string) error
}

// ObjectStore mirrors rendered videos to a bucket
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	Presign(ctx context.Context, key string) (string, time.Time, error)
	Enabled() bool
}
