package object

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrPresignUnsupported is returned by DownloadURL when the backing store
// cannot mint time-bounded URLs; callers should stream the object instead.
var ErrPresignUnsupported = errors.New("presigned urls not supported")

// Store defines the contract for saving and retrieving binary artifacts.
// Keys are caller-chosen namespaced paths such as
// "template-instances/<id>.pdf".
type Store interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
	DownloadURL(ctx context.Context, storageKey string, expires time.Duration) (string, error)
}
