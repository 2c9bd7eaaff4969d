package nutri

import (
	"context"
	"io"
	"time"
)

// ObjectStore provides the object storage used for meal photos.
// Objects are addressed by opaque keys such as "meals/<meal-id>/<uuid>.jpg".
type ObjectStore interface {
	// Put stores size bytes read from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get writes the object stored under key to w.
	// Returns an error wrapping ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string, w io.Writer) error

	// Delete removes the object stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// SignedURL returns a URL granting read access to key for ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// ValidateSetup verifies that the store is reachable and writable.
	ValidateSetup(ctx context.Context) error
}
