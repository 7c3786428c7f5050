package blob

import "context"

// Storage stores and retrieves raw document bytes by key.
type Storage interface {
	// Put stores data under the given key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get retrieves the object stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object stored under key. Deleting a missing object
	// is not an error.
	Delete(ctx context.Context, key string) error
}
