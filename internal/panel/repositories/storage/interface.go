// Package storage is the panel's durable key/value storage, the local
// equivalent of a browser's localStorage. Values are opaque bytes.
package storage

import "context"

// Repository reads and writes values by key.
type Repository interface {
	// Get returns the value stored under key, or (nil, nil) if there is none.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
