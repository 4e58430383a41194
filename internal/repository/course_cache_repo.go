package repository

import (
	"context"
	"time"
)

// CourseCacheRepository stores the serialized aggregation result under a single key.
type CourseCacheRepository interface {
	// Get returns the cached payload or ErrCacheMiss.
	Get(ctx context.Context) ([]byte, error)
	// Set overwrites the cached payload with the given time-to-live.
	Set(ctx context.Context, payload []byte, ttl time.Duration) error
	// Delete invalidates the cached payload. Deleting a missing entry is not an error.
	Delete(ctx context.Context) error
	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}
