package repository

import "context"

// CacheRepository is a read-through cache over aggregation results.
type CacheRepository interface {
	// Get unmarshals the cached value into dest, or returns an error on
	// miss.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores the value with a TTL in seconds.
	Set(ctx context.Context, key string, value interface{}, ttlSeconds int) error

	// Delete removes one or more keys.
	Delete(ctx context.Context, keys ...string) error
}
