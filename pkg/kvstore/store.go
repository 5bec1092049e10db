// Package kvstore is the shared key/value store behind the response cache and
// the rate limiter.
package kvstore

import (
	"context"
	"time"
)

// Store is safe for concurrent use.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Incr atomically increments the counter at key and returns the new value.
	// ttl is applied when the increment creates the key.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Close() error
}
