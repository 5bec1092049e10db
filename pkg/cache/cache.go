// Package cache stores JSON-encoded responses in a kvstore with a TTL.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ikkim/animeroast-backend/pkg/kvstore"
	"github.com/ikkim/animeroast-backend/pkg/logger"
)

const keyPrefix = "cache:"

type Cache interface {
	// Get decodes the entry for key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Put(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type responseCache struct {
	store kvstore.Store
}

func New(store kvstore.Store) Cache {
	return &responseCache{store: store}
}

func (c *responseCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok, err := c.store.Get(ctx, keyPrefix+key)
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// A corrupt entry is treated as a miss and overwritten by the next Put.
		logger.Warn("Discarding undecodable cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false, nil
	}
	return true, nil
}

func (c *responseCache) Put(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, keyPrefix+key, string(raw), ttl); err != nil {
		return fmt.Errorf("cache put %s: %w", key, err)
	}
	return nil
}
