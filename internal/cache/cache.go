// Package cache implements the two-tier settings cache: a process-local
// map backed by an optional shared backend such as Redis. The local tier
// answers repeated reads within one process, the shared tier keeps
// several processes warm. Writes evict synchronously from both tiers.
package cache

import (
	"context"
	"time"
)

// Backend is the shared cache tier. Implementations must treat a missing
// key as (nil, false, nil), not as an error.
type Backend interface {
	// Get retrieves an item. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores an item with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes an item. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Flush clears all items.
	Flush(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}
