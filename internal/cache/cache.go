// Package cache provides the key/value cache layer used by the
// recommendation pipeline: a byte-level Store contract with per-entry TTL
// and a typed Namespace wrapper that keeps logical caches from colliding.
package cache

import (
	"context"
	"time"
)

// NoExpiry disables automatic expiry for an entry; the entry is removed
// only by an explicit Delete.
const NoExpiry time.Duration = 0

// Store is a minimal key/value store with per-entry TTL. A read of an
// expired entry is equivalent to a miss; writes always replace, never
// merge. Concurrent misses for the same key may cause duplicate upstream
// work but never corrupt state: writes are idempotent last-write-wins
// replacements of immutable values.
type Store interface {
	// Get returns the value for key, and whether the key was present and
	// unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key. A ttl <= 0 means no automatic expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix. Used for
	// per-user invalidation where filter-scoped variants share a key
	// prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
