package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Namespace is a typed view over a Store. Every logical cache (catalog
// vectors, user vectors, the three recommendation kinds) is a separate
// Namespace so that a Delete in one never collides with another. Values
// are encoded as JSON.
type Namespace[T any] struct {
	store      Store
	prefix     string
	defaultTTL time.Duration
}

// NewNamespace creates a namespace with the given key prefix and default
// TTL. A defaultTTL of NoExpiry means entries live until explicitly
// invalidated.
func NewNamespace[T any](store Store, prefix string, defaultTTL time.Duration) Namespace[T] {
	return Namespace[T]{store: store, prefix: prefix, defaultTTL: defaultTTL}
}

// Prefix returns the namespace key prefix.
func (n Namespace[T]) Prefix() string { return n.prefix }

// key builds the full store key for a namespace-relative key.
func (n Namespace[T]) key(key string) string {
	return n.prefix + ":" + key
}

// Get returns the decoded value for key and whether it was present.
func (n Namespace[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T

	raw, ok, err := n.store.Get(ctx, n.key(key))
	if err != nil || !ok {
		return zero, false, err
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		// A value that no longer decodes (e.g. after a schema change) is
		// treated as a miss and dropped.
		_ = n.store.Delete(ctx, n.key(key))
		return zero, false, nil
	}
	return value, true, nil
}

// Set stores value under key with the namespace default TTL.
func (n Namespace[T]) Set(ctx context.Context, key string, value T) error {
	return n.SetTTL(ctx, key, value, n.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL.
func (n Namespace[T]) SetTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %s: %w", n.key(key), err)
	}
	return n.store.Set(ctx, n.key(key), raw, ttl)
}

// Delete removes key from the namespace.
func (n Namespace[T]) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.key(key))
}

// DeletePrefix removes every namespace key starting with keyPrefix.
func (n Namespace[T]) DeletePrefix(ctx context.Context, keyPrefix string) error {
	return n.store.DeletePrefix(ctx, n.key(keyPrefix))
}
