// Package cache defines a byte-oriented in-process cache port.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL key-value cache used to deduplicate repeated deliveries
// of the same inbound message.
type Cache interface {
	// Get retrieves a value. ok is false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases cache resources.
	Close()
}
