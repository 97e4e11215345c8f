// Package cache stores computed report payloads keyed by report and range.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented TTL cache. A miss is reported as (nil, false, nil);
// errors are reserved for backend failures.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Close() error
}
