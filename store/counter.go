// Package store holds the shared counters behind request rate limiting.
package store

import (
	"context"
	"time"
)

// Counter counts events per key inside a fixed window. The window starts at
// the first Incr for a key.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
