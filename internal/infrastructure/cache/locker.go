package cache

import (
	"context"
	"time"
)

// Locker hands out short-lived named locks. Scheduled jobs use it so that
// several server instances never process the same record twice.
type Locker interface {
	// Acquire takes key for ttl. It returns false when another holder owns it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees key if this locker still owns it
	Release(ctx context.Context, key string) error
}

const lockKeyPrefix = "contentgen:lock:"
