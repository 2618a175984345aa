package shared

import (
	"context"
	"time"
)

// LockManager provides non-blocking, TTL-bound mutual exclusion across
// service instances. Acquire makes a single attempt; callers decide whether
// to fail or retry at a higher level.
type LockManager interface {
	// Acquire tries to take the lock identified by key for at most ttl.
	// Returns an opaque holder token and true on success, false when the
	// lock is already held. A non-nil error means the lock backend itself
	// failed and the caller must not proceed.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, acquired bool, err error)

	// Release frees the lock identified by key. Releasing a lock that is
	// not held (or whose TTL already elapsed) is a no-op.
	Release(ctx context.Context, key string) error
}
