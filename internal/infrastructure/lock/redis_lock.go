package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inventory/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLockManager implements LockManager on a shared Redis client using
// SET NX EX. A lock is one volatile key; the TTL guarantees a crashed
// holder cannot wedge the key forever.
type RedisLockManager struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisLockManager creates a new RedisLockManager
func NewRedisLockManager(client *redis.Client, logger *zap.Logger) *RedisLockManager {
	return &RedisLockManager{
		client: client,
		logger: logger,
	}
}

// Acquire makes a single SET NX EX attempt. The stored value is a random
// holder token, useful when debugging contention.
func (m *RedisLockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	acquired, err := m.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("lock acquire %s: %w", key, err)
	}
	if !acquired {
		m.logger.Debug("lock already held", zap.String("key", key))
		return "", false, nil
	}
	return token, true, nil
}

// Release deletes the lock key. Deleting an absent key is a no-op, which
// makes release idempotent and safe after TTL expiry.
func (m *RedisLockManager) Release(ctx context.Context, key string) error {
	if err := m.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("lock release %s: %w", key, err)
	}
	return nil
}

var _ shared.LockManager = (*RedisLockManager)(nil)
