package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const retentionLockKey = "cleaning:retention:lock"

// RetentionLock serializes retention passes via a Redis SET NX lease.
type RetentionLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRetentionLock builds a lock with the given lease TTL.
func NewRetentionLock(r *Redis, ttlSeconds int) *RetentionLock {
	if ttlSeconds <= 0 {
		ttlSeconds = 30
	}
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &RetentionLock{client: client, ttl: time.Duration(ttlSeconds) * time.Second}
}

// TryLock attempts to take the lease. When Redis is unreachable the lock is
// granted: serialization here is best-effort and passes are idempotent.
func (l *RetentionLock) TryLock(ctx context.Context) (func(), bool) {
	if l.client == nil {
		return func() {}, true
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, retentionLockKey, token, l.ttl).Result()
	if err != nil {
		return func() {}, true
	}
	if !ok {
		return func() {}, false
	}

	release := func() {
		// release only if the lease is still ours; an expired lease may
		// have been re-acquired by another pass
		val, err := l.client.Get(context.Background(), retentionLockKey).Result()
		if err == nil && val == token {
			l.client.Del(context.Background(), retentionLockKey)
		}
	}
	return release, true
}
