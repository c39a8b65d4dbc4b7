package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedKeyPrefix = "revoked_token:"

// RedisRevoker keeps revoked token ids in Redis until the token would have expired.
type RedisRevoker struct {
	client *redis.Client
	now    Clock
}

func NewRedisRevoker(client *redis.Client, now Clock) *RedisRevoker {
	return &RedisRevoker{client: client, now: now}
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.client.Get(ctx, revokedKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryRevoker is the process-local revocation list used when Redis is unavailable.
type MemoryRevoker struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     Clock
}

func NewMemoryRevoker(now Clock) *MemoryRevoker {
	return &MemoryRevoker{revoked: make(map[string]time.Time), now: now}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, expiry := range m.revoked {
		if now.After(expiry) {
			delete(m.revoked, id)
		}
	}
	if until.After(now) {
		m.revoked[tokenID] = until
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	expiry, ok := m.revoked[tokenID]
	return ok && m.now().Before(expiry), nil
}
