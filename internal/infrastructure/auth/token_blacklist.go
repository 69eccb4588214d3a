package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist holds access token IDs revoked by logout. Entries only need
// to outlive the token they revoke.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "storefront:revoked-jti:"

// RedisTokenBlacklist shares revocations across instances. Keys expire
// with the token.
type RedisTokenBlacklist struct {
	client redis.Cmdable
}

func NewRedisTokenBlacklist(client redis.Cmdable) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token %s: %w", jti, err)
	}
	return n == 1, nil
}

// InMemoryTokenBlacklist is the single-instance fallback when Redis is not
// configured. Expired entries are pruned on every sweepEvery-th Revoke.
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	until   map[string]time.Time
	revokes int
	now     func() time.Time
}

const sweepEvery = 128

func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{until: make(map[string]time.Time), now: time.Now}
}

func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.until[jti] = now.Add(ttl)
	b.revokes++
	if b.revokes%sweepEvery == 0 {
		for id, exp := range b.until {
			if !now.Before(exp) {
				delete(b.until, id)
			}
		}
	}
	return nil
}

func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.until[jti]
	if !ok {
		return false, nil
	}
	if !b.now().Before(exp) {
		delete(b.until, jti)
		return false, nil
	}
	return true, nil
}

// Len counts tracked entries, including expired ones not yet pruned
func (b *InMemoryTokenBlacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.until)
}

var (
	_ TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
)
