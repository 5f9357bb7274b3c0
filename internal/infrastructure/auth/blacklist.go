package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist remembers revoked token ids until the tokens would have expired
type Blacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryBlacklist is a Blacklist for a single mock server process
type MemoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryBlacklist creates an empty in-memory blacklist
func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{revoked: make(map[string]time.Time), now: time.Now}
}

func (b *MemoryBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = b.now().Add(ttl)
	return nil
}

// IsRevoked also drops the entry once it has expired
func (b *MemoryBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	until, ok := b.revoked[jti]
	if !ok {
		return false, nil
	}
	if b.now().After(until) {
		delete(b.revoked, jti)
		return false, nil
	}
	return true, nil
}

// RedisBlacklist shares revocations between mock server instances
type RedisBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisBlacklist wraps an existing client
func NewRedisBlacklist(client *redis.Client, keyPrefix string) *RedisBlacklist {
	if keyPrefix == "" {
		keyPrefix = "erp:token:revoked:"
	}
	return &RedisBlacklist{client: client, keyPrefix: keyPrefix}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

var (
	_ Blacklist = (*MemoryBlacklist)(nil)
	_ Blacklist = (*RedisBlacklist)(nil)
)
