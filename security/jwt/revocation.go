package jwt

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks revoked token IDs until their natural expiry.
// Logout and refresh rotation revoke the presented token's jti; the auth
// middleware rejects any token whose jti is found here.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevocationStore keeps revoked token IDs in process memory.
// Suitable for single-instance deployments; entries are pruned lazily.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewMemoryRevocationStore creates an in-memory revocation store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{revoked: make(map[string]time.Time)}
}

// Revoke marks a token ID revoked until the given time.
func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.revoked[jti] = until
	return nil
}

// IsRevoked reports whether a token ID is currently revoked.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	until, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	return time.Now().Before(until), nil
}

// prune drops expired entries. Callers must hold the write lock.
func (s *MemoryRevocationStore) prune() {
	now := time.Now()
	for jti, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, jti)
		}
	}
}

// RedisRevocationStore keeps revoked token IDs in Redis so revocation is
// shared across instances. Keys expire with the token.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore creates a Redis-backed revocation store.
func NewRedisRevocationStore(addr string) *RedisRevocationStore {
	return &RedisRevocationStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

const revocationKeyPrefix = "auth:revoked:"

// Revoke marks a token ID revoked until the given time.
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revocationKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether a token ID is currently revoked.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revocationKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
