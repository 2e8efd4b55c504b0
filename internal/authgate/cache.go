package authgate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arthive/illustration-platform/internal/domain"
)

// TokenCache is an optional short-TTL cache of successful validations,
// keyed by token digest. It trades a staleness window against the
// per-request round trip: a deactivated account can still pass the gate for
// at most the TTL. A zero TTL or nil cache keeps the original behavior of
// validating remotely on every request.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenCache returns a cache, or nil when ttl is zero or no client is
// available.
func NewTokenCache(client *redis.Client, ttl time.Duration) *TokenCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &TokenCache{client: client, ttl: ttl}
}

// Get returns the cached identity for the token, if present.
func (tc *TokenCache) Get(ctx context.Context, token string) (*domain.Identity, bool) {
	if tc == nil {
		return nil, false
	}
	raw, err := tc.client.Get(ctx, cacheKey(token)).Bytes()
	if err != nil {
		return nil, false
	}
	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, false
	}
	return &identity, true
}

// Set stores a validated identity for the token. Failures are ignored; the
// cache is an optimization, not a source of truth.
func (tc *TokenCache) Set(ctx context.Context, token string, identity *domain.Identity) {
	if tc == nil || identity == nil {
		return
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return
	}
	_ = tc.client.Set(ctx, cacheKey(token), raw, tc.ttl).Err()
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "authgate:token:" + hex.EncodeToString(sum[:])
}
