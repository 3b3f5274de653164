package utils

import (
	"context" // Context for Redis operations
	"errors"  // Error matching
	"sync"    // In-memory fallback guard
	"time"    // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

const revokedPrefix = "auth:revoked:" // Key prefix for revoked token ids

// TokenRevoker remembers logged-out token ids until they expire
type TokenRevoker struct {
	rdb   *redis.Client        // Shared store, nil keeps revocations in memory
	mu    sync.Mutex           // Guards local
	local map[string]time.Time // Token id -> expiry when Redis is not configured
	now   func() time.Time     // Clock
}

// NewTokenRevoker returns a revoker backed by rdb, or by process memory when rdb is nil
func NewTokenRevoker(rdb *redis.Client) *TokenRevoker {
	return &TokenRevoker{
		rdb:   rdb,                        // Redis client
		local: make(map[string]time.Time), // Fallback store
		now:   time.Now,                   // Wall clock
	}
}

// Revoke marks a token id as logged out until expiresAt
func (r *TokenRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now()) // Keep the key only as long as the token is valid
	if ttl <= 0 {
		return nil // Already expired, nothing to remember
	}
	if r.rdb != nil {
		return r.rdb.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err() // Set key with TTL
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.local[tokenID] = expiresAt // Remember until expiry
	return nil
}

// IsRevoked reports whether a token id was logged out
func (r *TokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r.rdb != nil {
		err := r.rdb.Get(ctx, revokedPrefix+tokenID).Err() // Look up key
		if errors.Is(err, redis.Nil) {
			return false, nil // Key does not exist
		}
		return err == nil, err // Found, or a Redis error
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	expiresAt, ok := r.local[tokenID] // Look up fallback entry
	if ok && !r.now().Before(expiresAt) {
		delete(r.local, tokenID) // Drop expired entry
		return false, nil
	}
	return ok, nil
}
