package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every transport-level Redis failure so callers
// can distinguish "the store is down" from a security decision.
var ErrRedisUnavailable = errors.New("redis unavailable")

// TTL sentinel values, passed through from Redis.
const (
	// TTLNone is returned by TTL for a key that exists but has no expiry.
	TTLNone = time.Duration(-1)
	// TTLMissing is returned by TTL for a key that does not exist.
	TTLMissing = time.Duration(-2)
)

// blacklistSentinel is the stored value for revoked token IDs. Existence of
// the key is what matters; the value is kept for operational inspection.
const blacklistSentinel = "true"

// Key builders for the externally observable key contract. Operational
// tooling inspects the store directly, so these formats are load-bearing.

// RefreshTokenKey returns the session key holding the single live refresh
// token for a user.
func RefreshTokenKey(userID string) string {
	return "refresh_token:" + userID
}

// BlacklistKey returns the revocation key for a refresh-token ID.
func BlacklistKey(tokenID string) string {
	return "blacklist:" + tokenID
}

// LoginAttemptsKey returns the failed-login counter key for an email.
func LoginAttemptsKey(email string) string {
	return "login_attempts:" + email
}

// Store is a thin Redis adapter exposing the per-key atomic operations the
// engine depends on, plus typed helpers that enforce the key contract.
type Store struct {
	redis redis.UniversalClient
}

// NewStore creates a [Store] backed by the given Redis client.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{redis: client}
}

// Set stores value under key. A ttl of zero means no expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get returns the value stored under key. A missing key yields redis.Nil,
// which callers treat as "absent" rather than a failure.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return val, nil
}

// Del removes key and reports how many keys were deleted (0 or 1).
func (s *Store) Del(ctx context.Context, key string) (int64, error) {
	n, err := s.redis.Del(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n, nil
}

// Exists reports whether key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// Incr atomically increments the integer value at key, creating it at 1.
// Redis serializes concurrent increments, so counters are exact under
// concurrent callers.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n, nil
}

// Expire sets a ttl on key and reports whether the key existed.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.redis.Expire(ctx, key, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return ok, nil
}

// TTL returns the remaining lifetime of key: [TTLNone] for a key without
// expiry, [TTLMissing] for an absent key.
func (s *Store) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := s.redis.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return d, nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

// SaveRefreshToken records token as the single live refresh token for a
// user. The plain SET overwrites any previous value, which is what
// invalidates superseded refresh tokens: last login wins.
func (s *Store) SaveRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return s.Set(ctx, RefreshTokenKey(userID), token, ttl)
}

// RefreshToken returns the stored refresh token for a user, or "" when no
// session exists.
func (s *Store) RefreshToken(ctx context.Context, userID string) (string, error) {
	val, err := s.Get(ctx, RefreshTokenKey(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

// DeleteRefreshToken removes the session for a user and reports whether one
// existed. Deleting an absent session is not an error; logout is idempotent.
func (s *Store) DeleteRefreshToken(ctx context.Context, userID string) (bool, error) {
	n, err := s.Del(ctx, RefreshTokenKey(userID))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BlacklistToken marks a refresh-token ID as revoked until the ttl lapses.
// The entry is append-only per key; revocation is never undone early.
func (s *Store) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.Set(ctx, BlacklistKey(tokenID), blacklistSentinel, ttl)
}

// IsBlacklisted reports whether a refresh-token ID has been revoked.
func (s *Store) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	return s.Exists(ctx, BlacklistKey(tokenID))
}
