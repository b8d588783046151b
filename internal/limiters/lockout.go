package limiters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLockoutUnavailable indicates the lockout backend is unreachable.
var ErrLockoutUnavailable = errors.New("lockout backend unavailable")

// LockoutConfig holds configuration for the failed-login lockout limiter.
type LockoutConfig struct {
	Threshold int
	Window    time.Duration
}

// LockoutLimiter tracks failed login attempts per email inside a fixed time
// window and decides whether further attempts are blocked. The counter lives
// in Redis under login_attempts:{email}; INCR serializes concurrent
// failures, so the threshold is exact even under racing attackers.
type LockoutLimiter struct {
	redis  redis.UniversalClient
	config LockoutConfig
}

// NewLockoutLimiter creates a lockout limiter.
func NewLockoutLimiter(redisClient redis.UniversalClient, cfg LockoutConfig) *LockoutLimiter {
	return &LockoutLimiter{redis: redisClient, config: cfg}
}

func (l *LockoutLimiter) key(email string) string {
	return "login_attempts:" + email
}

// Check reports whether the account is currently locked out and, if so, the
// remaining lockout duration. It reads only the counter, never credentials,
// so a locked account leaks nothing about password validity.
func (l *LockoutLimiter) Check(ctx context.Context, email string) (locked bool, remaining time.Duration, err error) {
	count, err := l.redis.Get(ctx, l.key(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}
	if count < int64(l.config.Threshold) {
		return false, 0, nil
	}

	ttl, err := l.redis.TTL(ctx, l.key(email)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}
	if ttl < 0 {
		// Counter with no expiry (or already gone): treat as a full window
		// rather than an unbounded lock.
		ttl = l.config.Window
	}
	return true, ttl, nil
}

// RecordFailure increments the failure counter for an email. The window TTL
// is set only on the absent→1 transition, never refreshed on later
// increments: the window is fixed, not sliding. Returns the post-increment
// count and whether this exact increment reached the threshold, so the
// caller can emit a one-time lockout event.
func (l *LockoutLimiter) RecordFailure(ctx context.Context, email string) (count int64, lockedNow bool, err error) {
	count, err = l.redis.Incr(ctx, l.key(email)).Result()
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}

	if count == 1 && l.config.Window > 0 {
		if err := l.redis.Expire(ctx, l.key(email), l.config.Window).Err(); err != nil {
			return count, false, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
		}
	}

	return count, count == int64(l.config.Threshold), nil
}

// Reset deletes the counter. Called only after a fully successful login (or
// an explicit unlock); the key becomes absent, not zero.
func (l *LockoutLimiter) Reset(ctx context.Context, email string) error {
	if err := l.redis.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}
	return nil
}

// Attempts returns the current failure count for an email, 0 when absent.
func (l *LockoutLimiter) Attempts(ctx context.Context, email string) (int, error) {
	count, err := l.redis.Get(ctx, l.key(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}
	return int(count), nil
}
