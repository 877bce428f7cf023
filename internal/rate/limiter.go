package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	signInUserPrefix = "gg:si:u:"
	signInIPPrefix   = "gg:si:ip:"
)

// Config holds throttle tuning parameters.
type Config struct {
	EnableIPThrottle bool
	MaxAttempts      int
	Cooldown         time.Duration
}

// Limiter enforces per-email and per-IP failed sign-in budgets using
// Redis fixed-window counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// CheckSignIn reports whether the email+IP pair still has attempt budget.
// Returns ErrRateLimited when exhausted.
func (l *Limiter) CheckSignIn(ctx context.Context, email, ip string) error {
	if err := l.checkCounter(ctx, signInUserKey(email), l.config.MaxAttempts); err != nil {
		return err
	}

	if l.config.EnableIPThrottle && ip != "" {
		if err := l.checkCounter(ctx, signInIPKey(ip), l.config.MaxAttempts); err != nil {
			return err
		}
	}

	return nil
}

// IncrementSignIn records a failed attempt for the email+IP pair.
// Budget enforcement happens in CheckSignIn on the next attempt.
func (l *Limiter) IncrementSignIn(ctx context.Context, email, ip string) error {
	if _, err := l.incrementWithTTL(ctx, signInUserKey(email), l.config.Cooldown); err != nil {
		return err
	}

	if l.config.EnableIPThrottle && ip != "" {
		if _, err := l.incrementWithTTL(ctx, signInIPKey(ip), l.config.Cooldown); err != nil {
			return err
		}
	}

	return nil
}

// ResetSignIn clears the failure counters for the email+IP pair after a
// successful sign-in.
func (l *Limiter) ResetSignIn(ctx context.Context, email, ip string) error {
	keys := []string{signInUserKey(email)}
	if l.config.EnableIPThrottle && ip != "" {
		keys = append(keys, signInIPKey(ip))
	}

	if err := l.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Attempts returns the current failure counter for an email. Missing keys
// return zero and do not reveal account existence.
func (l *Limiter) Attempts(ctx context.Context, email string) (int, error) {
	count, err := l.redis.Get(ctx, signInUserKey(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *Limiter) checkCounter(ctx context.Context, key string, maxAttempts int) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(maxAttempts) {
		return ErrRateLimited
	}

	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}

func signInUserKey(email string) string { return signInUserPrefix + email }

func signInIPKey(ip string) string { return signInIPPrefix + ip }
