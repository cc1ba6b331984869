package rate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds login throttle parameters.
type Config struct {
	Prefix                string
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
}

// Limiter counts failed logins per email, and optionally per client IP,
// in fixed windows stored in Redis.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by redisClient.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "rl"
	}
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = 5
	}
	if cfg.LoginCooldownDuration <= 0 {
		cfg.LoginCooldownDuration = 15 * time.Minute
	}
	return &Limiter{redis: redisClient, config: cfg}
}

// CheckLogin returns [ErrRateLimited] once email or ip has used up its
// failure budget for the current window.
func (l *Limiter) CheckLogin(ctx context.Context, email, ip string) error {
	for _, key := range l.loginKeys(email, ip) {
		count, err := l.redis.Get(ctx, key).Int64()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if count >= int64(l.config.MaxLoginAttempts) {
			return ErrRateLimited
		}
	}
	return nil
}

// RecordFailure counts one failed login.
func (l *Limiter) RecordFailure(ctx context.Context, email, ip string) error {
	for _, key := range l.loginKeys(email, ip) {
		count, err := l.redis.Incr(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		// Fixed window: the first hit sets the TTL.
		if count == 1 {
			if err := l.redis.Expire(ctx, key, l.config.LoginCooldownDuration).Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
			}
		}
	}
	return nil
}

// Reset clears the counters after a successful login.
func (l *Limiter) Reset(ctx context.Context, email, ip string) error {
	if err := l.redis.Del(ctx, l.loginKeys(email, ip)...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Attempts returns the failure count for email in the current window.
func (l *Limiter) Attempts(ctx context.Context, email string) (int, error) {
	count, err := l.redis.Get(ctx, l.emailKey(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return int(count), nil
}

func (l *Limiter) loginKeys(email, ip string) []string {
	keys := []string{l.emailKey(email)}
	if l.config.EnableIPThrottle && ip != "" {
		keys = append(keys, l.config.Prefix+":ip:"+ip)
	}
	return keys
}

func (l *Limiter) emailKey(email string) string {
	return l.config.Prefix + ":email:" + strings.ToLower(strings.TrimSpace(email))
}
