package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport failures talking to Redis.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Persister saves and restores a client [Record].
type Persister interface {
	Save(ctx context.Context, r Record, ttl time.Duration) error
	Load(ctx context.Context) (Record, bool, error)
	Delete(ctx context.Context) error
}

// RedisPersister stores one profile's record under prefix:profile.
type RedisPersister struct {
	redis   redis.UniversalClient
	prefix  string
	profile string
}

// NewRedisPersister returns a persister for profile. An empty prefix
// selects "rs"; an empty profile selects "default".
func NewRedisPersister(client redis.UniversalClient, prefix, profile string) *RedisPersister {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "rs"
	}
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = "default"
	}
	return &RedisPersister{redis: client, prefix: prefix, profile: profile}
}

// Key returns the Redis key holding the record.
func (p *RedisPersister) Key() string {
	return p.prefix + ":session:" + p.profile
}

// Save persists r with ttl. A non-positive ttl stores without expiry.
func (p *RedisPersister) Save(ctx context.Context, r Record, ttl time.Duration) error {
	data, err := Encode(r)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := p.redis.Set(ctx, p.Key(), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Load returns the persisted record. The bool is false when nothing is
// stored.
func (p *RedisPersister) Load(ctx context.Context) (Record, bool, error) {
	data, err := p.redis.Get(ctx, p.Key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	r, err := Decode(data)
	if err != nil {
		return Record{}, false, err
	}
	return r, true, nil
}

// Delete removes the record. Deleting a missing record is not an error.
func (p *RedisPersister) Delete(ctx context.Context) error {
	if err := p.redis.Del(ctx, p.Key()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping measures a Redis round-trip.
func (p *RedisPersister) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := p.redis.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
