// Package lock provides a Redis-backed mutual exclusion lock keyed by string.
// This is part of the platform layer and contains no business logic.
package lock

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"sales_quotation_backend/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrHeld is returned by Acquire when another holder owns the key.
var ErrHeld = errors.New("lock is held")

// releaseScript deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out exclusive locks.
type Locker interface {
	Acquire(ctx context.Context, key string) (Lease, error)
}

// Lease is one held lock. Release it when done; it expires on its own after the TTL.
type Lease interface {
	Release(ctx context.Context) error
}

// RedisLocker implements Locker with SET NX PX.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

type redisLease struct {
	client *redis.Client
	key    string
	token  string
}

// NewRedisLocker connects to the configured Redis.
func NewRedisLocker(cfg config.LockConfig) (*RedisLocker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}

	return NewRedisLockerFromClient(redis.NewClient(opt), cfg.GetCalculationLockTTL()), nil
}

// NewRedisLockerFromClient wraps an existing client. Tests point it at miniredis.
func NewRedisLockerFromClient(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

// Acquire takes the lock for key or returns ErrHeld.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (Lease, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return &redisLease{client: l.client, key: key, token: token}, nil
}

// Close closes the underlying client.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

// Release frees the lock if this lease still owns it. Releasing an expired or
// stolen lease is a no-op.
func (l *redisLease) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return nil
}
