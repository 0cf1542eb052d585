package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rotisserie/eris"
)

// RedisBackend shares entries across server replicas. The Redis key
// expiry is set to the namespace TTL so stale keys are reclaimed, but the
// stored timestamp remains the source of truth for freshness.
type RedisBackend struct {
	client redis.Cmdable
	prefix string
}

// RedisOptions configures NewRedisBackend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisBackend connects a RedisBackend.
func NewRedisBackend(opts RedisOptions) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisBackendFromClient(client, opts.Prefix)
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(client redis.Cmdable, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

// Ping checks connectivity.
func (r *RedisBackend) Ping(ctx context.Context) error {
	return eris.Wrap(r.client.Ping(ctx).Err(), "cache: redis ping")
}

// Load implements Backend.
func (r *RedisBackend) Load(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, eris.Wrap(err, "cache: redis get")
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false, eris.Wrap(err, "cache: redis decode entry")
	}
	return e, true, nil
}

// Store implements Backend.
func (r *RedisBackend) Store(ctx context.Context, key string, e Entry, ttl time.Duration) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return eris.Wrap(err, "cache: redis encode entry")
	}
	if err := r.client.Set(ctx, r.key(key), raw, ttl).Err(); err != nil {
		return eris.Wrap(err, "cache: redis set")
	}
	return nil
}

func (r *RedisBackend) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}
