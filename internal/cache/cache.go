// Package cache is a namespaced key/value cache for short-lived results of
// external calls. Every namespace has one fixed TTL; freshness is judged
// lazily at read time against an injectable clock.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Namespace groups keys that share one staleness window.
type Namespace string

const (
	Availability Namespace = "availability"
	Weather      Namespace = "weather"
)

// DefaultTTLs are the production staleness windows.
var DefaultTTLs = map[Namespace]time.Duration{
	Availability: 60 * time.Second,
	Weather:      300 * time.Second,
}

// Entry is a stored value and the time it was written.
type Entry struct {
	Value    []byte    `json:"value"`
	StoredAt time.Time `json:"stored_at"`
}

// Backend holds entries. Implementations must be safe for concurrent use.
// The ttl passed to Store is a hint for reclaiming space only; the Cache
// decides freshness itself.
type Backend interface {
	Load(ctx context.Context, key string) (Entry, bool, error)
	Store(ctx context.Context, key string, e Entry, ttl time.Duration) error
}

// Cache applies namespace TTLs on top of a Backend.
type Cache struct {
	backend Backend
	ttls    map[Namespace]time.Duration
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source used for staleness checks and
// write timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a Cache over backend with the given namespace TTLs. The TTL
// map is copied; namespaces cannot be added later.
func New(backend Backend, ttls map[Namespace]time.Duration, opts ...Option) *Cache {
	c := &Cache{
		backend: backend,
		ttls:    make(map[Namespace]time.Duration, len(ttls)),
		now:     time.Now,
	}
	for ns, ttl := range ttls {
		c.ttls[ns] = ttl
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewMemory creates a Cache backed by an in-process map with DefaultTTLs.
func NewMemory(opts ...Option) *Cache {
	return New(NewMemoryBackend(), DefaultTTLs, opts...)
}

// TTL returns the staleness window of ns and whether ns is configured.
func (c *Cache) TTL(ns Namespace) (time.Duration, bool) {
	ttl, ok := c.ttls[ns]
	return ttl, ok
}

// Get returns the value stored under key in ns if it is younger than the
// namespace TTL. Backend errors count as a miss.
func (c *Cache) Get(ctx context.Context, ns Namespace, key string) ([]byte, bool) {
	ttl, ok := c.ttls[ns]
	if !ok {
		zap.L().Warn("cache: unknown namespace", zap.String("namespace", string(ns)))
		return nil, false
	}

	e, found, err := c.backend.Load(ctx, compositeKey(ns, key))
	if err != nil {
		zap.L().Warn("cache: load failed",
			zap.String("namespace", string(ns)),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}
	if !found {
		return nil, false
	}
	if c.now().Sub(e.StoredAt) >= ttl {
		return nil, false
	}
	return e.Value, true
}

// Set upserts value under key in ns, stamped with the current time.
// Concurrent writers race; the last one wins.
func (c *Cache) Set(ctx context.Context, ns Namespace, key string, value []byte) {
	ttl, ok := c.ttls[ns]
	if !ok {
		zap.L().Warn("cache: unknown namespace", zap.String("namespace", string(ns)))
		return
	}

	e := Entry{Value: value, StoredAt: c.now()}
	if err := c.backend.Store(ctx, compositeKey(ns, key), e, ttl); err != nil {
		zap.L().Warn("cache: store failed",
			zap.String("namespace", string(ns)),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// GetJSON decodes a cached JSON value into T.
func GetJSON[T any](ctx context.Context, c *Cache, ns Namespace, key string) (T, bool) {
	var out T
	raw, ok := c.Get(ctx, ns, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		zap.L().Warn("cache: decode failed", zap.String("namespace", string(ns)), zap.Error(err))
		return out, false
	}
	return out, true
}

// SetJSON encodes v as JSON and stores it.
func SetJSON[T any](ctx context.Context, c *Cache, ns Namespace, key string, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		zap.L().Warn("cache: encode failed", zap.String("namespace", string(ns)), zap.Error(err))
		return
	}
	c.Set(ctx, ns, key, raw)
}

func compositeKey(ns Namespace, key string) string {
	return string(ns) + ":" + key
}
