package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	return NewMemory(WithClock(clock.Now)), clock
}

func TestCache_MissWhenEmpty(t *testing.T) {
	c, _ := newTestCache(t)

	v, ok := c.Get(context.Background(), Availability, "evt-2026-03-14")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestCache_TTLBoundary(t *testing.T) {
	tests := []struct {
		ns  Namespace
		ttl time.Duration
	}{
		{Availability, 60 * time.Second},
		{Weather, 300 * time.Second},
	}

	for _, tt := range tests {
		t.Run(string(tt.ns), func(t *testing.T) {
			c, clock := newTestCache(t)
			ctx := context.Background()

			c.Set(ctx, tt.ns, "k", []byte("v"))

			clock.Advance(tt.ttl - time.Nanosecond)
			v, ok := c.Get(ctx, tt.ns, "k")
			require.True(t, ok, "age just under TTL must be fresh")
			assert.Equal(t, "v", string(v))

			clock.Advance(time.Nanosecond)
			_, ok = c.Get(ctx, tt.ns, "k")
			assert.False(t, ok, "age equal to TTL must be stale")

			clock.Advance(time.Hour)
			_, ok = c.Get(ctx, tt.ns, "k")
			assert.False(t, ok)
		})
	}
}

func TestCache_StaleEntryRefreshedBySet(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, Weather, "33602", []byte("old"))
	clock.Advance(10 * time.Minute)
	_, ok := c.Get(ctx, Weather, "33602")
	require.False(t, ok)

	c.Set(ctx, Weather, "33602", []byte("new"))
	v, ok := c.Get(ctx, Weather, "33602")
	require.True(t, ok)
	assert.Equal(t, "new", string(v))
}

func TestCache_NamespacesAreIsolated(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, Availability, "same", []byte("slots"))
	c.Set(ctx, Weather, "same", []byte("weather"))

	v, ok := c.Get(ctx, Availability, "same")
	require.True(t, ok)
	assert.Equal(t, "slots", string(v))

	// Past the availability TTL but inside the weather TTL.
	clock.Advance(2 * time.Minute)
	_, ok = c.Get(ctx, Availability, "same")
	assert.False(t, ok)
	v, ok = c.Get(ctx, Weather, "same")
	require.True(t, ok)
	assert.Equal(t, "weather", string(v))
}

func TestCache_UnknownNamespace(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, Namespace("bogus"), "k", []byte("v"))
	_, ok := c.Get(ctx, Namespace("bogus"), "k")
	assert.False(t, ok)

	_, ok = c.TTL(Namespace("bogus"))
	assert.False(t, ok)
}

func TestCache_TTLMapIsCopied(t *testing.T) {
	ttls := map[Namespace]time.Duration{Availability: time.Minute}
	c := New(NewMemoryBackend(), ttls)
	ttls[Availability] = time.Hour

	ttl, ok := c.TTL(Availability)
	require.True(t, ok)
	assert.Equal(t, time.Minute, ttl)
}

func TestCache_JSONHelpers(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	SetJSON(ctx, c, Availability, "evt", []string{"09:00", "10:30"})
	got, ok := GetJSON[[]string](ctx, c, Availability, "evt")
	require.True(t, ok)
	assert.Equal(t, []string{"09:00", "10:30"}, got)

	c.Set(ctx, Availability, "garbage", []byte("{not json"))
	_, ok = GetJSON[[]string](ctx, c, Availability, "garbage")
	assert.False(t, ok)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	backend := NewMemoryBackend()
	c := New(backend, DefaultTTLs)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			c.Set(ctx, Availability, key, []byte(fmt.Sprint(i)))
			_, _ = c.Get(ctx, Availability, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, backend.Len())
}

func TestCache_RedisUnavailableDegradesToMiss(t *testing.T) {
	// Nothing listens on port 1; every call fails fast with a dial error.
	backend := NewRedisBackend(RedisOptions{Addr: "127.0.0.1:1", Prefix: "test"})
	c := New(backend, DefaultTTLs)
	ctx := context.Background()

	c.Set(ctx, Weather, "33602", []byte("v"))
	_, ok := c.Get(ctx, Weather, "33602")
	assert.False(t, ok)

	assert.Error(t, backend.Ping(ctx))
}

func TestRedisBackend_Key(t *testing.T) {
	assert.Equal(t, "pregreet:weather:33602", (&RedisBackend{prefix: "pregreet"}).key("weather:33602"))
	assert.Equal(t, "weather:33602", (&RedisBackend{}).key("weather:33602"))
}
