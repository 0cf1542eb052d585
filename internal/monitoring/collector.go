// Package monitoring watches the dependencies a briefing relies on and logs
// alerts when one of them goes bad or recovers.
package monitoring

import (
	"context"
	"slices"
	"time"

	"github.com/greenline365/pregreet/internal/resilience"
)

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Snapshot is a point-in-time view of dependency health.
type Snapshot struct {
	StoreUp      bool              `json:"store_up"`
	StoreError   string            `json:"store_error,omitempty"`
	Breakers     map[string]string `json:"breakers"`
	OpenBreakers []string          `json:"open_breakers"`
	CollectedAt  time.Time         `json:"collected_at"`
}

// Collector gathers snapshots.
type Collector struct {
	store       Pinger
	breakers    *resilience.Registry
	pingTimeout time.Duration
	now         func() time.Time
}

// NewCollector creates a Collector. Either dependency may be nil.
func NewCollector(st Pinger, breakers *resilience.Registry) *Collector {
	return &Collector{
		store:       st,
		breakers:    breakers,
		pingTimeout: 2 * time.Second,
		now:         time.Now,
	}
}

// Collect pings the store and reads every breaker's state.
func (c *Collector) Collect(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		StoreUp:     true,
		Breakers:    map[string]string{},
		CollectedAt: c.now().UTC(),
	}

	if c.store != nil {
		pingCtx, cancel := context.WithTimeout(ctx, c.pingTimeout)
		err := c.store.Ping(pingCtx)
		cancel()
		if err != nil {
			snap.StoreUp = false
			snap.StoreError = err.Error()
		}
	}

	if c.breakers != nil {
		snap.Breakers = c.breakers.States()
		for name, state := range snap.Breakers {
			if state == resilience.CircuitOpen.String() {
				snap.OpenBreakers = append(snap.OpenBreakers, name)
			}
		}
		slices.Sort(snap.OpenBreakers)
	}

	return snap
}
