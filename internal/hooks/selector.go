// Package hooks picks the witty opener for a call without repeating the one
// the caller heard last time.
package hooks

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/greenline365/pregreet/internal/model"
)

// Selector picks hooks uniformly at random. It is safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a Selector drawing from rng. A nil rng uses a
// randomly seeded source.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{rng: rng}
}

// Pool numbers location hooks from LocationHookBase and industry hooks from
// IndustryHookBase. Blank hooks are skipped but still consume an id so ids
// stay stable against the stored list.
func Pool(location, industry []string) []model.Hook {
	pool := make([]model.Hook, 0, len(location)+len(industry))
	for i, text := range location {
		if strings.TrimSpace(text) != "" {
			pool = append(pool, model.Hook{ID: model.LocationHookBase + i, Text: text})
		}
	}
	for i, text := range industry {
		if strings.TrimSpace(text) != "" {
			pool = append(pool, model.Hook{ID: model.IndustryHookBase + i, Text: text})
		}
	}
	return pool
}

// Select picks a hook other than lastJokeID. When every candidate was
// excluded it repeats rather than going silent; ok is false only when
// there are no hooks at all.
func (s *Selector) Select(location, industry []string, lastJokeID *int) (model.Hook, bool) {
	all := Pool(location, industry)
	if len(all) == 0 {
		return model.Hook{}, false
	}

	candidates := all
	if lastJokeID != nil {
		filtered := make([]model.Hook, 0, len(all))
		for _, h := range all {
			if h.ID != *lastJokeID {
				filtered = append(filtered, h)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	s.mu.Lock()
	i := s.rng.IntN(len(candidates))
	s.mu.Unlock()
	return candidates[i], true
}
