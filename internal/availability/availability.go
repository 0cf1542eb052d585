// Package availability answers "what can we offer the caller today" from
// Cal.com, cached briefly so a burst of calls costs one upstream request.
package availability

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greenline365/pregreet/internal/cache"
	"github.com/greenline365/pregreet/internal/resilience"
	"github.com/greenline365/pregreet/pkg/calcom"
)

// DefaultMaxSlots is how many slots are offered to the caller.
const DefaultMaxSlots = 4

// Config controls the availability lookup.
type Config struct {
	EventTypeID string
	TimeZone    string
	Timeout     time.Duration
	MaxSlots    int
}

// Slots is today's availability as offered to the caller.
type Slots struct {
	Times           []string `json:"times"`
	HasAvailability bool     `json:"has_availability"`
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service fetches today's bookable slots.
type Service struct {
	client  calcom.Client
	cache   *cache.Cache
	breaker *resilience.Breaker
	cfg     Config
	loc     *time.Location
	now     func() time.Time
}

// NewService creates a Service. A nil client or empty event type yields a
// service that reports no availability without calling out.
func NewService(client calcom.Client, c *cache.Cache, breaker *resilience.Breaker, cfg Config, opts ...Option) (*Service, error) {
	if cfg.TimeZone == "" {
		cfg.TimeZone = "America/New_York"
	}
	if cfg.MaxSlots <= 0 {
		cfg.MaxSlots = DefaultMaxSlots
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, eris.Wrapf(err, "availability: load timezone %s", cfg.TimeZone)
	}
	if c == nil {
		c = cache.NewMemory()
	}
	if breaker == nil {
		breaker = resilience.NewBreaker("calcom", resilience.DefaultBreakerConfig())
	}

	s := &Service{
		client:  client,
		cache:   c,
		breaker: breaker,
		cfg:     cfg,
		loc:     loc,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Configured reports whether Cal.com lookups are enabled.
func (s *Service) Configured() bool {
	return s != nil && s.client != nil && s.cfg.EventTypeID != ""
}

// SlotsToday returns up to MaxSlots start times (HH:MM, booking timezone)
// for today. Failures yield no availability and are not cached.
func (s *Service) SlotsToday(ctx context.Context) Slots {
	if !s.Configured() {
		return Slots{Times: []string{}}
	}

	today := s.now().In(s.loc)
	key := s.cfg.EventTypeID + "-" + today.Format(time.DateOnly)

	full, ok := cache.GetJSON[[]string](ctx, s.cache, cache.Availability, key)
	if !ok {
		var err error
		full, err = s.fetch(ctx, today)
		if err != nil {
			zap.L().Warn("availability: cal.com lookup failed",
				zap.String("event_type_id", s.cfg.EventTypeID),
				zap.Error(err),
			)
			return Slots{Times: []string{}}
		}
		cache.SetJSON(ctx, s.cache, cache.Availability, key, full)
	}

	return s.offer(full)
}

func (s *Service) offer(full []string) Slots {
	n := len(full)
	if n > s.cfg.MaxSlots {
		n = s.cfg.MaxSlots
	}
	times := make([]string, n)
	copy(times, full[:n])
	return Slots{Times: times, HasAvailability: len(full) > 0}
}

func (s *Service) fetch(ctx context.Context, day time.Time) ([]string, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	req := calcom.SlotsRequest{
		EventTypeID: s.cfg.EventTypeID,
		Start:       start,
		End:         start.AddDate(0, 0, 1).Add(-time.Second),
		TimeZone:    s.cfg.TimeZone,
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := resilience.Do(ctx, s.breaker, func(ctx context.Context) (*calcom.SlotsResponse, error) {
		return s.client.Slots(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return FormatSlots(resp.Times(), s.loc), nil
}

// FormatSlots converts RFC 3339 slot starts to sorted HH:MM strings in loc.
// Unparseable entries are skipped.
func FormatSlots(raw []string, loc *time.Location) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		t, err := time.Parse(time.RFC3339, r)
		if err != nil {
			zap.L().Debug("availability: skipping unparseable slot", zap.String("slot", r))
			continue
		}
		out = append(out, t.In(loc).Format("15:04"))
	}
	sort.Strings(out)
	return out
}
