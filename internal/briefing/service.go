package briefing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/greenline365/pregreet/internal/availability"
	"github.com/greenline365/pregreet/internal/hooks"
	"github.com/greenline365/pregreet/internal/identity"
	"github.com/greenline365/pregreet/internal/model"
	"github.com/greenline365/pregreet/internal/weather"
)

// Request is an inbound pre-greeting request.
type Request struct {
	CallerPhone string `json:"caller_phone"`
	ToPhone     string `json:"to_phone"`
	TenantID    string `json:"tenant_id,omitempty"`
	CallID      string `json:"call_id"`
	ZipCode     string `json:"zip_code,omitempty"`
}

// Config controls briefing assembly.
type Config struct {
	// RequestTimeout is the soft deadline for one briefing. Zero means none.
	RequestTimeout        time.Duration
	DefaultDecay          model.DecayConfig
	VerificationThreshold int
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithCallIDs overrides how call ids are generated for requests without one.
func WithCallIDs(gen func() string) Option {
	return func(s *Service) {
		s.newCallID = gen
	}
}

// Service builds briefings.
type Service struct {
	resolver     *identity.Resolver
	availability *availability.Service
	weather      *weather.Service
	selector     *hooks.Selector
	cfg          Config
	now          func() time.Time
	newCallID    func() string
}

// NewService creates a Service. Nil availability or weather services
// disable those enrichments; a nil selector draws from a random source.
func NewService(resolver *identity.Resolver, avail *availability.Service, wx *weather.Service, selector *hooks.Selector, cfg Config, opts ...Option) *Service {
	if selector == nil {
		selector = hooks.NewSelector(nil)
	}
	s := &Service{
		resolver:     resolver,
		availability: avail,
		weather:      wx,
		selector:     selector,
		cfg:          cfg,
		now:          time.Now,
		newCallID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build assembles the briefing for req. It always returns a briefing: a
// panic anywhere in the build yields the failed default.
//
// Availability and weather run alongside identity resolution. Weather
// starts immediately when the request names a ZIP; otherwise it starts as
// soon as identity has settled the property or tenant ZIP, overlapping the
// asset and interaction lookups. A repeat ZIP is a cache hit.
func (s *Service) Build(ctx context.Context, req Request) (b model.Briefing) {
	callID := req.CallID
	if callID == "" {
		callID = s.newCallID()
	}
	start := s.now()
	log := zap.L().With(zap.String("call_id", callID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("briefing: panic while building", zap.Any("panic", r))
			b = model.FailedBriefing(callID, req.CallerPhone, eris.Errorf("briefing: internal error: %v", r), s.now())
		}
	}()

	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	var (
		res     identity.Result
		slots   availability.Slots
		wx      *model.WeatherContext
		located = make(chan string, 1)
		once    sync.Once
		g       errgroup.Group
	)
	// The deferred call releases the weather lookup if resolution panics.
	markLocated := func(zip string) {
		once.Do(func() { located <- zip })
	}
	defer markLocated("")

	g.Go(guard("availability", func() {
		slots = s.availability.SlotsToday(ctx)
	}))
	g.Go(guard("weather", func() {
		zip := req.ZipCode
		if zip == "" {
			select {
			case zip = <-located:
			case <-ctx.Done():
				return
			}
		}
		wx = s.weather.Context(ctx, zip)
	}))

	res = s.resolver.Resolve(ctx, identity.Request{
		CallerPhone: req.CallerPhone,
		ToPhone:     req.ToPhone,
		TenantID:    req.TenantID,
		OnLocated:   markLocated,
	})

	var hook *model.Hook
	if h, ok := s.selector.Select(locationHooks(res.Tenant), industryHooks(res.Tenant), res.LastJokeID()); ok {
		hook = &h
	}

	if err := g.Wait(); err != nil {
		log.Warn("briefing: enrichment failed", zap.Error(err))
	}

	b = Assemble(Inputs{
		CallID:                callID,
		CallerPhone:           req.CallerPhone,
		Identity:              res,
		Hook:                  hook,
		Slots:                 slots,
		Weather:               wx,
		DefaultDecay:          s.cfg.DefaultDecay,
		VerificationThreshold: s.cfg.VerificationThreshold,
		Now:                   s.now(),
	})

	log.Info("briefing: built",
		zap.Bool("new_caller", b.IsNewCaller),
		zap.Int("relationship_score", b.RelationshipScore),
		zap.Int("confidence_score", b.ConfidenceScore),
		zap.Any("stages", res.Stages),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
	return b
}

// guard runs fn, turning a panic into an error so one enrichment cannot
// take down the request.
func guard(name string, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = eris.Errorf("briefing: %s panicked: %v", name, r)
			}
		}()
		fn()
		return nil
	}
}

func locationHooks(t *model.Tenant) []string {
	if t == nil || t.Location == nil {
		return nil
	}
	return t.Location.WittyHooks
}

func industryHooks(t *model.Tenant) []string {
	if t == nil || t.Industry == nil {
		return nil
	}
	return t.Industry.WittyHooks
}
