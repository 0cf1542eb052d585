package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greenline365/pregreet/internal/availability"
	"github.com/greenline365/pregreet/internal/briefing"
	"github.com/greenline365/pregreet/internal/cache"
	"github.com/greenline365/pregreet/internal/config"
	"github.com/greenline365/pregreet/internal/hooks"
	"github.com/greenline365/pregreet/internal/identity"
	"github.com/greenline365/pregreet/internal/industry"
	"github.com/greenline365/pregreet/internal/model"
	"github.com/greenline365/pregreet/internal/resilience"
	"github.com/greenline365/pregreet/internal/store"
	"github.com/greenline365/pregreet/internal/weather"
	"github.com/greenline365/pregreet/pkg/calcom"
	"github.com/greenline365/pregreet/pkg/openweather"
)

// defaultSQLitePath is used when the sqlite driver has no database_url.
const defaultSQLitePath = "pregreet.db"

type appEnv struct {
	Store     store.Store
	Cache     *cache.Cache
	Breakers  *resilience.Registry
	Briefings *briefing.Service
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv opens the store and builds the briefing service from cfg.
// Callers should defer env.Close().
func initEnv(ctx context.Context, c *config.Config) (*appEnv, error) {
	st, err := initStore(ctx, c.Store)
	if err != nil {
		return nil, err
	}

	env, err := buildEnv(ctx, c, st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return env, nil
}

// buildEnv wires everything except opening the store.
func buildEnv(ctx context.Context, c *config.Config, st store.Store) (*appEnv, error) {
	ch, err := initCache(ctx, c.Cache)
	if err != nil {
		return nil, err
	}
	breakers := resilience.NewRegistry(resilience.FromConfig(c.Breaker.FailureThreshold, c.Breaker.ResetTimeoutSecs))

	resolverOpts := []identity.Option{identity.WithLookupTimeout(c.Store.LookupTimeout())}
	if c.Industry.ProfilesPath != "" {
		profiles, err := industry.LoadProfiles(c.Industry.ProfilesPath)
		if err != nil {
			return nil, err
		}
		resolverOpts = append(resolverOpts, identity.WithProfiles(profiles))
		zap.L().Info("industry profiles loaded", zap.String("path", c.Industry.ProfilesPath))
	}

	var calClient calcom.Client
	if c.Calcom.Key != "" && c.Calcom.EventTypeID != "" {
		var opts []calcom.Option
		if c.Calcom.BaseURL != "" {
			opts = append(opts, calcom.WithBaseURL(c.Calcom.BaseURL))
		}
		if c.Calcom.RatePerSecond > 0 {
			opts = append(opts, calcom.WithRateLimit(c.Calcom.RatePerSecond))
		}
		calClient = calcom.NewClient(c.Calcom.Key, opts...)
		zap.L().Info("cal.com availability enabled", zap.String("event_type_id", c.Calcom.EventTypeID))
	} else {
		zap.L().Debug("PREGREET_CALCOM_KEY or event type not set, availability disabled")
	}
	avail, err := availability.NewService(calClient, ch, breakers.Get("calcom"), availability.Config{
		EventTypeID: c.Calcom.EventTypeID,
		TimeZone:    c.Calcom.TimeZone,
		Timeout:     c.Calcom.Timeout(),
		MaxSlots:    c.Calcom.MaxSlotsOffered,
	})
	if err != nil {
		return nil, err
	}

	var owClient openweather.Client
	if c.OpenWeather.Key != "" {
		var opts []openweather.Option
		if c.OpenWeather.BaseURL != "" {
			opts = append(opts, openweather.WithBaseURL(c.OpenWeather.BaseURL))
		}
		if c.OpenWeather.RatePerSecond > 0 {
			opts = append(opts, openweather.WithRateLimit(c.OpenWeather.RatePerSecond))
		}
		owClient = openweather.NewClient(c.OpenWeather.Key, opts...)
		zap.L().Info("openweather enabled")
	} else {
		zap.L().Debug("PREGREET_OPENWEATHER_KEY not set, weather disabled")
	}
	wx := weather.NewService(owClient, ch, breakers, weather.Config{
		Country:    c.OpenWeather.Country,
		DefaultZip: c.OpenWeather.DefaultZip,
		Timeout:    c.OpenWeather.Timeout(),
	})

	svc := briefing.NewService(
		identity.NewResolver(st, resolverOpts...),
		avail, wx,
		hooks.NewSelector(nil),
		briefing.Config{
			RequestTimeout: c.Server.RequestTimeout(),
			DefaultDecay: model.DecayConfig{
				StaleYears:      c.Scoring.DefaultStaleYears,
				UnreliableYears: c.Scoring.DefaultUnreliableYears,
			},
			VerificationThreshold: c.Scoring.VerificationThreshold,
		},
	)

	return &appEnv{Store: st, Cache: ch, Breakers: breakers, Briefings: svc}, nil
}

func initStore(ctx context.Context, sc config.StoreConfig) (store.Store, error) {
	switch sc.Driver {
	case "sqlite":
		dsn := sc.DatabaseURL
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		return store.NewSQLite(dsn)
	case "postgres":
		if sc.DatabaseURL == "" {
			return nil, eris.New("store: database_url is required for postgres (PREGREET_STORE_DATABASE_URL)")
		}
		return store.NewPostgres(ctx, sc.DatabaseURL, &store.PoolConfig{
			MaxConns: sc.MaxConns,
			MinConns: sc.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", sc.Driver)
	}
}

func initCache(ctx context.Context, cc config.CacheConfig) (*cache.Cache, error) {
	switch cc.Driver {
	case "", "memory":
		return cache.NewMemory(), nil
	case "redis":
		backend := cache.NewRedisBackend(cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPass,
			DB:       cc.RedisDB,
			Prefix:   cc.KeyPrefix,
		})
		if err := backend.Ping(ctx); err != nil {
			return nil, err
		}
		zap.L().Info("redis cache enabled", zap.String("addr", cc.RedisAddr))
		return cache.New(backend, cache.DefaultTTLs), nil
	default:
		return nil, eris.Errorf("unsupported cache driver: %s", cc.Driver)
	}
}
