// Package weather builds the weather talking points for a caller's area from
// OpenWeather, cached per ZIP.
package weather

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/greenline365/pregreet/internal/cache"
	"github.com/greenline365/pregreet/internal/model"
	"github.com/greenline365/pregreet/internal/resilience"
	"github.com/greenline365/pregreet/pkg/openweather"
)

// Breaker names. Alerts use the One Call endpoint, which many keys are not
// entitled to, so its failures are tracked apart from the core endpoints.
const (
	BreakerCore   = "openweather"
	BreakerAlerts = "openweather_alerts"
)

// ForecastPeriods is how many 3-hour steps are inspected (about 24h).
const ForecastPeriods = 8

// Fallback readings when the provider omits them.
const (
	fallbackTempF       = 70.0
	fallbackHumidity    = 50.0
	fallbackDescription = "clear"
)

// Config controls weather lookups.
type Config struct {
	Country    string
	DefaultZip string
	Timeout    time.Duration
}

// Service builds weather contexts.
type Service struct {
	client openweather.Client
	cache  *cache.Cache
	core   *resilience.Breaker
	alerts *resilience.Breaker
	cfg    Config
}

// NewService creates a Service. A nil client disables weather.
func NewService(client openweather.Client, c *cache.Cache, breakers *resilience.Registry, cfg Config) *Service {
	if c == nil {
		c = cache.NewMemory()
	}
	if breakers == nil {
		breakers = resilience.NewRegistry(resilience.DefaultBreakerConfig())
	}
	if cfg.Country == "" {
		cfg.Country = "US"
	}
	return &Service{
		client: client,
		cache:  c,
		core:   breakers.Get(BreakerCore),
		alerts: breakers.Get(BreakerAlerts),
		cfg:    cfg,
	}
}

// ResolveZip picks the ZIP to look up: the caller-supplied one, else the
// configured default.
func (s *Service) ResolveZip(zip string) string {
	if z := strings.TrimSpace(zip); z != "" {
		return z
	}
	return s.cfg.DefaultZip
}

// Context returns the weather context for zip, or nil when weather is
// disabled, no ZIP is known, or the location or current conditions could
// not be fetched.
func (s *Service) Context(ctx context.Context, zip string) *model.WeatherContext {
	if s == nil || s.client == nil {
		return nil
	}
	zip = s.ResolveZip(zip)
	if zip == "" {
		return nil
	}

	if wc, ok := cache.GetJSON[model.WeatherContext](ctx, s.cache, cache.Weather, zip); ok {
		return &wc
	}

	wc := s.build(ctx, zip)
	if wc != nil {
		cache.SetJSON(ctx, s.cache, cache.Weather, zip, *wc)
	}
	return wc
}

func (s *Service) build(ctx context.Context, zip string) *model.WeatherContext {
	log := zap.L().With(zap.String("zip", zip))

	loc, err := call(ctx, s, s.core, func(ctx context.Context) (*openweather.Location, error) {
		return s.client.GeocodeZip(ctx, zip, s.cfg.Country)
	})
	if err != nil {
		log.Warn("weather: geocode failed", zap.Error(err))
		return nil
	}

	cur, err := call(ctx, s, s.core, func(ctx context.Context) (*openweather.CurrentResponse, error) {
		return s.client.Current(ctx, loc.Lat, loc.Lon)
	})
	if err != nil {
		log.Warn("weather: current conditions failed", zap.Error(err))
		return nil
	}

	var periods []Period
	fc, err := call(ctx, s, s.core, func(ctx context.Context) (*openweather.ForecastResponse, error) {
		return s.client.Forecast(ctx, loc.Lat, loc.Lon)
	})
	if err != nil {
		log.Info("weather: forecast unavailable", zap.Error(err))
	} else {
		list := fc.List
		if len(list) > ForecastPeriods {
			list = list[:ForecastPeriods]
		}
		periods = Periods(list, fc.City.Timezone)
	}

	alerts := []model.Alert{}
	raw, err := call(ctx, s, s.alerts, func(ctx context.Context) ([]openweather.Alert, error) {
		return s.client.Alerts(ctx, loc.Lat, loc.Lon)
	})
	if err != nil {
		log.Debug("weather: alerts unavailable", zap.Error(err))
	} else {
		alerts = convertAlerts(raw)
	}

	temp := reading(cur.Main.Temp, fallbackTempF)
	city := loc.Name
	if city == "" {
		city = cur.Name
	}

	wc := &model.WeatherContext{
		City:           city,
		Current:        conditions(cur),
		Alerts:         alerts,
		HasSevereAlert: hasSevere(alerts),
		Recommendation: Recommend(temp, periods, alerts),
	}
	return wc
}

// call runs fn once under the per-call timeout and the given breaker.
func call[T any](ctx context.Context, s *Service, b *resilience.Breaker, fn func(context.Context) (T, error)) (T, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	return resilience.Do(ctx, b, fn)
}

func conditions(cur *openweather.CurrentResponse) model.Conditions {
	c := model.Conditions{
		Temp:        round(reading(cur.Main.Temp, fallbackTempF)),
		FeelsLike:   round(reading(cur.Main.FeelsLike, fallbackTempF)),
		Humidity:    round(reading(cur.Main.Humidity, fallbackHumidity)),
		Description: fallbackDescription,
	}
	if len(cur.Weather) > 0 {
		if cur.Weather[0].Description != "" {
			c.Description = cur.Weather[0].Description
		}
		c.Icon = cur.Weather[0].Icon
	}
	return c
}

func reading(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func convertAlerts(raw []openweather.Alert) []model.Alert {
	out := make([]model.Alert, 0, len(raw))
	for _, a := range raw {
		alert := model.Alert{
			Event:       a.Event,
			Description: a.Description,
			Severity:    model.SeveritySevere,
			Start:       unixPtr(a.Start),
			End:         unixPtr(a.End),
		}
		if slices.Contains(a.Tags, "Extreme") {
			alert.Severity = model.SeverityExtreme
		}
		out = append(out, alert)
	}
	return out
}

func hasSevere(alerts []model.Alert) bool {
	for _, a := range alerts {
		if a.Severity == model.SeverityExtreme || a.Severity == model.SeveritySevere {
			return true
		}
	}
	return false
}

func unixPtr(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
