package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Calcom      CalcomConfig      `yaml:"calcom" mapstructure:"calcom"`
	OpenWeather OpenWeatherConfig `yaml:"openweather" mapstructure:"openweather"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Industry    IndustryConfig    `yaml:"industry" mapstructure:"industry"`
	Breaker     BreakerConfig     `yaml:"breaker" mapstructure:"breaker"`
	Monitoring  MonitoringConfig  `yaml:"monitoring" mapstructure:"monitoring"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the pre-greeting HTTP server.
type ServerConfig struct {
	Port             int      `yaml:"port" mapstructure:"port"`
	RequestTimeoutMs int      `yaml:"request_timeout_ms" mapstructure:"request_timeout_ms"`
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// RequestTimeout is the soft deadline for building one briefing.
func (s ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutMs) * time.Millisecond
}

// StoreConfig configures the read-only persistence backend.
type StoreConfig struct {
	Driver          string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL     string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns        int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns        int32  `yaml:"min_conns" mapstructure:"min_conns"`
	LookupTimeoutMs int    `yaml:"lookup_timeout_ms" mapstructure:"lookup_timeout_ms"`
}

// LookupTimeout bounds each individual store query.
func (s StoreConfig) LookupTimeout() time.Duration {
	return time.Duration(s.LookupTimeoutMs) * time.Millisecond
}

// CacheConfig selects the short-lived cache backend.
type CacheConfig struct {
	Driver    string `yaml:"driver" mapstructure:"driver"`
	RedisAddr string `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPass string `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB   int    `yaml:"redis_db" mapstructure:"redis_db"`
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// CalcomConfig holds Cal.com scheduling API settings.
type CalcomConfig struct {
	Key             string  `yaml:"key" mapstructure:"key"`
	EventTypeID     string  `yaml:"event_type_id" mapstructure:"event_type_id"`
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	TimeZone        string  `yaml:"time_zone" mapstructure:"time_zone"`
	TimeoutMs       int     `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	RatePerSecond   float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	MaxSlotsOffered int     `yaml:"max_slots_offered" mapstructure:"max_slots_offered"`
}

// Timeout bounds the single Cal.com call per cache miss.
func (c CalcomConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// OpenWeatherConfig holds OpenWeather API settings.
type OpenWeatherConfig struct {
	Key           string  `yaml:"key" mapstructure:"key"`
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	Country       string  `yaml:"country" mapstructure:"country"`
	DefaultZip    string  `yaml:"default_zip" mapstructure:"default_zip"`
	TimeoutMs     int     `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// Timeout bounds each individual OpenWeather call.
func (o OpenWeatherConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutMs) * time.Millisecond
}

// ScoringConfig holds fallback decay thresholds for tenants without one.
type ScoringConfig struct {
	DefaultStaleYears      float64 `yaml:"default_stale_years" mapstructure:"default_stale_years"`
	DefaultUnreliableYears float64 `yaml:"default_unreliable_years" mapstructure:"default_unreliable_years"`
	VerificationThreshold  int     `yaml:"verification_threshold" mapstructure:"verification_threshold"`
}

// IndustryConfig points at the optional industry profile file.
type IndustryConfig struct {
	ProfilesPath string `yaml:"profiles_path" mapstructure:"profiles_path"`
}

// BreakerConfig configures the per-provider circuit breakers.
type BreakerConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// MonitoringConfig configures the background dependency health checker.
type MonitoringConfig struct {
	CheckIntervalSecs int `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
}

// CheckInterval is the time between health checks; zero disables them.
func (m MonitoringConfig) CheckInterval() time.Duration {
	return time.Duration(m.CheckIntervalSecs) * time.Second
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PREGREET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_ms", 2500)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("store.lookup_timeout_ms", 400)
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.key_prefix", "pregreet")
	v.SetDefault("calcom.base_url", "https://api.cal.com/v1")
	v.SetDefault("calcom.time_zone", "America/New_York")
	v.SetDefault("calcom.timeout_ms", 1500)
	v.SetDefault("calcom.rate_per_second", 5)
	v.SetDefault("calcom.max_slots_offered", 4)
	v.SetDefault("openweather.base_url", "https://api.openweathermap.org")
	v.SetDefault("openweather.country", "US")
	v.SetDefault("openweather.timeout_ms", 1000)
	v.SetDefault("openweather.rate_per_second", 10)
	v.SetDefault("scoring.default_stale_years", 5)
	v.SetDefault("scoring.default_unreliable_years", 10)
	v.SetDefault("scoring.verification_threshold", 70)
	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.reset_timeout_secs", 30)
	v.SetDefault("monitoring.check_interval_secs", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise fail late at request time.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "postgres", "sqlite":
	default:
		return eris.Errorf("config: unsupported store driver %q", c.Store.Driver)
	}
	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		return eris.Errorf("config: unsupported cache driver %q", c.Cache.Driver)
	}
	if c.Calcom.TimeZone != "" {
		if _, err := time.LoadLocation(c.Calcom.TimeZone); err != nil {
			return eris.Wrapf(err, "config: calcom time zone %q", c.Calcom.TimeZone)
		}
	}
	if c.Server.Port <= 0 {
		return eris.New("config: server.port must be > 0")
	}
	if c.Server.RequestTimeoutMs <= 0 {
		return eris.New("config: server.request_timeout_ms must be positive")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
