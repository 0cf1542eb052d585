package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2500*time.Millisecond, cfg.Server.RequestTimeout())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 400*time.Millisecond, cfg.Store.LookupTimeout())
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, "https://api.cal.com/v1", cfg.Calcom.BaseURL)
	assert.Equal(t, "America/New_York", cfg.Calcom.TimeZone)
	assert.Equal(t, 1500*time.Millisecond, cfg.Calcom.Timeout())
	assert.Equal(t, 4, cfg.Calcom.MaxSlotsOffered)
	assert.Equal(t, "https://api.openweathermap.org", cfg.OpenWeather.BaseURL)
	assert.Equal(t, "US", cfg.OpenWeather.Country)
	assert.Equal(t, time.Second, cfg.OpenWeather.Timeout())
	assert.InDelta(t, 5.0, cfg.Scoring.DefaultStaleYears, 0.001)
	assert.InDelta(t, 10.0, cfg.Scoring.DefaultUnreliableYears, 0.001)
	assert.Equal(t, 70, cfg.Scoring.VerificationThreshold)
	assert.Equal(t, 5, cfg.Breaker.FailureThreshold)
	assert.Equal(t, time.Minute, cfg.Monitoring.CheckInterval())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
  database_url: pregreet.db
log:
  level: debug
  format: console
server:
  port: 9090
calcom:
  event_type_id: "12345"
openweather:
  default_zip: "33602"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "pregreet.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "12345", cfg.Calcom.EventTypeID)
	assert.Equal(t, "33602", cfg.OpenWeather.DefaultZip)
	// Defaults still apply for unset values
	assert.Equal(t, 400, cfg.Store.LookupTimeoutMs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("PREGREET_STORE_DRIVER", "postgres")
	t.Setenv("PREGREET_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("PREGREET_SERVER_PORT", "3000")
	t.Setenv("PREGREET_CALCOM_KEY", "cal_live_abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "cal_live_abc", cfg.Calcom.Key)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.RequestTimeoutMs = 2500
	cfg.Store.Driver = "postgres"
	cfg.Cache.Driver = "memory"
	cfg.Calcom.TimeZone = "America/New_York"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"store driver", func(c *Config) { c.Store.Driver = "mysql" }, "unsupported store driver"},
		{"cache driver", func(c *Config) { c.Cache.Driver = "memcached" }, "unsupported cache driver"},
		{"time zone", func(c *Config) { c.Calcom.TimeZone = "Mars/Olympus" }, "calcom time zone"},
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port must be > 0"},
		{"timeout", func(c *Config) { c.Server.RequestTimeoutMs = 0 }, "request_timeout_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
