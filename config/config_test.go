package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quantmind/quant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_PATH", "PORT", "GIN_MODE", "CORS_ORIGINS", "MARKET_DATA_PROVIDER",
	"POLYGON_API_KEY", "POLYGON_RATE_LIMIT", "HISTORY_DAYS", "FORECAST_API_URL",
	"DATABASE_URL", "DB_MAX_IDLE_CONNS", "DB_MAX_OPEN_CONNS",
	"DB_CONN_MAX_LIFETIME_MINUTES", "DB_CONN_MAX_IDLE_TIME_MINUTES", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quantmind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "yahoo", cfg.MarketData.Provider)
	assert.Equal(t, 60, cfg.MarketData.HistoryDays)
	assert.Equal(t, 25, cfg.Database.Pool.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.Pool.ConnMaxLifetime)
	assert.Equal(t, quant.DefaultThresholds(), cfg.Thresholds)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLThenEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  port: "9000"
  cors_origins: ["https://dash.example.com"]
market_data:
  history_days: 90
  timeout: 5s
thresholds:
  stock_signal:
    hold: 0.5
    strong: 2.0
  band_coefficient: 0.02
`)
	t.Setenv("PORT", "9100")
	t.Setenv("POLYGON_API_KEY", "pk_test")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, []string{"https://dash.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "polygon", cfg.MarketData.Provider)
	assert.Equal(t, 90, cfg.MarketData.HistoryDays)
	assert.Equal(t, 5*time.Second, cfg.MarketData.Timeout)
	assert.Equal(t, 7, cfg.Database.Pool.MaxOpenConns)
	assert.Equal(t, quant.SignalBands{Hold: 0.5, Strong: 2.0}, cfg.Thresholds.StockSignal)
	assert.Equal(t, 0.02, cfg.Thresholds.BandCoefficient)
	assert.Equal(t, quant.DefaultThresholds().CryptoSignal, cfg.Thresholds.CryptoSignal)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "log_level: debug\n")
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_CORSOriginsFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	bad := *cfg
	bad.MarketData.Provider = "polygon"
	assert.Error(t, bad.Validate(), "polygon needs a key")

	bad = *cfg
	bad.MarketData.Provider = "bloomberg"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Server.Port = "http"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Thresholds.StockVolatility = quant.VolatilityBands{Medium: 0.05, High: 0.01}
	err = bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, quant.ErrInvalidParameter))
}
