package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"quantmind/quant"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks for the YAML file when CONFIG_PATH is unset.
const DefaultPath = "configs/quantmind.yaml"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		GinMode     string   `yaml:"gin_mode"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	MarketData struct {
		Provider      string        `yaml:"provider"`
		PolygonAPIKey string        `yaml:"polygon_api_key"`
		RateLimit     int           `yaml:"rate_limit"`
		HistoryDays   int           `yaml:"history_days"`
		Timeout       time.Duration `yaml:"timeout"`
		MaxRetries    uint64        `yaml:"max_retries"`
	} `yaml:"market_data"`
	Forecast struct {
		ModelURL string        `yaml:"model_url"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"forecast"`
	Database struct {
		URL  string               `yaml:"url"`
		Pool ConnectionPoolConfig `yaml:"pool"`
	} `yaml:"database"`
	Thresholds quant.Thresholds `yaml:"thresholds"`
	LogLevel   string           `yaml:"log_level"`
}

// ConnectionPoolConfig holds connection pool configuration
type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// Load reads .env if present, then the YAML file at path, then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional, the process environment wins
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{Thresholds: quant.DefaultThresholds()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Server.GinMode = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("MARKET_DATA_PROVIDER"); v != "" {
		cfg.MarketData.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.MarketData.PolygonAPIKey = v
	}
	if n, ok := envInt("POLYGON_RATE_LIMIT"); ok {
		cfg.MarketData.RateLimit = n
	}
	if n, ok := envInt("HISTORY_DAYS"); ok {
		cfg.MarketData.HistoryDays = n
	}
	if v := os.Getenv("FORECAST_API_URL"); v != "" {
		cfg.Forecast.ModelURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if n, ok := envInt("DB_MAX_IDLE_CONNS"); ok {
		cfg.Database.Pool.MaxIdleConns = n
	}
	if n, ok := envInt("DB_MAX_OPEN_CONNS"); ok {
		cfg.Database.Pool.MaxOpenConns = n
	}
	if n, ok := envInt("DB_CONN_MAX_LIFETIME_MINUTES"); ok {
		cfg.Database.Pool.ConnMaxLifetime = time.Duration(n) * time.Minute
	}
	if n, ok := envInt("DB_CONN_MAX_IDLE_TIME_MINUTES"); ok {
		cfg.Database.Pool.ConnMaxIdleTime = time.Duration(n) * time.Minute
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.GinMode == "" {
		cfg.Server.GinMode = "release"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if cfg.MarketData.Provider == "" {
		if cfg.MarketData.PolygonAPIKey != "" {
			cfg.MarketData.Provider = "polygon"
		} else {
			cfg.MarketData.Provider = "yahoo"
		}
	}
	if cfg.MarketData.RateLimit <= 0 {
		cfg.MarketData.RateLimit = 5
	}
	if cfg.MarketData.HistoryDays <= 0 {
		cfg.MarketData.HistoryDays = 60
	}
	if cfg.MarketData.Timeout <= 0 {
		cfg.MarketData.Timeout = 30 * time.Second
	}
	if cfg.MarketData.MaxRetries == 0 {
		cfg.MarketData.MaxRetries = 3
	}
	if cfg.Forecast.Timeout <= 0 {
		cfg.Forecast.Timeout = 15 * time.Second
	}
	if cfg.Database.Pool.MaxIdleConns <= 0 {
		cfg.Database.Pool.MaxIdleConns = 10
	}
	if cfg.Database.Pool.MaxOpenConns <= 0 {
		cfg.Database.Pool.MaxOpenConns = 25
	}
	if cfg.Database.Pool.ConnMaxLifetime <= 0 {
		cfg.Database.Pool.ConnMaxLifetime = 5 * time.Minute
	}
	if cfg.Database.Pool.ConnMaxIdleTime <= 0 {
		cfg.Database.Pool.ConnMaxIdleTime = 10 * time.Minute
	}
	if cfg.Thresholds.BandCoefficient == 0 {
		cfg.Thresholds.BandCoefficient = quant.DefaultBandCoefficient
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port %q is not a number", c.Server.Port)
	}
	switch c.MarketData.Provider {
	case "polygon":
		if c.MarketData.PolygonAPIKey == "" {
			return fmt.Errorf("market_data.polygon_api_key is required for the polygon provider")
		}
	case "yahoo":
	default:
		return fmt.Errorf("market_data.provider %q must be polygon or yahoo", c.MarketData.Provider)
	}
	if c.MarketData.HistoryDays < 2 {
		return fmt.Errorf("market_data.history_days must be at least 2")
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	return nil
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
