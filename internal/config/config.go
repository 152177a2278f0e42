package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port      string `envconfig:"PORT" default:"4000"`
	StaticDir string `envconfig:"STATIC_DIR" default:"static"`
	// MaxHoles caps num_holes on match creation; 0 disables the cap.
	MaxHoles int `envconfig:"MAX_HOLES" default:"36"`

	Database DatabaseConfig
	HTTP     HTTPConfig
	Metrics  MetricsConfig
	Tracing  TracingConfig
	Logging  LoggingConfig
}

// DatabaseConfig points at the SQLite file and tunes the pool.
type DatabaseConfig struct {
	Path         string        `envconfig:"DB_PATH" default:"golf.db"`
	BusyTimeout  time.Duration `envconfig:"DB_BUSY_TIMEOUT" default:"5s"`
	MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"4"`
	// CheckpointInterval paces WAL checkpoints; 0 disables them.
	CheckpointInterval time.Duration `envconfig:"DB_CHECKPOINT_INTERVAL" default:"5m"`
}

// HTTPConfig covers cross-origin access and request throttling.
type HTTPConfig struct {
	AllowedOrigin  string  `envconfig:"CORS_ALLOWED_ORIGIN" default:"*"`
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"20"`
}

// TracingConfig controls span export.
type TracingConfig struct {
	Enabled bool `envconfig:"TRACING_ENABLED" default:"false"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads configuration from environment variables with sensible defaults.
// Values that parse but make no sense fall back to their defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.sanitize()
	return cfg, nil
}

func (c *Config) sanitize() {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.MaxHoles < 0 {
		c.MaxHoles = defaultMaxHoles
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		c.Database.Path = defaultDBPath
	}
	if c.Database.BusyTimeout <= 0 {
		c.Database.BusyTimeout = defaultBusyTimeout
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if c.Database.CheckpointInterval < 0 {
		c.Database.CheckpointInterval = 0
	}
	if c.HTTP.RateLimitRPS < 0 {
		c.HTTP.RateLimitRPS = 0
	}
	if c.HTTP.RateLimitBurst <= 0 {
		c.HTTP.RateLimitBurst = defaultRateLimitBurst
	}
	if c.Metrics.Port == "" {
		c.Metrics.Port = defaultMetricsPort
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = defaultServiceName
	}
}
