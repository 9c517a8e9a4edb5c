package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Logging   LogConfig
	Source    SourceConfig
	Output    OutputConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// SourceConfig controls how documents are read and fetched.
type SourceConfig struct {
	MaxBytes  int           `envconfig:"SOURCE_MAX_BYTES" default:"10485760"`
	Timeout   time.Duration `envconfig:"SOURCE_TIMEOUT" default:"30s"`
	Retries   int           `envconfig:"SOURCE_RETRIES" default:"3"`
	RPS       float64       `envconfig:"SOURCE_RPS" default:"0"`
	UserAgent string        `envconfig:"SOURCE_USER_AGENT" default:"soupsavvy/1.0"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	Pretty bool `envconfig:"OUTPUT_PRETTY" default:"false"`
}

// ServerConfig holds HTTP server configuration for the serve command.
type ServerConfig struct {
	Addr        string   `envconfig:"SERVER_ADDR" default:"127.0.0.1:8080"`
	CORSOrigins []string `envconfig:"SERVER_CORS_ORIGINS" default:"*"`
	MaxBody     int64    `envconfig:"SERVER_MAX_BODY" default:"10485760"`
	AllowFetch  bool     `envconfig:"SERVER_ALLOW_FETCH" default:"false"`
}

// RateLimitConfig holds per-client rate limiting for the serve command.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level: "info",
		},
		Source: SourceConfig{
			MaxBytes:  10 * 1024 * 1024,
			Timeout:   30 * time.Second,
			Retries:   3,
			UserAgent: "soupsavvy/1.0",
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			CORSOrigins: []string{"*"},
			MaxBody:     10 * 1024 * 1024,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
