package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string
	Port            int
	HealthPort      int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DataSourceConfig holds registration data source settings
type DataSourceConfig struct {
	// Type selects the provider: synthetic, csv, sqlite or vahan.
	Type string
	// Path is the data file for the csv and sqlite types.
	Path string
	// WatchFile reloads the csv source when the file changes.
	WatchFile bool
	// VahanBaseURL overrides the upstream dashboard URL for the vahan type.
	VahanBaseURL string
	// VahanStateCode scopes vahan queries to one state, empty for all-India.
	VahanStateCode string
	// RefreshSchedule is a cron expression for periodic refetches,
	// empty disables scheduled refresh.
	RefreshSchedule string
}

// CacheConfig holds analytics result cache settings
type CacheConfig struct {
	MaxEntries int
	TTL        time.Duration
}

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	DataSource DataSourceConfig
	Cache      CacheConfig
	LogLevel   string
	Metrics    bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("REGIPULSE_HOST", "0.0.0.0"),
			Port:            getEnvInt("REGIPULSE_PORT", 8080),
			HealthPort:      getEnvInt("REGIPULSE_HEALTH_PORT", 9090),
			ReadTimeout:     getEnvDuration("REGIPULSE_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("REGIPULSE_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("REGIPULSE_SHUTDOWN_TIMEOUT", 20*time.Second),
		},
		DataSource: DataSourceConfig{
			Type:            getEnv("REGIPULSE_SOURCE", "synthetic"),
			Path:            getEnv("REGIPULSE_SOURCE_PATH", ""),
			WatchFile:       getEnvBool("REGIPULSE_SOURCE_WATCH", false),
			VahanBaseURL:    getEnv("REGIPULSE_VAHAN_URL", ""),
			VahanStateCode:  getEnv("REGIPULSE_VAHAN_STATE", ""),
			RefreshSchedule: getEnv("REGIPULSE_REFRESH_SCHEDULE", ""),
		},
		Cache: CacheConfig{
			MaxEntries: getEnvInt("REGIPULSE_CACHE_ENTRIES", 256),
			TTL:        getEnvDuration("REGIPULSE_CACHE_TTL", 15*time.Minute),
		},
		LogLevel: getEnv("REGIPULSE_LOG_LEVEL", "info"),
		Metrics:  getEnvBool("REGIPULSE_METRICS_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is consistent
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HealthPort < 1 || c.Server.HealthPort > 65535 {
		return fmt.Errorf("invalid health port: %d", c.Server.HealthPort)
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must differ: %d", c.Server.Port)
	}

	switch c.DataSource.Type {
	case "synthetic", "vahan":
	case "csv", "sqlite":
		if c.DataSource.Path == "" {
			return fmt.Errorf("REGIPULSE_SOURCE_PATH is required for source type %q", c.DataSource.Type)
		}
	default:
		return fmt.Errorf("unknown data source type: %q", c.DataSource.Type)
	}

	if c.DataSource.WatchFile && c.DataSource.Type != "csv" {
		return fmt.Errorf("file watching is only supported for the csv source, got %q", c.DataSource.Type)
	}

	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache entries must be positive: %d", c.Cache.MaxEntries)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive: %s", c.Cache.TTL)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}

	return nil
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the environment variable as an int or a default
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns the environment variable as a bool or a default
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvDuration returns the environment variable as a duration or a default
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
