package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port                  string `envconfig:"PORT" default:"8080"`
	StorageBackend        string `envconfig:"STORAGE_BACKEND" default:"memory"`
	DBURL                 string `envconfig:"DB_URL"`
	MigrationsPath        string `envconfig:"MIGRATIONS_PATH" default:"db/migrations"`
	AggregateCacheTTLSecs int    `envconfig:"AGGREGATE_CACHE_TTL_SECS" default:"0"`
	ReadTimeoutSecs       int    `envconfig:"SERVER_READ_TIMEOUT" default:"15"`
	WriteTimeoutSecs      int    `envconfig:"SERVER_WRITE_TIMEOUT" default:"15"`
	IdleTimeoutSecs       int    `envconfig:"SERVER_IDLE_TIMEOUT" default:"60"`
	DBMaxConns            int    `envconfig:"DB_MAX_CONNS" default:"20"`
	DBMinConns            int    `envconfig:"DB_MIN_CONNS" default:"2"`
	DBMaxIdleSecs         int    `envconfig:"DB_MAX_CONN_IDLE_SECS" default:"300"`
	DBMaxLifeSecs         int    `envconfig:"DB_MAX_CONN_LIFETIME_SECS" default:"3600"`
	DBConnTimeoutSecs     int    `envconfig:"DB_CONN_TIMEOUT_SECS" default:"10"`
	DBStatementCache      int    `envconfig:"DB_STATEMENT_CACHE_CAPACITY" default:"256"`
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DBURL == "" {
			return fmt.Errorf("DB_URL is required when STORAGE_BACKEND=%s", BackendPostgres)
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendMemory, BackendPostgres, c.StorageBackend)
	}
	if c.AggregateCacheTTLSecs < 0 {
		return fmt.Errorf("AGGREGATE_CACHE_TTL_SECS must be non-negative")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if c.DBStatementCache < 0 {
		return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	return nil
}

// AggregateCacheTTL is the configured aggregate cache lifetime; zero disables it.
func (c Config) AggregateCacheTTL() time.Duration {
	return time.Duration(c.AggregateCacheTTLSecs) * time.Second
}
