// Package config loads runtime configuration.
//
// Values come from built-in defaults, an optional jyotish.yaml, JYOTISH_* env
// vars (a .env file is loaded first if present) and CLI flags bound into viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. JYOTISH_LOG_LEVEL.
const EnvPrefix = "JYOTISH"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// LogConfig configures pkg/logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// EphemerisConfig selects and tunes the ephemeris provider.
type EphemerisConfig struct {
	Mode        string        `mapstructure:"mode"` // mean, rpc, table, auto
	RPCEndpoint string        `mapstructure:"rpc_endpoint"`
	Timeout     time.Duration `mapstructure:"timeout"`
	TableSpan   time.Duration `mapstructure:"table_span"` // table mode lookup window either side
}

// CacheConfig selects the longitude sample store.
type CacheConfig struct {
	Backend string `mapstructure:"backend"` // none, memory, postgres, clickhouse
}

// DSNConfig holds a database connection string.
type DSNConfig struct {
	DSN string `mapstructure:"dsn"`
}

// SearchConfig tunes transit searches.
type SearchConfig struct {
	HorizonDays int `mapstructure:"horizon_days"`
	Workers     int `mapstructure:"workers"`
	ChunkDays   int `mapstructure:"chunk_days"`
}

// ContentConfig points at an alternative narrative document. Empty keeps the
// embedded one.
type ContentConfig struct {
	File string `mapstructure:"file"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Config holds all runtime configuration.
type Config struct {
	Log        LogConfig       `mapstructure:"log"`
	Ephemeris  EphemerisConfig `mapstructure:"ephemeris"`
	Cache      CacheConfig     `mapstructure:"cache"`
	Postgres   DSNConfig       `mapstructure:"postgres"`
	ClickHouse DSNConfig       `mapstructure:"clickhouse"`
	Search     SearchConfig    `mapstructure:"search"`
	Timezone   string          `mapstructure:"timezone"`
	Metrics    MetricsConfig   `mapstructure:"metrics"`
	Content    ContentConfig   `mapstructure:"content"`
}

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("ephemeris.mode", "mean")
	v.SetDefault("ephemeris.rpc_endpoint", "http://localhost:8899")
	v.SetDefault("ephemeris.timeout", 10*time.Second)
	v.SetDefault("ephemeris.table_span", 36*time.Hour)
	v.SetDefault("cache.backend", "none")
	v.SetDefault("postgres.dsn", "postgres://localhost:5432/jyotish?sslmode=disable")
	v.SetDefault("clickhouse.dsn", "clickhouse://localhost:9000/jyotish")
	v.SetDefault("search.horizon_days", 4000)
	v.SetDefault("search.workers", 1)
	v.SetDefault("search.chunk_days", 32)
	v.SetDefault("timezone", "UTC")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("content.file", "")
}

// Init prepares v: env overrides, defaults and the config file. A missing
// config file is not an error; an unreadable one is.
func Init(v *viper.Viper, cfgFile string) error {
	// Load .env file if it exists
	_ = godotenv.Load()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("jyotish")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	switch c.Ephemeris.Mode {
	case "mean", "rpc", "table", "auto":
	default:
		return fmt.Errorf("ephemeris.mode %q: %w", c.Ephemeris.Mode, ErrInvalidConfig)
	}

	switch c.Cache.Backend {
	case "none", "memory", "postgres", "clickhouse":
	default:
		return fmt.Errorf("cache.backend %q: %w", c.Cache.Backend, ErrInvalidConfig)
	}

	if c.Ephemeris.Mode == "table" && c.Cache.Backend == "none" {
		return fmt.Errorf("ephemeris.mode table needs a cache.backend: %w", ErrInvalidConfig)
	}
	if c.Search.HorizonDays <= 0 {
		return fmt.Errorf("search.horizon_days %d: %w", c.Search.HorizonDays, ErrInvalidConfig)
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("search.workers %d: %w", c.Search.Workers, ErrInvalidConfig)
	}
	if c.Search.ChunkDays < 1 {
		return fmt.Errorf("search.chunk_days %d: %w", c.Search.ChunkDays, ErrInvalidConfig)
	}
	if c.Ephemeris.TableSpan <= 0 {
		return fmt.Errorf("ephemeris.table_span %s: %w", c.Ephemeris.TableSpan, ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone %q: %w: %w", c.Timezone, ErrInvalidConfig, err)
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
