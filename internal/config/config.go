// Package config loads process settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Reference data sources.
const (
	SourceDir      = "dir"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config holds every setting the binaries read.
type Config struct {
	Port             int           `mapstructure:"port"`
	LogLevel         string        `mapstructure:"log_level"`
	DataSource       string        `mapstructure:"data_source"`
	DataDir          string        `mapstructure:"data_dir"`
	DataURL          string        `mapstructure:"data_url"`
	DBURL            string        `mapstructure:"db_url"`
	RedisURL         string        `mapstructure:"redis_url"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	ResolveThreshold float64       `mapstructure:"resolve_threshold"`
	HTTPTimeout      time.Duration `mapstructure:"http_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("data_source", SourceDir)
	v.SetDefault("data_dir", "./data")
	v.SetDefault("data_url", "")
	v.SetDefault("db_url", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("cache_ttl", "24h")
	v.SetDefault("resolve_threshold", 0.8)
	v.SetDefault("http_timeout", "15s")
}

// Load reads the configuration. Values in envFile, when it exists, sit below
// real environment variables and above the defaults. An empty envFile skips
// the file.
func Load(envFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
		file := make(map[string]any, len(vals))
		for k, val := range vals {
			file[strings.ToLower(k)] = val
		}
		if err := v.MergeConfigMap(file); err != nil {
			return Config{}, fmt.Errorf("merge %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.DataSource = strings.ToLower(strings.TrimSpace(cfg.DataSource))

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	switch c.DataSource {
	case SourceDir:
		if c.DataDir == "" {
			return errors.New("DATA_DIR is required for the dir source")
		}
	case SourceHTTP:
		if c.DataURL == "" {
			return errors.New("DATA_URL is required for the http source")
		}
		if c.HTTPTimeout <= 0 {
			return errors.New("HTTP_TIMEOUT must be positive")
		}
	case SourcePostgres:
		if c.DBURL == "" {
			return errors.New("DB_URL is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource)
	}
	if c.ResolveThreshold <= 0 || c.ResolveThreshold > 1 {
		return fmt.Errorf("RESOLVE_THRESHOLD %v must be in (0, 1]", c.ResolveThreshold)
	}
	if c.RedisURL != "" && c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive when REDIS_URL is set")
	}
	return nil
}
