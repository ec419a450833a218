package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	DataBackend    string        `mapstructure:"DATA_BACKEND"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBMaxConns     int           `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int           `mapstructure:"DB_MIN_CONNS"`
	DataRoot       string        `mapstructure:"DATA_ROOT"`
	HRRoot         string        `mapstructure:"HR_ROOT"`
	RosterSeed     int64         `mapstructure:"ROSTER_SEED"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
}

var keys = []string{
	"ENV", "PORT", "LOG_LEVEL", "DATA_BACKEND", "DATABASE_URL", "DB_MAX_CONNS",
	"DB_MIN_CONNS", "DATA_ROOT", "HR_ROOT", "ROSTER_SEED", "REDIS_URL", "CACHE_TTL",
	"REQUEST_TIMEOUT", "CORS_ORIGINS",
}

// Load reads settings from the environment and, when present, a .env file in
// the working directory.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_BACKEND", BackendMemory)
	v.SetDefault("DATABASE_URL", "file:sigesalud.db?_foreign_keys=on")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DATA_ROOT", "data")
	v.SetDefault("ROSTER_SEED", 20250108)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("CORS_ORIGINS", "*")

	for _, k := range keys {
		v.BindEnv(k)
	}

	// A missing .env is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	cfg.DataBackend = strings.ToLower(strings.TrimSpace(cfg.DataBackend))
	if cfg.HRRoot == "" && cfg.DataRoot != "" {
		cfg.HRRoot = filepath.Join(cfg.DataRoot, "hr")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UsesSQL reports whether operations read from the relational backend.
func (c *Config) UsesSQL() bool {
	return c.DataBackend == BackendSQL
}

// Validate checks that the configuration can start the selected backend.
func (c *Config) Validate() error {
	switch c.DataBackend {
	case BackendMemory:
		if c.DataRoot == "" {
			return fmt.Errorf("DATA_ROOT is required for the %s backend", BackendMemory)
		}
	case BackendSQL:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendSQL)
		}
	default:
		return fmt.Errorf("DATA_BACKEND must be %q or %q, got %q", BackendMemory, BackendSQL, c.DataBackend)
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
