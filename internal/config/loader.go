package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment conventions.
const (
	EnvPrefix     = "INSIGHTS_"
	EnvConfigFile = "INSIGHTS_CONFIG"
	maxGrantTTL   = 60
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if INSIGHTS_CONFIG is set
//  3. env (prefix INSIGHTS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// INSIGHTS_DATA_DRIVER -> data_driver (flat keys, underscores kept)
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataDriver != DriverMemory && c.DataDriver != DriverPgx && c.DataDriver != DriverSQLite:
		return fmt.Errorf("%w: unknown data_driver %q", ErrInvalidConfig, c.DataDriver)
	case c.DataDriver == DriverPgx && c.DataDSN == "":
		return fmt.Errorf("%w: data_dsn is required for %s", ErrInvalidConfig, DriverPgx)
	case c.MaxRetries < 0:
		return fmt.Errorf("%w: max_retries must be >= 0", ErrInvalidConfig)
	case c.GrantTTLMinutes < 1 || c.GrantTTLMinutes > maxGrantTTL:
		return fmt.Errorf("%w: grant_ttl_minutes must be in 1..%d", ErrInvalidConfig, maxGrantTTL)
	case c.ContextDelayMS < 0 || c.RetryBaseDelayMS < 0:
		return fmt.Errorf("%w: delays must be >= 0", ErrInvalidConfig)
	}
	return nil
}
