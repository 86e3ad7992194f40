// Package config defines service configuration and its loading.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers an optional YAML file and INSIGHTS_* environment variables
//     on top of the defaults and validates the result.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"runtime"

	"github.com/okian/cohortinsights/internal/domain/matcher"
)

// Supported data drivers.
const (
	DriverMemory = "memory"
	DriverPgx    = "pgx"
	DriverSQLite = "sqlite"
)

// QuoteKeywords holds the quote scoring keyword weights. Negative entries
// are applied as penalties regardless of the sign written in the file.
type QuoteKeywords struct {
	Positive map[string]float64 `koanf:"positive"`
	Negative map[string]float64 `koanf:"negative"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDriver selects the row store: memory, pgx or sqlite.
	DataDriver string `koanf:"data_driver"`
	// DataDSN is the SQL connection string for pgx and sqlite.
	DataDSN string `koanf:"data_dsn"`
	// FixturePath is a YAML dataset loaded by the memory driver, or seeded
	// into a sqlite store.
	FixturePath string `koanf:"fixture_path"`

	LLMBaseURL   string `koanf:"llm_base_url"`
	LLMAPIKey    string `koanf:"llm_api_key"`
	LLMModel     string `koanf:"llm_model"`
	LLMMaxTokens int    `koanf:"llm_max_tokens"`
	LLMTimeoutMS int    `koanf:"llm_timeout_ms"`

	// JWTSecret signs bearer tokens and impersonation grants.
	JWTSecret string `koanf:"jwt_secret"`
	// GrantTTLMinutes is the impersonation grant lifetime, at most 60.
	GrantTTLMinutes int `koanf:"grant_ttl_minutes"`

	// ContextDelayMS is the pause between the context and generation calls.
	ContextDelayMS int `koanf:"context_delay_ms"`
	// RetryBaseDelayMS is the first rate-limit backoff; each retry doubles it.
	RetryBaseDelayMS int `koanf:"retry_base_delay_ms"`
	MaxRetries       int `koanf:"max_retries"`

	InsightQueueSize int `koanf:"insight_queue_size"`
	InsightWorkers   int `koanf:"insight_workers"`

	DefaultSessionsPerEmployee int `koanf:"default_sessions_per_employee"`
	QuoteLimit                 int `koanf:"quote_limit"`
	ThemeTopN                  int `koanf:"theme_top_n"`

	Aliases          matcher.AliasTable  `koanf:"aliases"`
	QuoteKeywords    QuoteKeywords       `koanf:"quote_keywords"`
	QuoteBoilerplate []string            `koanf:"quote_boilerplate"`
	QuoteMinLength   int                 `koanf:"quote_min_length"`
	ThemeKeywords    map[string][]string `koanf:"theme_keywords"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                   "info",
		Addr:                       ":9080",
		DataDriver:                 DriverMemory,
		FixturePath:                "",
		LLMBaseURL:                 "https://api.anthropic.com/v1",
		LLMModel:                   "claude-sonnet-4-20250514",
		LLMMaxTokens:               4096,
		LLMTimeoutMS:               120_000,
		GrantTTLMinutes:            30,
		ContextDelayMS:             2_000,
		RetryBaseDelayMS:           15_000,
		MaxRetries:                 3,
		InsightQueueSize:           64,
		InsightWorkers:             runtime.NumCPU(),
		DefaultSessionsPerEmployee: 5,
		QuoteLimit:                 5,
		ThemeTopN:                  5,
		QuoteMinLength:             50,
		Aliases:                    matcher.DefaultAliasTable(),
	}
}
