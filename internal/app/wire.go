package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/cohortinsights/internal/adapters/llm"
	"github.com/okian/cohortinsights/internal/adapters/repository"
	"github.com/okian/cohortinsights/internal/config"
	"github.com/okian/cohortinsights/internal/domain/aggregate"
	"github.com/okian/cohortinsights/internal/domain/insight"
	"github.com/okian/cohortinsights/internal/domain/matcher"
	"github.com/okian/cohortinsights/internal/domain/scoring"
	"github.com/okian/cohortinsights/pkg/logger"
)

const sqliteMemoryDSN = ":memory:"

// OpenStore opens the row store selected by cfg. A sqlite store is migrated
// and, when a fixture is configured, seeded from it.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.DataDriver {
	case config.DriverMemory:
		if cfg.FixturePath == "" {
			return repository.NewMemoryStore(repository.Dataset{}), nil
		}
		ms, err := repository.LoadMemoryStore(cfg.FixturePath)
		if err != nil {
			return nil, err
		}
		return ms, nil

	case config.DriverPgx:
		ss, err := repository.OpenSQL(ctx, repository.DriverPgx, cfg.DataDSN)
		if err != nil {
			return nil, err
		}
		return ss, nil

	case config.DriverSQLite:
		dsn := cfg.DataDSN
		if dsn == "" {
			dsn = sqliteMemoryDSN
		}
		ss, err := repository.OpenSQL(ctx, repository.DriverSQLite, dsn)
		if err != nil {
			return nil, err
		}
		if err := ss.Migrate(ctx); err != nil {
			_ = ss.Close()
			return nil, err
		}
		if cfg.FixturePath != "" {
			ds, err := repository.LoadDataset(cfg.FixturePath)
			if err == nil {
				err = ss.Seed(ctx, ds)
			}
			if err != nil {
				_ = ss.Close()
				return nil, err
			}
		}
		return ss, nil
	}
	return nil, fmt.Errorf("%w: data_driver %q", config.ErrInvalidConfig, cfg.DataDriver)
}

// NewAggregator builds the aggregator and its quote scorer from cfg.
func NewAggregator(cfg *config.Config) *aggregate.Aggregator {
	scorerOpts := []scoring.Option{
		scoring.WithBoilerplate(cfg.QuoteBoilerplate),
		scoring.WithMinLength(cfg.QuoteMinLength),
		scoring.WithLimit(cfg.QuoteLimit),
	}
	if len(cfg.QuoteKeywords.Positive)+len(cfg.QuoteKeywords.Negative) > 0 {
		scorerOpts = append(scorerOpts, scoring.WithKeywordWeights(keywordWeights(cfg.QuoteKeywords)))
	}

	return aggregate.New(
		aggregate.WithThemeTopN(cfg.ThemeTopN),
		aggregate.WithDefaultSessionsPerEmployee(cfg.DefaultSessionsPerEmployee),
		aggregate.WithQuoteLimit(cfg.QuoteLimit),
		aggregate.WithQuoteScorer(scoring.NewQuoteScorer(scorerOpts...)),
		aggregate.WithThemeKeywords(cfg.ThemeKeywords),
	)
}

// keywordWeights merges configured keywords over the defaults.
func keywordWeights(k config.QuoteKeywords) map[string]float64 {
	weights := scoring.DefaultPositiveKeywords()
	for kw, w := range scoring.DefaultNegativeKeywords() {
		weights[kw] = w
	}
	for kw, w := range k.Positive {
		weights[kw] = math.Abs(w)
	}
	for kw, w := range k.Negative {
		weights[kw] = -math.Abs(w)
	}
	return weights
}

// NewOrchestrator builds the two-call insight orchestrator on the Anthropic
// client configured by cfg.
func NewOrchestrator(cfg *config.Config, l logger.Logger) *insight.Orchestrator {
	client := llm.NewAnthropic(cfg.LLMAPIKey,
		llm.WithBaseURL(cfg.LLMBaseURL),
		llm.WithModel(cfg.LLMModel),
		llm.WithMaxTokens(cfg.LLMMaxTokens),
		llm.WithTimeout(millis(cfg.LLMTimeoutMS)),
	)
	return insight.NewOrchestrator(client,
		insight.WithContextDelay(millis(cfg.ContextDelayMS)),
		insight.WithRetryPolicy(millis(cfg.RetryBaseDelayMS), cfg.MaxRetries),
		insight.WithMaxTokens(cfg.LLMMaxTokens),
		insight.WithLogger(l),
	)
}

// Options translates cfg into service options.
func Options(cfg *config.Config, l logger.Logger) []Option {
	return []Option{
		WithLogger(l),
		WithWorkerCount(cfg.InsightWorkers),
		WithQueueSize(cfg.InsightQueueSize),
		WithMatcher(matcher.New(cfg.Aliases)),
		WithAggregator(NewAggregator(cfg)),
		WithTaskTimeout(TaskTimeout(cfg)),
	}
}

// TaskTimeout bounds one insight job: both calls, every retry of the
// generation call and all delays in between.
func TaskTimeout(cfg *config.Config) time.Duration {
	call := millis(cfg.LLMTimeoutMS)
	d := millis(cfg.ContextDelayMS) + call*time.Duration(cfg.MaxRetries+2)
	for i := 0; i < cfg.MaxRetries; i++ {
		d += millis(cfg.RetryBaseDelayMS) << i
	}
	return d
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
