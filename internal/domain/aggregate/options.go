package aggregate

import (
	"time"

	"github.com/okian/cohortinsights/internal/domain/scoring"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithThemeTopN sets how many sub-themes are kept per category.
func WithThemeTopN(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.themeTopN = n
		}
	}
}

// WithDefaultSessionsPerEmployee sets the allotment used without a program configuration.
func WithDefaultSessionsPerEmployee(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.sessionsPerEmployee = n
		}
	}
}

// WithQuoteScorer sets the scorer used for feedback highlights.
func WithQuoteScorer(s scoring.Scorer) Option {
	return func(a *Aggregator) {
		if s != nil {
			a.scorer = s
		}
	}
}

// WithQuoteLimit sets how many highlights are kept.
func WithQuoteLimit(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.quoteLimit = n
		}
	}
}

// WithThemeKeywords sets the feedback theme keyword lists.
func WithThemeKeywords(k map[string][]string) Option {
	return func(a *Aggregator) {
		if len(k) > 0 {
			a.themeKeywords = k
		}
	}
}

// WithClock sets the time source used for program phase.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}
