package llm

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the Anthropic client.
type Option func(*Anthropic)

// WithBaseURL sets the API base URL, e.g. "https://api.anthropic.com/v1".
func WithBaseURL(url string) Option {
	return func(a *Anthropic) {
		if url != "" {
			a.baseURL = url
		}
	}
}

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(a *Anthropic) {
		if model != "" {
			a.model = model
		}
	}
}

// WithMaxTokens sets the default completion budget.
func WithMaxTokens(n int) Option {
	return func(a *Anthropic) {
		if n > 0 {
			a.maxTokens = n
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Anthropic) {
		if d > 0 {
			a.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Anthropic) {
		if c != nil {
			a.httpClient = c
		}
	}
}
