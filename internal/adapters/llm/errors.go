package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for provider calls.
var (
	ErrMissingAPIKey = errors.New("llm api key not configured")
	ErrEmptyResponse = errors.New("llm returned no text")
)

// StatusError is a non-2xx response from the provider.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("llm provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("llm provider returned status %d: %s", e.StatusCode, e.Message)
}

// RateLimited reports whether the provider asked the caller to back off.
func (e *StatusError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsRateLimited reports whether err is an HTTP 429 from the provider.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.RateLimited()
}
