package client

import (
	"errors"
	"fmt"

	"github.com/okian/cohortinsights/internal/domain/insight"
)

// ErrMissingEndpoint is returned when no service URL is configured.
var ErrMissingEndpoint = errors.New("insight service endpoint not configured")

// StatusError is a non-2xx response from the insight service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("insight service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("insight service returned status %d: %s", e.StatusCode, e.Message)
}

// Is makes every status error match insight.ErrGenerationFailed.
func (e *StatusError) Is(target error) bool {
	return target == insight.ErrGenerationFailed
}
