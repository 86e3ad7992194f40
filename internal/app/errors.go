package service

import (
	"errors"

	"github.com/okian/cohortinsights/internal/adapters/mq/queue"
)

// Sentinel errors returned by the service.
var (
	ErrNotStarted = errors.New("service not started")
	// ErrBackpressure is returned when the insight queue is full.
	ErrBackpressure = queue.ErrBackpressure
)
