package queue

import "errors"

// Sentinel errors for enqueue failures.
var (
	ErrClosed       = errors.New("queue closed")
	ErrBackpressure = errors.New("queue full")
)
