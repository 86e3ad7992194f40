package insight

import "errors"

// Sentinel errors for insight generation.
var (
	// ErrGenerationFailed wraps every terminal failure of the generation call.
	ErrGenerationFailed = errors.New("insight generation failed")
	// ErrRateLimited marks a generation that exhausted its 429 retries.
	ErrRateLimited = errors.New("rate limited after retries")
	// ErrInFlight rejects a submission identical to one still loading.
	ErrInFlight = errors.New("identical insight request already in progress")
	// ErrJobNotFound is returned for unknown job IDs.
	ErrJobNotFound = errors.New("insight job not found")
	// ErrNotReady is returned when a job has no result yet.
	ErrNotReady = errors.New("insight job has no result")
)
