package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrUnknownDriver = errors.New("unknown data driver")
	ErrFixture       = errors.New("invalid fixture dataset")
)
