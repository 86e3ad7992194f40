package auth

import "errors"

// Sentinel errors for authentication and authorization.
var (
	ErrMissingSecret = errors.New("auth: signing secret is required")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidGrant  = errors.New("invalid impersonation grant")
)
