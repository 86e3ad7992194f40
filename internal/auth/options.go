package auth

import "time"

// Option applies a configuration option to the Authenticator.
type Option func(*Authenticator)

// WithGrantTTL sets the impersonation grant lifetime. Values above
// MaxGrantTTL are capped.
func WithGrantTTL(d time.Duration) Option {
	return func(a *Authenticator) {
		if d <= 0 {
			return
		}
		if d > MaxGrantTTL {
			d = MaxGrantTTL
		}
		a.grantTTL = d
	}
}

// WithIssuer sets the iss claim written to and required on tokens.
func WithIssuer(iss string) Option {
	return func(a *Authenticator) {
		if iss != "" {
			a.issuer = iss
		}
	}
}

// WithClock sets the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}
