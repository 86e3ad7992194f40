// Package auth validates bearer tokens, decides whether a caller may act for
// a company, and issues the short-lived grants administrators use to view a
// company's data.
//
// Tokens and grants are HS256 JWTs signed with the same secret but carry
// different audiences, so a grant can never be presented as a bearer token.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/samber/lo"
)

// RoleAdmin may act for any company and issue impersonation grants.
const RoleAdmin = "admin"

// GrantHeader carries an impersonation grant on requests.
const GrantHeader = "X-Impersonation-Grant"

// Default auth configuration constants.
const (
	MaxGrantTTL     = 60 * time.Minute
	defaultGrantTTL = 30 * time.Minute
	defaultIssuer   = "cohort-insights"
	accessAudience  = "cohort-insights"
	grantAudience   = "impersonation"
)

// Claims are the claims of a bearer token.
type Claims struct {
	CompanyID   string   `json:"company_id,omitempty"`
	AccountName string   `json:"account_name,omitempty"`
	CompanyName string   `json:"company_name,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// GrantClaims are the claims of an impersonation grant. The subject is the
// administrator the grant was issued to.
type GrantClaims struct {
	CompanyID   string `json:"company_id"`
	AccountName string `json:"account_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller.
type Principal struct {
	Subject       string
	Roles         []string
	Company       model.CompanyFilter
	Impersonating bool
	GrantID       string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return lo.Contains(p.Roles, RoleAdmin)
}

// Grant is an issued impersonation grant.
type Grant struct {
	ID        string              `json:"id"`
	Token     string              `json:"token"`
	Company   model.CompanyFilter `json:"company"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// Authenticator issues and validates tokens.
type Authenticator struct {
	secret   []byte
	issuer   string
	grantTTL time.Duration
	now      func() time.Time
}

// NewAuthenticator creates an Authenticator for secret.
func NewAuthenticator(secret []byte, opts ...Option) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	a := &Authenticator{
		secret:   secret,
		issuer:   defaultIssuer,
		grantTTL: defaultGrantTTL,
		now:      time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// GrantTTL returns the configured grant lifetime.
func (a *Authenticator) GrantTTL() time.Duration { return a.grantTTL }

// IssueToken signs a bearer token for subject.
func (a *Authenticator) IssueToken(subject string, roles []string, company model.CompanyFilter, ttl time.Duration) (string, error) {
	now := a.now()
	claims := &Claims{
		CompanyID:   company.CompanyID,
		AccountName: company.AccountName,
		CompanyName: company.CompanyName,
		Roles:       roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			Audience:  jwt.ClaimStrings{accessAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Authenticate validates a bearer token and returns its principal. Every
// failure wraps ErrUnauthorized.
func (a *Authenticator) Authenticate(token string) (Principal, error) {
	claims := &Claims{}
	if err := a.parse(token, claims, accessAudience); err != nil {
		return Principal{}, err
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return Principal{
		Subject: claims.Subject,
		Roles:   claims.Roles,
		Company: model.CompanyFilter{
			CompanyID:   claims.CompanyID,
			AccountName: claims.AccountName,
			CompanyName: claims.CompanyName,
		},
	}, nil
}

// IssueGrant signs an impersonation grant for target, bound to admin.
func (a *Authenticator) IssueGrant(admin Principal, target model.CompanyFilter) (Grant, error) {
	if !admin.IsAdmin() {
		return Grant{}, fmt.Errorf("issue grant: %w", ErrForbidden)
	}
	if strings.TrimSpace(target.CompanyID) == "" {
		return Grant{}, fmt.Errorf("issue grant: %w: company_id is required", ErrInvalidGrant)
	}

	now := a.now()
	g := Grant{
		ID:        uuid.NewString(),
		Company:   target,
		ExpiresAt: now.Add(a.grantTTL),
	}
	claims := &GrantClaims{
		CompanyID:   target.CompanyID,
		AccountName: target.AccountName,
		CompanyName: target.CompanyName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        g.ID,
			Subject:   admin.Subject,
			Issuer:    a.issuer,
			Audience:  jwt.ClaimStrings{grantAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(g.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return Grant{}, fmt.Errorf("issue grant: %w", err)
	}
	g.Token = token
	return g, nil
}

// Impersonate validates grant for p and returns the principal acting for the
// granted company. The grant must have been issued to p, and p must still be
// an administrator.
func (a *Authenticator) Impersonate(p Principal, grant string) (Principal, error) {
	if !p.IsAdmin() {
		return Principal{}, fmt.Errorf("impersonate: %w", ErrForbidden)
	}
	claims := &GrantClaims{}
	if err := a.parse(grant, claims, grantAudience); err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidGrant, err)
	}
	if claims.Subject != p.Subject {
		return Principal{}, fmt.Errorf("impersonate: %w: grant issued to another user", ErrForbidden)
	}
	p.Company = model.CompanyFilter{
		CompanyID:   claims.CompanyID,
		AccountName: claims.AccountName,
		CompanyName: claims.CompanyName,
	}
	p.Impersonating = true
	p.GrantID = claims.ID
	return p, nil
}

func (a *Authenticator) parse(token string, claims jwt.Claims, audience string) error {
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}

// Authorize decides whether p may read companyID. Administrators may read
// any company unless they are impersonating, in which case only the granted
// company is readable.
func Authorize(p Principal, companyID string) error {
	if p.Subject == "" {
		return ErrUnauthorized
	}
	companyID = strings.TrimSpace(companyID)
	if p.IsAdmin() && !p.Impersonating {
		return nil
	}
	if companyID == "" || p.Company.CompanyID != companyID {
		return fmt.Errorf("company %q: %w", companyID, ErrForbidden)
	}
	return nil
}

// ExtractToken extracts the token from an Authorization header. Both
// "Bearer <token>" and a bare token are accepted.
func ExtractToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", ErrUnauthorized)
	}
	parts := strings.Fields(header)
	switch {
	case len(parts) == 2 && strings.EqualFold(parts[0], "bearer"):
		return parts[1], nil
	case len(parts) == 1:
		return parts[0], nil
	}
	return "", fmt.Errorf("%w: invalid authorization header format", ErrUnauthorized)
}
