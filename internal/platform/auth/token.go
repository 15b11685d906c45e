// Package auth supplies bearer tokens for requests to the membership
// backend. The gateway never verifies signatures; authentication is owned
// by the backend. What this package adds is an early local check of the
// token's expiry claim so an expired session surfaces as a clear error
// instead of a backend 401 on every screen.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("no api token configured")
	ErrTokenExpired = errors.New("api token has expired")
)

// TokenSource yields the bearer token to attach to an outgoing request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Static is a fixed, opaque token taken from configuration.
type Static string

func (s Static) Token(_ context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// JWT wraps a JWT bearer token and refuses to hand it out once its exp
// claim has passed. Claims are read without signature verification.
type JWT struct {
	raw    string
	claims jwt.RegisteredClaims
	now    func() time.Time
}

// NewJWT parses raw's registered claims. An unparseable token is rejected
// up front rather than on first use.
func NewJWT(raw string) (*JWT, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoToken
	}

	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil, err
	}
	return &JWT{raw: raw, claims: claims, now: time.Now}, nil
}

func (j *JWT) Token(_ context.Context) (string, error) {
	if j.claims.ExpiresAt != nil && !j.now().Before(j.claims.ExpiresAt.Time) {
		return "", ErrTokenExpired
	}
	return j.raw, nil
}

// ExpiresAt returns the token's expiry, or the zero time when the claim
// is absent.
func (j *JWT) ExpiresAt() time.Time {
	if j.claims.ExpiresAt == nil {
		return time.Time{}
	}
	return j.claims.ExpiresAt.Time
}

// Subject returns the token's sub claim.
func (j *JWT) Subject() string {
	return j.claims.Subject
}

// FromConfig picks the right source for a configured token string: JWTs
// get the expiry-checking source, anything else is treated as opaque.
func FromConfig(token string) TokenSource {
	if strings.Count(token, ".") == 2 {
		if src, err := NewJWT(token); err == nil {
			return src
		}
	}
	return Static(token)
}
