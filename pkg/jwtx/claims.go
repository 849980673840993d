package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the total validity of a session token. Sessions can be
// silently reissued inside this window without re-authentication.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Claims are the session-token claims for the admin gateway. The custom fields
// are copied verbatim from the authenticated user record at issuance and read
// back by direct field copy; nothing is recomputed on later requests.
type Claims struct {
	jwt.RegisteredClaims

	// Session ID, also the key into the server-side session registry.
	SID string `json:"sid,omitempty"`

	// Profile fields mirrored into the session.
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	Picture string `json:"picture,omitempty"`

	// AccessToken is the upstream API bearer token obtained at login. The
	// request gateway injects it into authenticated outbound calls.
	AccessToken string `json:"upstream_token,omitempty"`
}

// NewSessionClaims builds minimally-correct session claims.
func NewSessionClaims(
	subject, sid string,
	email, name, role, picture, accessToken string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        sid,
		},
		SID:         sid,
		Email:       email,
		Name:        name,
		Role:        role,
		Picture:     picture,
		AccessToken: accessToken,
	}
}

// Reissued returns a copy of the claims with a fresh validity window starting
// at now. All custom fields carry over untouched (rolling expiry, not renewal).
func (c Claims) Reissued(ttl time.Duration, now time.Time) Claims {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	next := c
	next.IssuedAt = jwt.NewNumericDate(now)
	next.NotBefore = jwt.NewNumericDate(now)
	next.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	return next
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
