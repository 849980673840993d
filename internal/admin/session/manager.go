// Package session implements the credential session pipeline: issuing signed
// session tokens from an authenticated user record, resolving them back into
// sessions on every request, rolling reissue inside the validity window, and
// server-side revocation through the session registry.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/store"
	"github.com/teolmungchi/admin-gateway/pkg/idx"
	"github.com/teolmungchi/admin-gateway/pkg/jwtx"
)

var (
	// ErrInvalidSession covers malformed, tampered, and expired tokens alike.
	ErrInvalidSession = errors.New("session: invalid")

	// ErrRevoked means the token verified fine but the registry says the
	// session was signed out.
	ErrRevoked = errors.New("session: revoked")
)

// Config tunes the session lifecycle.
type Config struct {
	// Issuer is stamped into and validated on every token.
	Issuer string

	// MaxAge is the total session validity. Defaults to 30 days.
	MaxAge time.Duration

	// UpdateAge is how old a token may grow before it is silently reissued.
	// Defaults to 24 hours.
	UpdateAge time.Duration

	// Leeway for clock skew during verification.
	Leeway time.Duration
}

func (c *Config) normalize() {
	if c.MaxAge <= 0 {
		c.MaxAge = jwtx.DefaultSessionTTL
	}
	if c.UpdateAge <= 0 {
		c.UpdateAge = 24 * time.Hour
	}
}

// Manager issues, resolves, renews and revokes sessions. The signed token is
// authoritative for claims; the registry only answers revocation queries, so
// a missing registry row never invalidates an otherwise valid token.
type Manager struct {
	keys     *jwtx.KeyManager
	verifier jwtx.Verifier
	store    store.Store
	logger   *slog.Logger
	cfg      Config
}

// NewManager wires a session manager. The store may not be nil.
func NewManager(keys *jwtx.KeyManager, st store.Store, cfg Config, logger *slog.Logger) (*Manager, error) {
	if keys == nil {
		return nil, errors.New("session: key manager is required")
	}
	if st == nil {
		return nil, errors.New("session: store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg.normalize()

	return &Manager{
		keys:     keys,
		verifier: keys.Verifier(cfg.Leeway),
		store:    st,
		logger:   logger,
		cfg:      cfg,
	}, nil
}

// Issue mints a signed session token for an authenticated user and records
// the session in the registry. A registry write failure is logged but does
// not block the login; revocation simply won't work for that session.
func (m *Manager) Issue(ctx context.Context, user domain.User) (string, domain.Session, error) {
	now := time.Now().UTC()
	sid := idx.New().String()

	claims := jwtx.NewSessionClaims(
		user.ID, sid,
		user.Email, user.Name, string(user.Role), user.ProfileImageURL, user.AccessToken,
		m.cfg.MaxAge, m.cfg.Issuer, now,
	)

	signer := m.keys.Signer()
	if signer == nil {
		return "", domain.Session{}, errors.New("session: no signing key available")
	}

	token, err := signer.Sign(claims)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("session: sign: %w", err)
	}

	if err := m.store.Sessions().CreateSession(ctx, domain.SessionRecord{
		SID:       sid,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  now,
		RenewedAt: now,
	}); err != nil {
		m.logger.Error("session: registry write failed", "sid", sid, "err", err)
	}

	return token, sessionFromClaims(claims), nil
}

// Resolve verifies a token and returns the session it encodes. The registry
// is consulted for revocation only: a revoked row denies, a missing row or a
// registry error does not.
func (m *Manager) Resolve(ctx context.Context, token string) (domain.Session, error) {
	claims, err := m.verifier.Verify(token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	if err := m.checkRevoked(ctx, claims.SID); err != nil {
		return domain.Session{}, err
	}

	return sessionFromClaims(*claims), nil
}

// ShouldRenew reports whether the session has aged past the update window
// and ought to be silently reissued.
func (m *Manager) ShouldRenew(sess domain.Session) bool {
	return time.Now().UTC().Sub(sess.IssuedAt) >= m.cfg.UpdateAge
}

// Renew reissues a still-valid token with a fresh validity window. Claims
// carry over verbatim; only the timestamps move. The registry row's
// renewed_at is bumped so housekeeping keeps the session alive.
func (m *Manager) Renew(ctx context.Context, token string) (string, domain.Session, error) {
	claims, err := m.verifier.Verify(token)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	if err := m.checkRevoked(ctx, claims.SID); err != nil {
		return "", domain.Session{}, err
	}

	now := time.Now().UTC()
	next := claims.Reissued(m.cfg.MaxAge, now)

	signer := m.keys.Signer()
	if signer == nil {
		return "", domain.Session{}, errors.New("session: no signing key available")
	}

	fresh, err := signer.Sign(next)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("session: sign: %w", err)
	}

	if err := m.store.Sessions().TouchSession(ctx, next.SID, now); err != nil {
		m.logger.Warn("session: registry touch failed", "sid", next.SID, "err", err)
	}

	return fresh, sessionFromClaims(next), nil
}

// Revoke marks a session as signed out. Tokens carrying this sid stop
// resolving immediately.
func (m *Manager) Revoke(ctx context.Context, sid string) error {
	return m.store.Sessions().RevokeSession(ctx, sid, time.Now().UTC())
}

// RevokeUser signs out every session belonging to a user.
func (m *Manager) RevokeUser(ctx context.Context, userID string) error {
	return m.store.Sessions().RevokeAllUserSessions(ctx, userID, time.Now().UTC())
}

func (m *Manager) checkRevoked(ctx context.Context, sid string) error {
	rec, err := m.store.Sessions().GetSessionBySID(ctx, sid)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.logger.Warn("session: registry lookup failed", "sid", sid, "err", err)
		}
		return nil
	}
	if rec.Revoked() {
		return ErrRevoked
	}
	return nil
}

// sessionFromClaims is a direct field copy; nothing is recomputed.
func sessionFromClaims(c jwtx.Claims) domain.Session {
	sess := domain.Session{
		SID: c.SID,
		User: domain.User{
			ID:              c.Subject,
			Email:           c.Email,
			Name:            c.Name,
			ProfileImageURL: c.Picture,
			Role:            domain.Role(c.Role),
			AccessToken:     c.AccessToken,
		},
	}
	if c.IssuedAt != nil {
		sess.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
	}
	return sess
}
