package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/gateway"
	"github.com/teolmungchi/admin-gateway/internal/admin/session"
	"github.com/teolmungchi/admin-gateway/internal/admin/store"
	"github.com/teolmungchi/admin-gateway/pkg/idx"
	"github.com/teolmungchi/admin-gateway/pkg/slogx"
)

var (
	// ErrAuthenticationFailed is the uniform denial for every login failure.
	// Callers must not learn whether the account exists, the password was
	// wrong, or the profile fetch broke.
	ErrAuthenticationFailed = errors.New("authentication_failed")

	// ErrTooManyAttempts means the identifier is locked out by recent denials.
	ErrTooManyAttempts = errors.New("too_many_attempts")
)

const (
	defaultLockoutThreshold = 10
	defaultLockoutWindow    = 15 * time.Minute
)

// AuthService runs the credential pipeline: upstream login, profile fetch,
// session issuance. Denials are uniform and audited.
type AuthService struct {
	API      *gateway.Client
	Store    store.Store
	Sessions *session.Manager

	// LockoutThreshold denials within LockoutWindow lock the identifier.
	// Zero values fall back to defaults.
	LockoutThreshold int
	LockoutWindow    time.Duration
}

// Credentials are one login submission. The secret is never logged or stored.
type Credentials struct {
	LoginID    string
	Password   string
	RemoteAddr string
}

// loginPayload is the upstream login response body.
type loginPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// profilePayload is the upstream profile response. The upstream nests the
// identity block one level deeper than the rest of the fields; it is decoded
// here once and flattened, nothing downstream sees the nesting.
type profilePayload struct {
	Data struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
	LoginID         string `json:"login_id"`
	ProfileImageURL string `json:"profileImageUrl"`
	Role            string `json:"role"`
}

// Authorize validates credentials against the upstream API and, on success,
// issues a session. It returns the signed session token alongside the session.
//
// Every failure after the lockout check collapses into ErrAuthenticationFailed.
func (s *AuthService) Authorize(ctx context.Context, creds Credentials) (string, domain.Session, error) {
	l := slogx.FromContext(ctx)

	loginID := strings.TrimSpace(creds.LoginID)
	if loginID == "" || creds.Password == "" {
		return "", domain.Session{}, ErrAuthenticationFailed
	}

	if err := s.checkLockout(ctx, loginID); err != nil {
		return "", domain.Session{}, err
	}

	login := gateway.Do[loginPayload](ctx, s.API, "/v1/auth/login", gateway.Options{
		Method: http.MethodPost,
		Body: map[string]string{
			"userId":   loginID,
			"password": creds.Password,
		},
	})
	if !login.Success || login.Data == nil || login.Data.AccessToken == "" {
		l.Info("login denied", slog.String("login_id", loginID), slog.String("code", login.Code))
		s.audit(ctx, loginID, domain.LoginDenied, creds.RemoteAddr)
		return "", domain.Session{}, ErrAuthenticationFailed
	}

	accessToken := login.Data.AccessToken

	profile := gateway.Do[profilePayload](ctx, s.API, "/v1/user", gateway.Options{
		Headers: map[string]string{"Authorization": "Bearer " + accessToken},
	})
	if !profile.Success || profile.Data == nil || profile.Data.Data.ID == "" {
		// Credentials were fine but the account is unusable. Deny exactly
		// like a bad password.
		l.Warn("profile fetch failed after login", slog.String("login_id", loginID), slog.String("code", profile.Code))
		s.audit(ctx, loginID, domain.LoginDenied, creds.RemoteAddr)
		return "", domain.Session{}, ErrAuthenticationFailed
	}

	role := domain.Role(profile.Data.Role)
	if !role.Valid() {
		role = domain.RoleUser
	}

	user := domain.User{
		ID:              profile.Data.Data.ID,
		Email:           profile.Data.LoginID,
		Name:            profile.Data.Data.Name,
		ProfileImageURL: profile.Data.ProfileImageURL,
		Role:            role,
		AccessToken:     accessToken,
	}

	s.audit(ctx, loginID, domain.LoginSucceeded, creds.RemoteAddr)

	token, sess, err := s.Sessions.Issue(ctx, user)
	if err != nil {
		l.Error("session issuance failed", slog.String("login_id", loginID), slog.Any("err", err))
		return "", domain.Session{}, err
	}

	l.Info("login succeeded", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	return token, sess, nil
}

// SignOut revokes the session in the registry.
func (s *AuthService) SignOut(ctx context.Context, sid string) error {
	return s.Sessions.Revoke(ctx, sid)
}

func (s *AuthService) checkLockout(ctx context.Context, loginID string) error {
	threshold := s.LockoutThreshold
	if threshold <= 0 {
		threshold = defaultLockoutThreshold
	}
	window := s.LockoutWindow
	if window <= 0 {
		window = defaultLockoutWindow
	}

	n, err := s.Store.LoginAudit().CountRecentDenied(ctx, loginID, time.Now().UTC().Add(-window))
	if err != nil {
		slogx.FromContext(ctx).Warn("lockout check failed", slog.Any("err", err))
		return nil
	}
	if n >= threshold {
		return ErrTooManyAttempts
	}
	return nil
}

// audit is best effort. A failed audit write never changes the login outcome.
func (s *AuthService) audit(ctx context.Context, identifier string, outcome domain.LoginOutcome, remoteAddr string) {
	err := s.Store.LoginAudit().RecordLoginAttempt(ctx, domain.LoginAttempt{
		ID:         idx.New().String(),
		Identifier: identifier,
		Outcome:    outcome,
		RemoteAddr: remoteAddr,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		slogx.FromContext(ctx).Error("login audit write failed", slog.Any("err", err))
	}
}
