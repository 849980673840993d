package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/metrics"
	"github.com/teolmungchi/admin-gateway/internal/admin/service"
	"github.com/teolmungchi/admin-gateway/internal/admin/session"
	"github.com/teolmungchi/admin-gateway/pkg/httpx"
	"github.com/teolmungchi/admin-gateway/pkg/slogx"
)

// SessionHandler owns the session lifecycle endpoints: sign in, who-am-I,
// sign out.
type SessionHandler struct {
	Auth    *service.AuthService
	Metrics *metrics.Collector

	CookieMaxAge  time.Duration
	SecureCookies bool
}

// LoginRequest is the sign-in body.
type LoginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// SessionResponse is the session view returned to the dashboard. The
// upstream access token never appears here.
type SessionResponse struct {
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	Role            string `json:"role"`
	ExpiresAt       string `json:"expiresAt"`
}

func sessionResponse(sess domain.Session) SessionResponse {
	return SessionResponse{
		UserID:          sess.User.ID,
		Email:           sess.User.Email,
		Name:            sess.User.Name,
		ProfileImageURL: sess.User.ProfileImageURL,
		Role:            string(sess.User.Role),
		ExpiresAt:       sess.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// HandleLogin godoc
//
//	@Summary		Sign in
//	@Description	Validates credentials against the upstream API and sets the session cookie.
//	@Description	Every failure is answered identically so callers cannot probe for accounts.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"credentials"
//	@Success		200		{object}	Envelope{data=SessionResponse}
//	@Failure		401		{object}	Envelope	"invalid credentials"
//	@Failure		429		{object}	Envelope	"identifier locked out"
//	@Router			/v1/session [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	token, sess, err := h.Auth.Authorize(ctx, service.Credentials{
		LoginID:    req.UserID,
		Password:   req.Password,
		RemoteAddr: r.RemoteAddr,
	})
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.RecordLogin(string(domain.LoginDenied))
		}
		writeServiceError(w, err)
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordLogin(string(domain.LoginSucceeded))
		h.Metrics.RecordSessionIssued()
	}

	log.Info("session issued", "sid", sess.SID, "user_id", sess.User.ID)

	session.WriteCookie(w, token, h.CookieMaxAge, h.SecureCookies)
	httpx.NoCache(w)
	writeData(w, http.StatusOK, sessionResponse(sess))
}

// HandleMe godoc
//
//	@Summary		Current session
//	@Description	Returns the signed-in user's session. Claims come straight from the cookie.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	Envelope{data=SessionResponse}
//	@Failure		401	{object}	Envelope
//	@Router			/v1/session [get].
func (h *SessionHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
		return
	}

	httpx.NoCache(w)
	writeData(w, http.StatusOK, sessionResponse(sess))
}

// HandleLogout godoc
//
//	@Summary		Sign out
//	@Description	Revokes the session in the registry and clears the cookie. Idempotent.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	Envelope
//	@Router			/v1/session [delete].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if sess, ok := session.FromContext(ctx); ok {
		if err := h.Auth.SignOut(ctx, sess.SID); err != nil {
			slogx.FromContext(ctx).Error("session revocation failed", "sid", sess.SID, "err", err)
		} else if h.Metrics != nil {
			h.Metrics.RecordSessionRevoked()
		}
	}

	session.ClearCookie(w, h.SecureCookies)
	httpx.NoCache(w)
	writeData(w, http.StatusOK, nil)
}
