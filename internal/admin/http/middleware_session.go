package http

import (
	"net/http"
	"time"

	"github.com/teolmungchi/admin-gateway/internal/admin/session"
	"github.com/teolmungchi/admin-gateway/pkg/httpx"
	"github.com/teolmungchi/admin-gateway/pkg/slogx"
)

// SessionMiddleware resolves the session cookie on every request. A valid
// session lands on the context; an aged one is silently reissued with a fresh
// cookie; an invalid one is cleared. The request always proceeds, enforcement
// is RequireSession's job.
func SessionMiddleware(m *session.Manager, maxAge time.Duration, secure bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := session.ReadCookie(r)
			if err != nil || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := m.Resolve(r.Context(), token)
			if err != nil {
				session.ClearCookie(w, secure)
				next.ServeHTTP(w, r)
				return
			}

			if m.ShouldRenew(sess) {
				fresh, renewed, err := m.Renew(r.Context(), token)
				if err == nil {
					session.WriteCookie(w, fresh, maxAge, secure)
					sess = renewed
				} else {
					// Renewal failure keeps the old still-valid session alive.
					slogx.FromContext(r.Context()).Warn("session renewal failed", "sid", sess.SID, "err", err)
				}
			}

			ctx := session.WithSession(r.Context(), sess)
			ctx = httpx.WithIdentity(ctx, sess.User.ID, string(sess.User.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests that carry no resolved session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
