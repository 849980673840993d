package session

import (
	"context"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
)

type ctxKey int

const sessionKey ctxKey = iota

// WithSession attaches a resolved session to the request context.
func WithSession(ctx context.Context, sess domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// FromContext returns the session attached to the context, if any.
func FromContext(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(domain.Session)
	return sess, ok
}

// ContextSource feeds the request gateway its upstream access token from the
// session on the request context. No session means an empty token, which the
// gateway maps to AUTH_TOKEN_MISSING without touching the network.
type ContextSource struct{}

func (ContextSource) AccessToken(ctx context.Context) (string, error) {
	sess, ok := FromContext(ctx)
	if !ok {
		return "", nil
	}
	return sess.User.AccessToken, nil
}
