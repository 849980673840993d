package slogx_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teolmungchi/admin-gateway/pkg/slogx"
)

func TestRequestIDContext(t *testing.T) {
	t.Run("empty outside a request", func(t *testing.T) {
		require.Empty(t, slogx.RequestID(context.Background()))
	})

	t.Run("round trips and tags the logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		ctx := slogx.WithContext(context.Background(), logger)
		ctx = slogx.WithRequestID(ctx, "req-123")

		require.Equal(t, "req-123", slogx.RequestID(ctx))

		slogx.FromContext(ctx).Info("hello")
		require.Contains(t, buf.String(), `"req_id":"req-123"`)
	})
}

func TestHTTPMiddlewareRequestID(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	var seen string
	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = slogx.RequestID(r.Context())
	}))

	t.Run("honours a client-provided ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-7")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "client-7", seen)
		require.Equal(t, "client-7", rec.Header().Get("X-Request-ID"))
	})

	t.Run("mints one otherwise", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		require.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})
}
