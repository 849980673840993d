package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teolmungchi/admin-gateway/internal/admin/gateway"
)

type payload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type stubSessions struct {
	token string
	err   error
	calls atomic.Int64
}

func (s *stubSessions) AccessToken(context.Context) (string, error) {
	s.calls.Add(1)
	return s.token, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient(t *testing.T) {
	t.Run("rejects empty base URL", func(t *testing.T) {
		_, err := gateway.NewClient("   ")
		require.Error(t, err)
	})

	t.Run("rejects relative base URL", func(t *testing.T) {
		_, err := gateway.NewClient("/api")
		require.Error(t, err)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		c, err := gateway.NewClient("http://api.local/")
		require.NoError(t, err)
		require.Equal(t, "http://api.local", c.BaseURL())
	})
}

func TestDoSuccess(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"code":    "OK",
			"data":    payload{ID: "a1", Name: "mochi"},
		})
	}))
	defer srv.Close()

	sessions := &stubSessions{token: "tok-123"}
	c, err := gateway.NewClient(srv.URL,
		gateway.WithSessionSource(sessions),
		gateway.WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	res := gateway.Do[payload](context.Background(), c, "/v1/animals", gateway.Options{
		RequiresAuth: true,
	})

	require.True(t, res.Success)
	require.NotNil(t, res.Data)
	require.Equal(t, "a1", res.Data.ID)
	require.Equal(t, "mochi", res.Data.Name)
	require.Empty(t, res.Message)

	require.Equal(t, "Bearer tok-123", gotAuth)
	require.Equal(t, "application/json", gotContentType)

	data, uerr := res.Unpack()
	require.NoError(t, uerr)
	require.Equal(t, "a1", data.ID)
}

func TestDoAuthShortCircuit(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	t.Run("missing token never reaches the network", func(t *testing.T) {
		c, err := gateway.NewClient(srv.URL,
			gateway.WithSessionSource(&stubSessions{token: ""}),
			gateway.WithLogger(discardLogger()),
		)
		require.NoError(t, err)

		res := gateway.Do[payload](context.Background(), c, "/v1/users", gateway.Options{
			RequiresAuth: true,
		})

		require.False(t, res.Success)
		require.Equal(t, gateway.CodeAuthTokenMissing, res.Code)
		require.Nil(t, res.Data)
		require.Equal(t, int64(0), hits.Load())
	})

	t.Run("lookup failure maps to session error", func(t *testing.T) {
		c, err := gateway.NewClient(srv.URL,
			gateway.WithSessionSource(&stubSessions{err: errors.New("boom")}),
			gateway.WithLogger(discardLogger()),
		)
		require.NoError(t, err)

		res := gateway.Do[payload](context.Background(), c, "/v1/users", gateway.Options{
			RequiresAuth: true,
		})

		require.False(t, res.Success)
		require.Equal(t, gateway.CodeSessionError, res.Code)
		require.Equal(t, int64(0), hits.Load())
	})

	t.Run("nil session source counts as no session", func(t *testing.T) {
		c, err := gateway.NewClient(srv.URL, gateway.WithLogger(discardLogger()))
		require.NoError(t, err)

		res := gateway.Do[payload](context.Background(), c, "/v1/users", gateway.Options{
			RequiresAuth: true,
		})

		require.Equal(t, gateway.CodeAuthTokenMissing, res.Code)
		require.Equal(t, int64(0), hits.Load())
	})
}

func TestDoHeaderPrecedence(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "code": "OK"})
	}))
	defer srv.Close()

	sessions := &stubSessions{token: "session-token"}
	c, err := gateway.NewClient(srv.URL,
		gateway.WithSessionSource(sessions),
		gateway.WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	res := gateway.Do[payload](context.Background(), c, "/v1/export", gateway.Options{
		RequiresAuth: true,
		Headers: map[string]string{
			"Authorization": "Bearer caller-token",
			"content-type":  "text/csv",
		},
	})

	require.True(t, res.Success)
	require.Equal(t, "Bearer caller-token", gotAuth)
	require.Equal(t, "text/csv", gotContentType)
	require.Equal(t, int64(0), sessions.calls.Load(), "explicit Authorization must skip the session lookup")
}

func TestDoCookieIsolation(t *testing.T) {
	cookies := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		cookies[auth] = r.Header.Get("Cookie")
		if auth == "Bearer user-a" {
			http.SetCookie(w, &http.Cookie{Name: "upstream_session", Value: "secret-for-a"})
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "code": "OK"})
	}))
	defer srv.Close()

	c, err := gateway.NewClient(srv.URL, gateway.WithLogger(discardLogger()))
	require.NoError(t, err)

	for _, user := range []string{"user-a", "user-b"} {
		res := gateway.Do[payload](context.Background(), c, "/v1/profile", gateway.Options{
			Headers: map[string]string{"Authorization": "Bearer " + user},
		})
		require.True(t, res.Success)
	}

	require.Empty(t, cookies["Bearer user-b"], "one caller's upstream cookie must not ride another caller's request")
}

func TestDoRequestBody(t *testing.T) {
	type loginBody struct {
		UserID   string `json:"userId"`
		Password string `json:"password"`
	}

	t.Run("non-GET sends JSON body", func(t *testing.T) {
		var got loginBody
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			json.NewEncoder(w).Encode(map[string]any{"success": true, "code": "OK"})
		}))
		defer srv.Close()

		c, err := gateway.NewClient(srv.URL, gateway.WithLogger(discardLogger()))
		require.NoError(t, err)

		res := gateway.Do[payload](context.Background(), c, "/v1/auth/login", gateway.Options{
			Method: http.MethodPost,
			Body:   loginBody{UserID: "admin", Password: "hunter2"},
		})

		require.True(t, res.Success)
		require.Equal(t, "admin", got.UserID)
		require.Equal(t, "hunter2", got.Password)
	})

	t.Run("GET ignores body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			require.Empty(t, raw)
			json.NewEncoder(w).Encode(map[string]any{"success": true, "code": "OK"})
		}))
		defer srv.Close()

		c, err := gateway.NewClient(srv.URL, gateway.WithLogger(discardLogger()))
		require.NoError(t, err)

		res := gateway.Do[payload](context.Background(), c, "/v1/animals", gateway.Options{
			Body: loginBody{UserID: "ignored"},
		})
		require.True(t, res.Success)
	})
}

func TestDoUpstreamFailure(t *testing.T) {
	t.Run("error envelope passes through verbatim", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"code":    "INVALID_CREDENTIALS",
				"message": "아이디 또는 비밀번호가 올바르지 않습니다",
			})
		}))
		defer srv.Close()

		c, err := gateway.NewClient(srv.URL, gateway.WithLogger(discardLogger()))
		require.NoError(t, err)

		res := gateway.Do[payload](context.Background(), c, "/v1/auth/login", gateway.Options{
			Method: http.MethodPost,
		})

		require.False(t, res.Success)
		require.Equal(t, "INVALID_CREDENTIALS", res.Code)
		require.Equal(t, "아이디 또는 비밀번호가 올바르지 않습니다", res.Message)
		require.Nil(t, res.Data)

		_, uerr := res.Unpack()
		var gerr *gateway.Error
		require.ErrorAs(t, uerr, &gerr)
		require.Equal(t, "INVALID_CREDENTIALS", gerr.Code)
	})

	t.Run("non-2xx with success flag set is still a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"code":    "OK",
				"data":    payload{ID: "ghost"},
			})
		}))
		defer srv.Close()

		c, err := gateway.NewClient(srv.URL, gateway.WithLogger(discardLogger()))
		require.NoError(t, err)

		res := gateway.Do[payload](context.Background(), c, "/v1/animals", gateway.Options{})
		require.False(t, res.Success)
		require.Equal(t, "OK", res.Code)
		require.Nil(t, res.Data)
	})

	t.Run("unparseable body maps to network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "<html>502 Bad Gateway</html>")
		}))
		defer srv.Close()

		c, err := gateway.NewClient(srv.URL, gateway.WithLogger(discardLogger()))
		require.NoError(t, err)

		res := gateway.Do[payload](context.Background(), c, "/v1/animals", gateway.Options{})
		require.False(t, res.Success)
		require.Equal(t, gateway.CodeNetworkError, res.Code)
	})

	t.Run("transport failure maps to network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c, err := gateway.NewClient(srv.URL, gateway.WithLogger(discardLogger()))
		require.NoError(t, err)

		res := gateway.Do[payload](context.Background(), c, "/v1/animals", gateway.Options{})
		require.False(t, res.Success)
		require.Equal(t, gateway.CodeNetworkError, res.Code)
		require.Nil(t, res.Data)
	})
}

type observerSpy struct {
	endpoint string
	method   string
	code     string
	success  bool
	calls    int
}

func (o *observerSpy) ObserveRequest(endpoint, method, code string, success bool, _ time.Duration) {
	o.endpoint = endpoint
	o.method = method
	o.code = code
	o.success = success
	o.calls++
}

func TestDoObserver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "code": "OK"})
	}))
	defer srv.Close()

	obs := &observerSpy{}
	c, err := gateway.NewClient(srv.URL,
		gateway.WithObserver(obs),
		gateway.WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	gateway.Do[payload](context.Background(), c, "/v1/animals", gateway.Options{})

	require.Equal(t, 1, obs.calls)
	require.Equal(t, "/v1/animals", obs.endpoint)
	require.Equal(t, http.MethodGet, obs.method)
	require.True(t, obs.success)
}
