package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	adminhttp "github.com/teolmungchi/admin-gateway/internal/admin/http"
	"github.com/teolmungchi/admin-gateway/internal/admin/gateway"
	"github.com/teolmungchi/admin-gateway/internal/admin/metrics"
	"github.com/teolmungchi/admin-gateway/internal/admin/service"
	"github.com/teolmungchi/admin-gateway/internal/admin/session"
	"github.com/teolmungchi/admin-gateway/internal/admin/store/drivers/sqlite"
	"github.com/teolmungchi/admin-gateway/pkg/jwtx"
)

// fakeUpstream serves the endpoints the gateway proxies, echoing whether the
// bearer token arrived.
type fakeUpstream struct {
	role string

	lastEditedID   string
	lastEditedRole string
}

func (u *fakeUpstream) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID   string `json:"userId"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false, "code": "INVALID_CREDENTIALS", "message": "nope",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "code": "OK",
			"data": map[string]string{"accessToken": "tok-1", "refreshToken": "tok-2"},
		})
	})

	mux.HandleFunc("GET /v1/user", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "code": "OK",
			"data": map[string]any{
				"data":            map[string]string{"id": "u-1", "name": "관리자"},
				"login_id":        "admin",
				"profileImageUrl": "",
				"role":            u.role,
			},
		})
	})

	mux.HandleFunc("GET /v1/admin/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false, "code": "UNAUTHORIZED", "message": "bad token",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "code": "OK",
			"data": map[string]any{"totalUsers": 7},
		})
	})

	mux.HandleFunc("GET /v1/admin/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "code": "OK",
			"data": map[string]any{"users": []any{}, "total": 0, "page": 1, "size": 20},
		})
	})

	mux.HandleFunc("PUT /v1/admin/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		u.lastEditedID = r.PathValue("id")
		u.lastEditedRole, _ = body["role"].(string)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "code": "OK"})
	})

	return mux
}

func newTestRouter(t *testing.T, up *fakeUpstream, cfg session.Config) *adminhttp.Router {
	t.Helper()

	srv := httptest.NewServer(up.handler())
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	keys, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: cfg.Issuer})
	require.NoError(t, err)

	sessions, err := session.NewManager(keys, st, cfg, logger)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	api, err := gateway.NewClient(srv.URL,
		gateway.WithSessionSource(session.ContextSource{}),
		gateway.WithObserver(collector),
		gateway.WithLogger(logger),
	)
	require.NoError(t, err)

	router := adminhttp.NewRouter(keys, sessions, "test", st, registry, collector, logger)
	router.AuthService = &service.AuthService{API: api, Store: st, Sessions: sessions}
	router.DashboardService = &service.DashboardService{API: api}
	router.UsersService = &service.UsersService{API: api}
	router.AnimalsService = &service.AnimalsService{API: api}
	router.MatchingService = &service.MatchingService{API: api}
	router.ModelsService = &service.ModelsService{AI: api}
	router.ApplyRoutes()

	return router
}

func login(t *testing.T, router *adminhttp.Router, password string) (*http.Cookie, *httptest.ResponseRecorder) {
	t.Helper()

	body := strings.NewReader(`{"userId":"admin","password":"` + password + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/session", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c, rec
		}
	}
	return nil, rec
}

func TestSessionEndpoints(t *testing.T) {
	t.Run("login sets an HttpOnly cookie and hides the access token", func(t *testing.T) {
		router := newTestRouter(t, &fakeUpstream{role: "ADMIN"}, session.Config{Issuer: "admin-gateway"})

		cookie, rec := login(t, router, "hunter2")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, cookie)
		require.True(t, cookie.HttpOnly)

		var env adminhttp.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.True(t, env.Success)
		require.NotContains(t, rec.Body.String(), "tok-1")
	})

	t.Run("bad credentials are denied uniformly", func(t *testing.T) {
		router := newTestRouter(t, &fakeUpstream{role: "ADMIN"}, session.Config{Issuer: "admin-gateway"})

		cookie, rec := login(t, router, "wrong")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Nil(t, cookie)
		require.Contains(t, rec.Body.String(), "AUTHENTICATION_FAILED")
	})

	t.Run("whoami echoes the session", func(t *testing.T) {
		router := newTestRouter(t, &fakeUpstream{role: "ADMIN"}, session.Config{Issuer: "admin-gateway"})
		cookie, _ := login(t, router, "hunter2")
		require.NotNil(t, cookie)

		req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"userId":"u-1"`)
		require.Contains(t, rec.Body.String(), `"role":"ADMIN"`)
	})

	t.Run("whoami without a cookie is 401", func(t *testing.T) {
		router := newTestRouter(t, &fakeUpstream{role: "ADMIN"}, session.Config{Issuer: "admin-gateway"})

		req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		router := newTestRouter(t, &fakeUpstream{role: "ADMIN"}, session.Config{Issuer: "admin-gateway"})
		cookie, _ := login(t, router, "hunter2")
		require.NotNil(t, cookie)

		req := httptest.NewRequest(http.MethodDelete, "/v1/session", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		// The old cookie no longer resolves.
		req = httptest.NewRequest(http.MethodGet, "/v1/session", nil)
		req.AddCookie(cookie)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("aged sessions are silently reissued", func(t *testing.T) {
		router := newTestRouter(t, &fakeUpstream{role: "ADMIN"}, session.Config{
			Issuer:    "admin-gateway",
			UpdateAge: time.Nanosecond,
		})
		cookie, _ := login(t, router, "hunter2")
		require.NotNil(t, cookie)

		time.Sleep(time.Millisecond)

		req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var reissued *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == session.CookieName && c.Value != "" {
				reissued = c
			}
		}
		require.NotNil(t, reissued, "expected a fresh session cookie")
		require.NotEqual(t, cookie.Value, reissued.Value)
	})
}

func TestProxiedResources(t *testing.T) {
	t.Run("dashboard rides the session's upstream token", func(t *testing.T) {
		router := newTestRouter(t, &fakeUpstream{role: "ADMIN"}, session.Config{Issuer: "admin-gateway"})
		cookie, _ := login(t, router, "hunter2")
		require.NotNil(t, cookie)

		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"totalUsers":7`)
	})

	t.Run("no session is refused before any proxying", func(t *testing.T) {
		router := newTestRouter(t, &fakeUpstream{role: "ADMIN"}, session.Config{Issuer: "admin-gateway"})

		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("member management needs the ADMIN role", func(t *testing.T) {
		router := newTestRouter(t, &fakeUpstream{role: "USER"}, session.Config{Issuer: "admin-gateway"})
		cookie, _ := login(t, router, "hunter2")
		require.NotNil(t, cookie)

		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admins reach member management", func(t *testing.T) {
		router := newTestRouter(t, &fakeUpstream{role: "ADMIN"}, session.Config{Issuer: "admin-gateway"})
		cookie, _ := login(t, router, "hunter2")
		require.NotNil(t, cookie)

		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("member edits reach the upstream", func(t *testing.T) {
		up := &fakeUpstream{role: "ADMIN"}
		router := newTestRouter(t, up, session.Config{Issuer: "admin-gateway"})
		cookie, _ := login(t, router, "hunter2")
		require.NotNil(t, cookie)

		body := strings.NewReader(`{"name":"홍길동","email":"hong@example.com","active":true,"role":"ADMIN"}`)
		req := httptest.NewRequest(http.MethodPut, "/v1/users/u-9", body)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "u-9", up.lastEditedID)
		require.Equal(t, "ADMIN", up.lastEditedRole)
	})

	t.Run("unknown roles are rejected before proxying", func(t *testing.T) {
		up := &fakeUpstream{role: "ADMIN"}
		router := newTestRouter(t, up, session.Config{Issuer: "admin-gateway"})
		cookie, _ := login(t, router, "hunter2")
		require.NotNil(t, cookie)

		body := strings.NewReader(`{"name":"x","email":"x@example.com","active":true,"role":"ROOT"}`)
		req := httptest.NewRequest(http.MethodPut, "/v1/users/u-9", body)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Empty(t, up.lastEditedID)
	})
}

func TestSystemEndpoints(t *testing.T) {
	router := newTestRouter(t, &fakeUpstream{role: "ADMIN"}, session.Config{Issuer: "admin-gateway"})

	t.Run("livez", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("readyz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("metrics expose login counters", func(t *testing.T) {
		login(t, router, "hunter2")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "admin_gateway_sessions_issued_total")
	})
}
