package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/teolmungchi/admin-gateway/internal/admin/metrics"
	"github.com/teolmungchi/admin-gateway/internal/admin/service"
	"github.com/teolmungchi/admin-gateway/internal/admin/session"
	"github.com/teolmungchi/admin-gateway/internal/admin/store"
	"github.com/teolmungchi/admin-gateway/pkg/httpx"
	"github.com/teolmungchi/admin-gateway/pkg/jwtx"
	"github.com/teolmungchi/admin-gateway/pkg/slogx"

	_ "github.com/teolmungchi/admin-gateway/api/admin" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	sessions     *session.Manager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	registry *prometheus.Registry
	metrics  *metrics.Collector

	CookieMaxAge  time.Duration
	SecureCookies bool

	AuthService      *service.AuthService
	DashboardService *service.DashboardService
	UsersService     *service.UsersService
	AnimalsService   *service.AnimalsService
	MatchingService  *service.MatchingService
	ModelsService    *service.ModelsService
}

func NewRouter(
	keys *jwtx.KeyManager,
	sessions *session.Manager,
	buildVersion string,
	st store.Store,
	registry *prometheus.Registry,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		sessions:     sessions,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		registry:     registry,
		metrics:      collector,
		logger:       logger,
		CookieMaxAge: jwtx.DefaultSessionTTL,
	}

	// Session resolution runs on every request, after request logging.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	// SessionMiddleware is appended here rather than in NewRouter so the
	// caller can finish wiring the session manager first.
	r.middlewares = append(r.middlewares,
		SessionMiddleware(r.sessions, r.CookieMaxAge, r.SecureCookies),
	)

	r.registerSession()
	r.registerDashboard()
	r.registerUsers()
	r.registerAnimals()
	r.registerMatching()
	r.registerModels()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Teolmungchi Admin Gateway API
//	@version		0.1.0
//	@description	Backend-for-frontend for the lost-pet admin dashboard. Proxies the
//	@description	upstream REST API and the AI matching service behind a cookie session.
//
//	@contact.name	Teolmungchi Team
//	@contact.url	https://github.com/teolmungchi/admin-gateway
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		Auth:          r.AuthService,
		Metrics:       r.metrics,
		CookieMaxAge:  r.CookieMaxAge,
		SecureCookies: r.SecureCookies,
	}

	// POST /session - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("DELETE /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

// secured wraps a handler with the standard protections for proxied
// resources: a resolved session plus a per-user rate limit.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		RequireSession,
		httpx.RateLimitByUser(limit),
	)
}

// adminOnly additionally enforces the ADMIN role.
func (r *Router) adminOnly(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		RequireSession,
		httpx.RequireRole("ADMIN"),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerDashboard() {
	h := &DashboardHandler{Dashboard: r.DashboardService}

	r.Mux.Handle("GET /v1/dashboard", r.secured(http.HandlerFunc(h.HandleStats), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/dashboard/recent", r.secured(http.HandlerFunc(h.HandleRecent), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/dashboard/activity", r.secured(http.HandlerFunc(h.HandleActivity), httpx.LenientLimit))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Users: r.UsersService}

	r.Mux.Handle("GET /v1/users", r.adminOnly(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/users/stats", r.adminOnly(http.HandlerFunc(h.HandleStats), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/users/{id}", r.adminOnly(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/users/{id}", r.adminOnly(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/users/{id}", r.adminOnly(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerAnimals() {
	h := &AnimalsHandler{Animals: r.AnimalsService}

	r.Mux.Handle("GET /v1/animals", r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
}

func (r *Router) registerMatching() {
	h := &MatchingHandler{Matching: r.MatchingService}

	r.Mux.Handle("GET /v1/matching/history", r.secured(http.HandlerFunc(h.HandleHistory), httpx.LenientLimit))
}

func (r *Router) registerModels() {
	h := &ModelsHandler{Models: r.ModelsService}

	r.Mux.Handle("GET /v1/models", r.adminOnly(http.HandlerFunc(h.HandleVersions), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/models/current/{type}", r.adminOnly(http.HandlerFunc(h.HandleCurrent), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/models/deploy", r.adminOnly(http.HandlerFunc(h.HandleDeploy), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/models/train", r.adminOnly(http.HandlerFunc(h.HandleTrain), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/models/jobs/{id}", r.adminOnly(http.HandlerFunc(h.HandleJob), httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))

	if r.registry != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.registry))
	}
}
