package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/teolmungchi/admin-gateway/internal/admin/gateway"
	httpapi "github.com/teolmungchi/admin-gateway/internal/admin/http"
	"github.com/teolmungchi/admin-gateway/internal/admin/metrics"
	"github.com/teolmungchi/admin-gateway/internal/admin/service"
	"github.com/teolmungchi/admin-gateway/internal/admin/session"
	"github.com/teolmungchi/admin-gateway/internal/admin/store"
	"github.com/teolmungchi/admin-gateway/internal/admin/store/drivers/sqlite"
	"github.com/teolmungchi/admin-gateway/pkg/jwtx"
	"github.com/teolmungchi/admin-gateway/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the admin gateway with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	sessions   *session.Manager
	registry   *prometheus.Registry
	collector  *metrics.Collector

	// Upstream gateway clients
	api *gateway.Client
	ai  *gateway.Client

	// Services
	authService         *service.AuthService
	dashboardService    *service.DashboardService
	usersService        *service.UsersService
	animalsService      *service.AnimalsService
	matchingService     *service.MatchingService
	modelsService       *service.ModelsService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "admin-gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.UpstreamAPIURL == "" {
		return nil, fmt.Errorf("ADMIN_UPSTREAM_API_URL is required")
	}

	// Database first, persistent keys depend on it.
	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	keyManager, err := InitSessionKeys(ctx, app.cfg, app.db, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.keyManager = keyManager

	app.registry = prometheus.NewRegistry()
	app.collector = metrics.NewCollector(app.registry)

	sessions, err := session.NewManager(keyManager, app.db, session.Config{
		Issuer:    cfg.Issuer,
		MaxAge:    cfg.SessionMaxAge,
		UpdateAge: cfg.SessionUpdate,
	}, app.logger)
	if err != nil {
		return nil, err
	}
	app.sessions = sessions

	if err := app.initGateways(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("admin gateway starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"upstream", app.api.BaseURL(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down admin gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("admin gateway stopped")
	return nil
}

// initDatabase opens the sqlite store and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initGateways builds one client per upstream. Both read the session's
// access token off the request context.
func (app *Application) initGateways() error {
	source := session.ContextSource{}

	api, err := gateway.NewClient(app.cfg.UpstreamAPIURL,
		gateway.WithSessionSource(source),
		gateway.WithObserver(app.collector),
		gateway.WithLogger(app.logger),
	)
	if err != nil {
		return fmt.Errorf("upstream API client: %w", err)
	}
	app.api = api

	// The AI service is optional; model routes fail with NETWORK_ERROR-style
	// envelopes when it is not configured rather than blocking startup.
	aiURL := app.cfg.AIServiceURL
	if aiURL == "" {
		aiURL = app.cfg.UpstreamAPIURL
		app.logger.Warn("ADMIN_AI_API_URL not set, model routes proxy the main API")
	}

	ai, err := gateway.NewClient(aiURL,
		gateway.WithSessionSource(source),
		gateway.WithObserver(app.collector),
		gateway.WithLogger(app.logger),
	)
	if err != nil {
		return fmt.Errorf("AI service client: %w", err)
	}
	app.ai = ai

	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		API:      app.api,
		Store:    app.db,
		Sessions: app.sessions,
	}

	app.dashboardService = &service.DashboardService{API: app.api}
	app.usersService = &service.UsersService{API: app.api}
	app.animalsService = &service.AnimalsService{API: app.api}
	app.matchingService = &service.MatchingService{API: app.api}
	app.modelsService = &service.ModelsService{AI: app.ai}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	app.housekeepingService.SessionMaxAge = app.cfg.SessionMaxAge
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager,
		app.sessions,
		BuildVersion,
		app.db,
		app.registry,
		app.collector,
		app.logger,
	)

	router.CookieMaxAge = app.cfg.SessionMaxAge
	router.SecureCookies = app.cfg.SecureCookies

	router.AuthService = app.authService
	router.DashboardService = app.dashboardService
	router.UsersService = app.usersService
	router.AnimalsService = app.animalsService
	router.MatchingService = app.matchingService
	router.ModelsService = app.modelsService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
