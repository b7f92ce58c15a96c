package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/logind/internal/auth/http"
	"github.com/aussiebroadwan/logind/internal/auth/service"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/pkg/cryptox"
	"github.com/aussiebroadwan/logind/pkg/httpx"
	"github.com/aussiebroadwan/logind/pkg/jwtx"
	"github.com/aussiebroadwan/logind/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	signer jwtx.Signer

	// Services
	authService         *service.AuthService
	seedService         *service.SeedService
	housekeepingService *service.HousekeepingService // nil unless REFRESH_RETENTION > 0

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if jwtx.IsInsecureSecret(cfg.JWTSecret) {
		app.logger.Warn("JWT_SECRET is unset or the placeholder; access tokens can be forged")
	}
	app.signer = jwtx.NewSignerHS256(cfg.JWTSecret)

	ctx := context.Background()
	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	app.initServices()

	if cfg.SeedDemoUser {
		if _, err := app.seedService.SeedDemoUser(ctx, service.DefaultDemoUser); err != nil {
			_ = app.db.Close()
			return nil, fmt.Errorf("failed to seed demo user: %w", err)
		}
	}

	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.housekeepingService != nil {
		app.housekeepingService.Start()
	}

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingService != nil {
		app.housekeepingService.Stop()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the configured store and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, driver, err := openStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("credential store ready", "driver", driver)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	// Validate already checked the name.
	alg, _ := cryptox.ParseAlgorithm(app.cfg.PasswordAlgorithm)

	app.authService = &service.AuthService{
		Store:  app.db,
		Signer: app.signer,
		RefreshTokens: &service.RefreshTokenManager{
			Store: app.db,
			TTL:   app.cfg.RefreshTTL,
		},
		AccessTTL: app.cfg.AccessTTL,
		Algorithm: alg,
	}

	app.seedService = &service.SeedService{
		Store:     app.db,
		Algorithm: alg,
		Logger:    app.logger,
	}

	if app.cfg.RefreshRetention > 0 {
		app.housekeepingService = service.NewHousekeepingService(
			app.db,
			app.logger,
			app.cfg.HousekeepingInterval,
			app.cfg.RefreshRetention,
		)
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	if len(app.cfg.CORSOrigins) > 0 {
		router.Use(httpx.CORS(app.cfg.CORSOrigins))
	}

	router.AuthService = app.authService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
