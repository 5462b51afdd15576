package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpapi "github.com/marinoscar/accountd/internal/accounts/http"
	"github.com/marinoscar/accountd/internal/accounts/oauth"
	"github.com/marinoscar/accountd/internal/accounts/service"
	"github.com/marinoscar/accountd/internal/accounts/store"
	"github.com/marinoscar/accountd/internal/accounts/store/drivers/sqlite"
	"github.com/marinoscar/accountd/pkg/jwtx"
	"github.com/marinoscar/accountd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the accounts service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	oauth      *oauth.Manager

	// Services
	provisionService    *service.ProvisionService
	tokenService        *service.TokenService
	accountsService     *service.AccountsService
	rolesService        *service.RolesService
	authzService        *service.AuthzService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "accountd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Initialize database first (required for persistent keys)
	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	// Initialize JWT key manager (after database for persistent mode)
	ctx := context.Background()
	keyManager, err := InitSigningKeys(ctx, app.cfg, app.db, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keyManager = keyManager

	app.initOAuth()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("accounts service starting", "port", app.cfg.Port, "version", BuildVersion)

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
		if err != nil && err != http.ErrServerClosed {
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
	app.logger.Info("shutting down accounts service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("accounts service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
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

// initOAuth configures the external identity providers. A provider with
// missing credentials simply isn't offered.
func (app *Application) initOAuth() {
	redirectURL := strings.TrimSuffix(app.cfg.PublicBaseURL, "/") + "/v1/login/callback"

	app.oauth = oauth.NewManager(redirectURL,
		oauth.Credentials{
			ClientID:     app.cfg.GoogleClientID,
			ClientSecret: app.cfg.GoogleClientSecret,
		},
		oauth.Credentials{
			ClientID:     app.cfg.GitHubClientID,
			ClientSecret: app.cfg.GitHubClientSecret,
		},
	)

	if !app.oauth.Has("google") && !app.oauth.Has("github") {
		app.logger.Warn("no identity provider configured - login is unavailable")
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		KeyManager: app.keyManager,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		Audience:   app.cfg.Audience,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}

	app.provisionService = &service.ProvisionService{
		Store:       app.db,
		Bootstrap:   &service.BootstrapPolicy{AdminEmail: app.cfg.BootstrapAdminEmail},
		DefaultRole: app.cfg.DefaultRole,
	}

	app.authzService = &service.AuthzService{Store: app.db}
	app.rolesService = &service.RolesService{Store: app.db}
	app.accountsService = &service.AccountsService{
		Store: app.db,
		Authz: app.authzService,
		Token: app.tokenService,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.RevokedRetention,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.cfg.SecureCookies,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.OAuth = app.oauth
	router.ProvisionService = app.provisionService
	router.TokenService = app.tokenService
	router.AccountsService = app.accountsService
	router.RolesService = app.rolesService
	router.AuthzService = app.authzService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
