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

	httpapi "github.com/aussiebroadwan/rcs/internal/rcs/http"
	"github.com/aussiebroadwan/rcs/internal/rcs/metrics"
	"github.com/aussiebroadwan/rcs/internal/rcs/service"
	"github.com/aussiebroadwan/rcs/internal/rcs/store"
	"github.com/aussiebroadwan/rcs/internal/rcs/store/drivers/postgres"
	"github.com/aussiebroadwan/rcs/internal/rcs/store/drivers/sqlite"
	"github.com/aussiebroadwan/rcs/pkg/jwtx"
	"github.com/aussiebroadwan/rcs/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the consent service and owns its lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	metrics    *metrics.Metrics

	// Services
	directoryService    *service.DirectoryService
	registry            *service.Registry
	detailsService      *service.DetailsService
	decisionService     *service.DecisionService
	housekeepingService *service.HousekeepingService

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
			Service: "rcs",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}
	slog.SetDefault(app.logger)

	ctx := context.Background()
	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	keyManager, err := InitDecisionKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keyManager = keyManager

	app.initServices()

	if app.cfg.SeedFile != "" {
		seed, err := LoadSeed(ctx, app.directoryService, app.cfg.SeedFile)
		if err != nil {
			_ = app.db.Close()
			return nil, fmt.Errorf("failed to load seed file: %w", err)
		}
		app.logger.Info("directory seeded",
			"path", app.cfg.SeedFile,
			"users", len(seed.Users),
			"api_clients", len(seed.APIClients),
			"accounts", len(seed.Accounts),
		)
	}

	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired router.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("rcs starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
		"intent_types", app.registry.IntentTypes(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.db.Close()
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down rcs...")

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

	app.logger.Info("rcs stopped")
	return nil
}

// initDatabase opens the configured store driver and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.StoreDriver {
	case "postgres":
		db, err = postgres.Open(ctx, postgres.DefaultConfig(app.cfg.PostgresDSN))
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.StoreDriver)
	return nil
}

// initServices builds one consent service per family and the services that
// sit on top of the registry.
func (app *Application) initServices() {
	app.directoryService = &service.DirectoryService{Store: app.db}

	var handlers []service.ConsentHandler
	for _, f := range service.Families() {
		handlers = append(handlers, &service.ConsentService{
			Store:                 app.db,
			Family:                f,
			Accounts:              app.directoryService,
			Metrics:               app.metrics,
			DefaultIdempotencyTTL: app.cfg.IdempotencyDefaultTTL,
		})
	}
	app.registry = service.NewRegistry(app.cfg.EnabledIntentTypes, handlers...)

	app.detailsService = &service.DetailsService{
		Registry:            app.registry,
		Users:               app.directoryService,
		APIClients:          app.directoryService,
		ServiceProviderName: app.cfg.ServiceProviderName,
	}
	app.decisionService = &service.DecisionService{
		Registry: app.registry,
		Keys:     app.keyManager,
		Issuer:   app.cfg.Issuer,
		TTL:      app.cfg.DecisionTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager,
		BuildVersion,
		app.db,
		app.metrics,
		app.logger,
	)

	router.Registry = app.registry
	router.Details = app.detailsService
	router.Decisions = app.decisionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
