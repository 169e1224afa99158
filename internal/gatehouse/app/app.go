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

	httpapi "github.com/arborlabs/gatehouse/internal/gatehouse/http"
	"github.com/arborlabs/gatehouse/internal/gatehouse/service"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store/drivers/memory"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store/drivers/postgres"
	redisdriver "github.com/arborlabs/gatehouse/internal/gatehouse/store/drivers/redis"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store/drivers/sqlite"
	"github.com/arborlabs/gatehouse/pkg/cryptox"
	"github.com/arborlabs/gatehouse/pkg/jwtx"
	"github.com/arborlabs/gatehouse/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	hasher  *cryptox.Hasher
	signer  *jwtx.HS256
	closers []func() error
	pingers []store.Pinger

	// Stores
	credentials store.Credentials
	revoked     store.RevokedTokens
	challenges  store.Challenges

	// Services
	sessionService *service.SessionService
	authService    *service.AuthService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gatehouse",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	app.hasher = cryptox.NewHasher(cfg.HashWorkers)

	secret, err := loadOrGenerateSecret(cfg.JWTSecretFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing secret: %w", err)
	}
	signer, err := jwtx.NewHS256(secret, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signer: %w", err)
	}
	app.signer = signer

	if err := app.initStores(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("gatehouse starting",
		"port", app.cfg.Port, "backend", app.cfg.Backend, "version", BuildVersion)

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

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gatehouse...")

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

	// Drain the hashing workers
	app.hasher.Close()

	// Close backing stores
	var firstErr error
	for _, close := range app.closers {
		if err := close(); err != nil {
			app.logger.Error("error closing store", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	app.logger.Info("gatehouse stopped")
	return firstErr
}

// initStores wires the storage backend. The memory backend keeps all state
// in process and is meant for development and tests. The external backend
// keeps credentials in a relational database and short-lived state in Redis.
func (app *Application) initStores() error {
	if app.cfg.Backend != "external" {
		app.credentials = memory.NewCredentialStore(app.hasher)
		app.revoked = memory.NewRevokedTokenStore()
		app.challenges = memory.NewChallengeStore(app.cfg.ChallengeTTL)
		return nil
	}

	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err := postgres.NewStore(context.Background(), app.cfg.DatabaseURL, app.hasher)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.credentials = db.Credentials()
		app.closers = append(app.closers, db.Close)
		app.pingers = append(app.pingers, db)
	default:
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn, app.hasher)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.credentials = db.Credentials()
		app.closers = append(app.closers, db.Close)
		app.pingers = append(app.pingers, db)
	}

	cache := redisdriver.NewStore(app.cfg.RedisAddr)
	app.revoked = cache.RevokedTokens()
	app.challenges = cache.Challenges(app.cfg.ChallengeTTL)
	app.closers = append(app.closers, cache.Close)
	app.pingers = append(app.pingers, cache)

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Signer:   app.signer,
		Revoked:  app.revoked,
		TokenTTL: app.cfg.TokenTTL,
	}

	app.authService = &service.AuthService{
		Credentials: app.credentials,
		Challenges:  app.challenges,
		Sessions:    app.sessionService,
		Hasher:      app.hasher,
		Sender:      service.LogCodeSender{},
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.logger, app.pingers...)
	router.AuthService = app.authService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
