// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammarques/stockroom-be/internal/adapters/db"
	redis_a "github.com/ammarques/stockroom-be/internal/adapters/redis_adapter"
	"github.com/ammarques/stockroom-be/internal/adapters/storage"
	"github.com/ammarques/stockroom-be/internal/core/ports"
	"github.com/ammarques/stockroom-be/internal/core/services"
	"github.com/ammarques/stockroom-be/internal/handlers"
	"github.com/ammarques/stockroom-be/internal/handlers/middleware"
	"github.com/ammarques/stockroom-be/internal/pkg/config"
	"github.com/ammarques/stockroom-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	// Initialize structured logger
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting stockroom inventory service",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	// Load configuration
	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	// Create application context
	ctx := context.Background()

	// Initialize dependencies
	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Run database migrations if enabled
	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	// Setup HTTP server
	server := setupHTTPServer(cfg, deps, slogger)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		// Gracefully shutdown HTTP server
		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		// Stop Asynq client
		if deps.asynqClient != nil {
			if err := deps.asynqClient.Close(); err != nil {
				slogger.Error("failed to close Asynq client", slog.String("error", err.Error()))
			}
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       ports.Database
	redisClient    *redis.Client
	redisCache     ports.CacheRepository
	cacheManager   *redis_a.CacheManager
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector

	catalogService *services.CatalogService
	ledgerService  *services.LedgerService
	requestService *services.RequestService

	catalogHandler   *handlers.CatalogHandler
	ledgerHandler    *handlers.LedgerHandler
	requestHandler   *handlers.RequestHandler
	healthHandler    *handlers.HealthHandler
	dashboardHandler *handlers.DashboardHandler
	exportHandler    *handlers.ExportHandler
	importHandler    *handlers.ImportHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Initialize database connection
	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	// Initialize Redis client
	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisOpts := &redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		ConnMaxLifetime: cfg.Redis.MaxConnAge,
		PoolTimeout:     cfg.Redis.PoolTimeout,
		ConnMaxIdleTime: cfg.Redis.IdleTimeout,
	}

	redisClient := redis.NewClient(redisOpts)

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	// Create Redis cache wrapper and the invalidation manager for mutations
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)
	deps.cacheManager = redis_a.NewCacheManager(deps.redisCache, logger)

	// Initialize Asynq client
	logger.Info("initializing Asynq client")

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	asynqClient := asynq.NewClient(asynqRedisOpt)
	deps.asynqClient = asynqClient

	asynqInspector := asynq.NewInspector(asynqRedisOpt)
	deps.asynqInspector = asynqInspector

	// Initialize object storage for item images
	logger.Info("initializing object storage",
		slog.String("bucket", cfg.AWS.S3Bucket))

	s3Storage, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Bucket:          cfg.AWS.S3Bucket,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	imageStore := storage.NewImageStore(s3Storage, logger)

	// Initialize repositories
	itemRepo := db.NewItemRepository(database, logger)
	movementRepo := db.NewMovementRepository(database, logger)
	ledgerRepo := db.NewLedgerRepository(database, logger)
	requestRepo := db.NewRequestRepository(database, logger)

	// Initialize services
	deps.catalogService = services.NewCatalogService(itemRepo, movementRepo, imageStore, logger)
	deps.ledgerService = services.NewLedgerService(ledgerRepo, movementRepo, requestRepo, logger)
	deps.requestService = services.NewRequestService(requestRepo, logger)

	// Initialize handlers
	deps.catalogHandler = handlers.NewCatalogHandler(deps.catalogService, logger)
	deps.ledgerHandler = handlers.NewLedgerHandler(deps.ledgerService, deps.cacheManager, logger)
	deps.requestHandler = handlers.NewRequestHandler(deps.requestService, logger)
	deps.healthHandler = handlers.NewHealthHandler(
		database,
		redisClient,
		asynqInspector,
		cfg,
		logger,
	)
	deps.dashboardHandler = handlers.NewDashboardHandler(database, deps.redisCache, logger)
	deps.exportHandler = handlers.NewExportHandler(deps.ledgerService, deps.redisCache, logger)

	maxFileSize := int64(cfg.FileProcessing.ExcelMaxSizeMB) * 1024 * 1024
	deps.importHandler = handlers.NewImportHandler(asynqClient, asynqInspector, logger, maxFileSize, cfg.FileProcessing.TempDir)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	// Create new ServeMux using Go 1.22+ features
	mux := http.NewServeMux()

	// Setup middleware chain
	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	if cfg.Server.WriteTimeout > 0 {
		handler = middleware.Timeout(cfg.Server.WriteTimeout)(handler)
	}

	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(logger)(handler)
		handler = middleware.Recovery(logger)(handler)
	}

	handler = middleware.Compression(handler)

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	// Register routes using Go 1.22 method-specific routing
	registerRoutes(mux, deps, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return server
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Routes that mutate state or act on behalf of a caller require the
	// identity headers set by the authenticating proxy.
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.Session(h)
	}

	// Health and readiness endpoints
	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET /health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)
	}

	// Item catalog endpoints
	mux.HandleFunc("GET "+apiV1+"/items", deps.catalogHandler.ListItems)
	mux.HandleFunc("GET "+apiV1+"/items/{id}", deps.catalogHandler.GetItem)
	mux.Handle("POST "+apiV1+"/items", authed(deps.catalogHandler.CreateItem))
	mux.Handle("PATCH "+apiV1+"/items/{id}", authed(deps.catalogHandler.UpdateItem))
	mux.Handle("DELETE "+apiV1+"/items/{id}", authed(deps.catalogHandler.DeleteItem))
	mux.HandleFunc("GET "+apiV1+"/items/next-code", deps.catalogHandler.NextCode)

	// Movement ledger endpoints
	mux.Handle("POST "+apiV1+"/movements/entry", authed(deps.ledgerHandler.RecordEntry))
	mux.Handle("POST "+apiV1+"/movements/exit", authed(deps.ledgerHandler.RecordExit))
	mux.Handle("POST "+apiV1+"/movements/return", authed(deps.ledgerHandler.RecordReturn))
	mux.HandleFunc("GET "+apiV1+"/movements", deps.ledgerHandler.ListMovements)
	mux.HandleFunc("GET "+apiV1+"/items/{id}/movements", deps.ledgerHandler.ItemMovements)
	mux.HandleFunc("GET "+apiV1+"/items/{id}/batches", deps.ledgerHandler.ItemBatches)

	// Request workflow endpoints
	mux.Handle("POST "+apiV1+"/requests", authed(deps.requestHandler.Submit))
	mux.HandleFunc("GET "+apiV1+"/requests/pending", deps.requestHandler.ListPending)
	mux.Handle("GET "+apiV1+"/requests/history", authed(deps.requestHandler.History))
	mux.HandleFunc("GET "+apiV1+"/requests/{id}", deps.requestHandler.Get)
	mux.Handle("POST "+apiV1+"/requests/{id}/approve", authed(deps.requestHandler.Approve))
	mux.Handle("POST "+apiV1+"/requests/{id}/reject", authed(deps.requestHandler.Reject))

	// Import endpoints
	mux.Handle("POST "+apiV1+"/import/excel", authed(deps.importHandler.ImportExcel))
	mux.HandleFunc("GET "+apiV1+"/import/status/{jobId}", deps.importHandler.ImportStatus)

	// Export endpoints
	mux.HandleFunc("GET "+apiV1+"/export/movements/excel", deps.exportHandler.ExportExcel)
	mux.HandleFunc("GET "+apiV1+"/export/movements/json", deps.exportHandler.ExportJSON)

	// Dashboard endpoints
	mux.HandleFunc("GET "+apiV1+"/dashboard", deps.dashboardHandler.GetDashboard)
	mux.HandleFunc("GET "+apiV1+"/dashboard/consumption", deps.dashboardHandler.GetConsumption)

	// pprof endpoints (development only)
	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
