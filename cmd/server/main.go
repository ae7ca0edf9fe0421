package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appevent "github.com/acme/invoicing/internal/application/event"
	financeapp "github.com/acme/invoicing/internal/application/finance"
	identityapp "github.com/acme/invoicing/internal/application/identity"
	partnerapp "github.com/acme/invoicing/internal/application/partner"
	"github.com/acme/invoicing/internal/infrastructure/auth"
	"github.com/acme/invoicing/internal/infrastructure/cache"
	"github.com/acme/invoicing/internal/infrastructure/config"
	"github.com/acme/invoicing/internal/infrastructure/event"
	"github.com/acme/invoicing/internal/infrastructure/logger"
	"github.com/acme/invoicing/internal/infrastructure/migration"
	"github.com/acme/invoicing/internal/infrastructure/persistence"
	"github.com/acme/invoicing/internal/infrastructure/scheduler"
	"github.com/acme/invoicing/internal/infrastructure/telemetry"
	"github.com/acme/invoicing/internal/interfaces/http/handler"
	"github.com/acme/invoicing/internal/interfaces/http/middleware"
	"github.com/acme/invoicing/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	shutdownTimeout         = 30 * time.Second
	revocationPurgeInterval = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromAppConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoicing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithParameterizedQueries(cfg.IsProduction()),
	)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}

	// sqlite is the local development driver; bring its schema up on start
	if cfg.Database.Driver == "sqlite" {
		if err := migrateSQLite(cfg.Database, log); err != nil {
			log.Fatal("Failed to migrate sqlite database", zap.Error(err))
		}
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.NewDBTracing(cfg.Telemetry, dbSystem(cfg.Database.Driver), log).Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	var (
		metrics  *telemetry.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Telemetry.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = telemetry.NewMetrics(reg)
		if err := metrics.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		}
		gatherer = reg
	}

	housekeeping := scheduler.New(log)

	// Redis backs session revocation and cross-instance cache invalidation.
	// Without it both stay local to this process.
	var (
		blacklist   auth.TokenBlacklist
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		local := auth.NewInMemoryTokenBlacklist()
		blacklist = local
		mustAdd(housekeeping, scheduler.SweepTask("session-revocations", revocationPurgeInterval, local.Purge, log), log)
	}

	listings := cache.NewListingCache(
		cache.WithListingTTL(cfg.Cache.ListingTTL),
		cache.WithListingLogger(log),
	)
	var remotes []appevent.PathInvalidator
	if redisClient != nil {
		peers := cache.NewRedisPathInvalidator(redisClient, cfg.Cache.InvalidationChannel, log)
		remotes = append(remotes, peers)
		go func() {
			err := peers.Subscribe(ctx, func(ctx context.Context, path string) {
				_ = listings.Invalidate(ctx, path)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Cache invalidation subscription ended", zap.Error(err))
			}
		}()
		defer func() {
			_ = peers.Close()
		}()
	}
	mustAdd(housekeeping, scheduler.SweepTask("listing-cache", cfg.Cache.ListingTTL, listings.Sweep, log), log)
	invalidator := cache.NewFanoutInvalidator(listings, cfg.Cache.PublishTimeout, log, remotes...)
	defer invalidator.Wait()

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(appevent.NewRevalidationHandler(invalidator, log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		_ = eventBus.Stop(context.Background())
	}()

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, eventBus, listings, log)
	customerService := partnerapp.NewCustomerService(customerRepo, eventBus, listings, log)
	userService := identityapp.NewUserService(userRepo, eventBus, log)
	authService := identityapp.NewAuthService(
		identityapp.NewCredentialVerifier(userRepo, log),
		jwtService,
		blacklist,
		log,
	)

	// Handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	customerHandler := handler.NewCustomerHandler(customerService)
	authHandler := handler.NewAuthHandler(authService, userService, cfg.Cookie)
	if metrics != nil {
		invoiceHandler.SetMetrics(metrics)
		customerHandler.SetMetrics(metrics)
		authHandler.SetMetrics(metrics)
	}

	var authLimiter *middleware.RateLimiter
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		mustAdd(housekeeping, scheduler.SweepTask("auth-rate-limiter", cfg.HTTP.AuthRateLimitWindow, authLimiter.Cleanup, log), log)
	}

	housekeeping.Start(ctx)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := housekeeping.Stop(stopCtx); err != nil {
			log.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := router.Dependencies{
		Config:      cfg,
		Logger:      log,
		Gatherer:    gatherer,
		Sessions:    jwtService,
		Blacklist:   blacklist,
		AuthLimiter: authLimiter,
		Health:      handler.NewHealthHandler(db),
		Auth:        authHandler,
		Invoices:    invoiceHandler,
		Customers:   customerHandler,
	}
	if metrics != nil {
		deps.Metrics = metrics
	}
	engine, err := router.NewEngine(deps)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// migrateSQLite runs pending migrations over a separate connection, since
// closing the migrator closes the connection it was given.
func migrateSQLite(cfg config.DatabaseConfig, log *zap.Logger) error {
	conn, err := sql.Open("sqlite3", cfg.SQLiteDSN())
	if err != nil {
		return err
	}
	m, err := migration.New(conn, cfg.Driver, log)
	if err != nil {
		_ = conn.Close()
		return err
	}
	if err := m.Up(); err != nil {
		_ = m.Close()
		return err
	}
	return m.Close()
}

func mustAdd(s *scheduler.Scheduler, task scheduler.Task, log *zap.Logger) {
	if err := s.Add(task); err != nil {
		log.Fatal("Invalid scheduled task", zap.String("task", task.Name), zap.Error(err))
	}
}

// dbSystem maps the configured driver to the otel db.system value
func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}
