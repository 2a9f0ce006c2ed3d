package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appcart "github.com/pantryfresh/backend/internal/application/cart"
	appcatalog "github.com/pantryfresh/backend/internal/application/catalog"
	apporder "github.com/pantryfresh/backend/internal/application/order"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/domain/shared/valueobject"
	"github.com/pantryfresh/backend/internal/infrastructure/auth"
	"github.com/pantryfresh/backend/internal/infrastructure/cache"
	"github.com/pantryfresh/backend/internal/infrastructure/config"
	"github.com/pantryfresh/backend/internal/infrastructure/event"
	"github.com/pantryfresh/backend/internal/infrastructure/logger"
	"github.com/pantryfresh/backend/internal/infrastructure/migration"
	"github.com/pantryfresh/backend/internal/infrastructure/persistence"
	"github.com/pantryfresh/backend/internal/infrastructure/telemetry"
	"github.com/pantryfresh/backend/internal/interfaces/http/handler"
	"github.com/pantryfresh/backend/internal/interfaces/http/middleware"
	"github.com/pantryfresh/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	migrateOnStart := flag.Bool("migrate", false, "Apply pending database migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		Service:     cfg.App.Name,
		Environment: cfg.App.Env,
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// OTLP log export needs a logger to report its own setup, so the final
	// logger is rebuilt with the bridge core once the provider exists.
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log := bootLog
	if logProvider.Enabled() {
		level, err := logger.ParseLevel(cfg.Telemetry.LogsLevel)
		if err != nil {
			bootLog.Fatal("Invalid telemetry.logs_level", zap.Error(err))
		}
		log, err = logger.New(logCfg, logProvider.ZapCore(cfg.Telemetry.ServiceName, level))
		if err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting PantryFresh storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.Enabled() && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.Open(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingOptions{
			DBName:          cfg.Database.DBName,
			IncludeSQLVars:  cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	sqlDB, err := db.SQL()
	if err != nil {
		log.Fatal("Failed to access sql.DB", zap.Error(err))
	}
	meter := meterProvider.Meter("pantryfresh")
	poolMetrics, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB)
	if err != nil {
		log.Fatal("Failed to register database pool metrics", zap.Error(err))
	}

	if *migrateOnStart {
		if err := applyMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		var client redis.UniversalClient
		if redisClient != nil {
			client = redisClient
		}
		idempotencyStore, err = cache.NewIdempotencyStore(cfg.Idempotency, client, log)
		if err != nil {
			log.Fatal("Failed to initialize idempotency store", zap.Error(err))
		}
	}

	// Event bus: audit log and order metrics run after each commit
	eventBus := event.NewInMemoryEventBus(log)
	orderMetrics, err := telemetry.NewOrderMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create order metrics", zap.Error(err))
	}
	auditHandler := event.NewAuditLogHandler(log)
	eventBus.Subscribe(auditHandler, auditHandler.EventTypes()...)
	metricsHandler := event.NewMetricsHandler(orderMetrics)
	eventBus.Subscribe(metricsHandler, metricsHandler.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	unit, err := cfg.Order.CurrencyUnit()
	if err != nil {
		log.Fatal("Invalid order currency", zap.Error(err))
	}
	loc, err := cfg.Order.Location()
	if err != nil {
		log.Fatal("Invalid order timezone", zap.Error(err))
	}
	money := valueobject.NewMoneyFormatter(unit, language.English)

	// Initialize repositories and services
	txScope := persistence.NewGormTransactionScope(db.DB, time.Now).WithCartTTL(cfg.Order.CartTTL)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB, cfg.Order.CartTTL, time.Now)
	productRepo := persistence.NewGormProductRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)

	orderService := apporder.NewService(txScope.Orders(), orderRepo, apporder.ServiceConfig{
		Pricing:           cfg.Order.PricingPolicy(),
		MaxNumberAttempts: cfg.Order.MaxNumberAttempts,
		Location:          loc,
		Money:             money,
	}, log)
	orderService.SetEventPublisher(eventBus)

	cartService := appcart.NewService(txScope.Carts(), cartRepo, cfg.Order.CartTTL, money, log)

	productService := appcatalog.NewProductService(txScope.Catalog(), productRepo, movementRepo, money, log)
	productService.SetEventPublisher(eventBus)

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	}

	checks := []handler.HealthCheck{{Name: "database", Check: db.Ping}}
	if redisClient != nil {
		checks = append(checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	deps := router.Deps{
		Logger:       log,
		Tokens:       auth.NewJWTService(cfg.JWT),
		Orders:       orderService,
		Carts:        cartService,
		Products:     productService,
		Idempotency:  idempotencyStore,
		RateLimiter:  limiter,
		HealthChecks: checks,
	}
	if meterProvider.Enabled() {
		deps.Meter = meter
	}

	engine, err := router.New(router.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     version,
		Production:  cfg.App.IsProduction(),
		HTTP:        cfg.HTTP,
		Idempotency: shared.IdempotencyConfig{
			TTL:     cfg.Idempotency.TTL,
			Enabled: cfg.Idempotency.Enabled,
		},
		Tracing: tracerProvider.Enabled(),
	}, deps)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Dependencies close in reverse order of creation
	if limiter != nil {
		limiter.Stop()
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if idempotencyStore != nil {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis", zap.Error(err))
		}
	}
	if err := poolMetrics.Unregister(); err != nil {
		log.Error("Error unregistering pool metrics", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		bootLog.Error("Error shutting down log export", zap.Error(err))
	}
}

func applyMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.SQL()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB, so it is left open.
	return m.Up()
}
