package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	adminapp "github.com/storefront/backend/internal/application/admin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	ratingapp "github.com/storefront/backend/internal/application/rating"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (default: config.toml in ., ./config or /app)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		// no config means no log settings yet; fall back to the environment defaults
		boot, logErr := logger.NewForEnvironment(os.Getenv(config.EnvPrefix + "_APP_ENV"))
		if logErr != nil {
			panic("Failed to load configuration: " + err.Error())
		}
		boot.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Pyroscope starts first so the tracer can link spans to its profiles
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}

	// OpenTelemetry: traces, metrics and the zap log bridge
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		for name, shutdown := range map[string]func(context.Context) error{
			"tracer": tracerProvider.Shutdown,
			"meter":  meterProvider.Shutdown,
			"logger": loggerProvider.Shutdown,
			"profiler": func(context.Context) error {
				return profiler.Stop()
			},
		} {
			if err := shutdown(shutdownCtx); err != nil {
				log.Error("Telemetry shutdown failed", zap.String("provider", name), zap.Error(err))
			}
		}
	}()

	// Database with zap-backed GORM logger, tracing and metrics
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Database.SlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Database.SlowQueryThresh,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(ctx, db.DB, meterProvider, telemetry.DBMetricsConfig{
		SlowQueryThreshold: cfg.Database.SlowQueryThresh,
	}, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	// Token blacklist: Redis when configured, process memory otherwise
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled() {
		redisClient, err := auth.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		redisBlacklist := auth.NewRedisTokenBlacklist(redisClient)
		defer func() {
			_ = redisBlacklist.Close()
		}()
		blacklist = redisBlacklist
		log.Info("Token blacklist backed by Redis")
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, token revocations are kept in memory")
	}

	// Repositories and transaction scopes
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	ratingRepo := persistence.NewGormRatingRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB).
		WithLockTimeout(cfg.Database.LockTimeoutStatement())

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	orderService := orderapp.NewOrderService(orderRepo, txScope.OrderScope())
	ratingService := ratingapp.NewRatingService(ratingRepo, txScope.RatingScope())
	productService := catalogapp.NewProductService(productRepo)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	statsService := adminapp.NewStatsService(productRepo, orderRepo)

	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("storefront"), log)
		if err != nil {
			log.Fatal("Failed to create business metrics", zap.Error(err))
		}
		orderService.SetBusinessMetrics(businessMetrics)
		ratingService.SetBusinessMetrics(businessMetrics)
		businessMetrics.StartPeriodicCollection(ctx, statsService, cfg.Telemetry.MetricsInterval)
		defer businessMetrics.Stop()
	}

	sqlDB, err := db.SQL()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	var meters *telemetry.MeterProvider
	if meterProvider.IsEnabled() {
		meters = meterProvider
	}
	engine, err := router.NewEngine(ctx, router.Deps{
		Config:    cfg,
		Logger:    log,
		Tokens:    jwtService,
		Blacklist: blacklist,
		Meters:    meters,
		Handlers: router.Handlers{
			Health:  handler.NewHealthHandler(sqlDB),
			Product: handler.NewProductHandler(productService),
			Rating:  handler.NewRatingHandler(ratingService),
			Order:   handler.NewOrderHandler(orderService),
			Auth:    handler.NewAuthHandler(authService),
			Admin:   handler.NewAdminHandler(statsService),
		},
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

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
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Server exited gracefully")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
