package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	reportapp "github.com/spa/backend/internal/application/report"
	"github.com/spa/backend/internal/infrastructure/cache"
	"github.com/spa/backend/internal/infrastructure/config"
	"github.com/spa/backend/internal/infrastructure/logger"
	"github.com/spa/backend/internal/infrastructure/migration"
	"github.com/spa/backend/internal/infrastructure/persistence"
	"github.com/spa/backend/internal/infrastructure/scheduler"
	"github.com/spa/backend/internal/infrastructure/telemetry"
	"github.com/spa/backend/internal/interfaces/http/handler"
	"github.com/spa/backend/internal/interfaces/http/middleware"
	"github.com/spa/backend/internal/interfaces/http/router"
)

const appVersion = "1.0.0"

//	@title			Spa Reporting API
//	@version		1.0
//	@description	Financial reporting and aggregation over the spa booking, expense and salary ledgers.

//	@contact.name	API Support
//	@contact.url	https://github.com/spa/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	baseLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry providers are no-ops when disabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}

	log := loggerProvider.Bridge(baseLog)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	dbTracingCfg := telemetry.DefaultDBTracingConfig()
	dbTracingCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracingCfg.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		dbTracingCfg.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	}
	dbTracing := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access connection pool", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := applyMigrations(sqlDB, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	meter := meterProvider.Meter("spa.report")
	if _, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB.Stats); err != nil {
		log.Warn("Failed to register connection pool metrics", zap.Error(err))
	}
	reportMetrics, err := telemetry.NewReportMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create report metrics", zap.Error(err))
	}

	// Initialize repositories
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	salaryRepo := persistence.NewGormSalaryRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRepository(db.DB)

	// Initialize report service
	serviceOpts := []reportapp.ServiceOption{
		reportapp.WithOptions(reportapp.Options{
			TopServicesLimit:    cfg.Report.DefaultTopServices,
			TopRevenueDaysLimit: cfg.Report.DefaultTopRevenueDays,
			ServiceType:         cfg.Report.DistinguishedServiceType,
			CacheTTL:            cfg.Report.CacheTTL,
			CacheKeyPrefix:      cfg.Report.CacheKeyPrefix,
		}),
		reportapp.WithMetrics(reportMetrics),
	}

	var reportCache cache.Store
	if cfg.Report.CacheEnabled {
		reportCache, err = cache.NewStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.IsProduction()),
		).CreateStore(cfg.Report.CacheBackend)
		if err != nil {
			log.Fatal("Failed to create report cache", zap.Error(err))
		}
		serviceOpts = append(serviceOpts, reportapp.WithCache(reportCache))
	}

	reportService := reportapp.NewReportService(bookingRepo, expenseRepo, salaryRepo, discountRepo, serviceOpts...)

	// Nightly warm-up of settled ranges (requires the cache, checked by config)
	var warmup *scheduler.ReportCronScheduler
	if cfg.Report.WarmupEnabled {
		hour, minute, err := scheduler.ParseCronSchedule(cfg.Report.WarmupSchedule)
		if err != nil {
			log.Fatal("Invalid report warm-up schedule", zap.Error(err))
		}
		warmupCfg := scheduler.DefaultReportCronSchedulerConfig()
		warmupCfg.CronHour = hour
		warmupCfg.CronMinute = minute
		warmupCfg.MaxConcurrentJobs = cfg.Report.WarmupConcurrency

		warmup = scheduler.NewReportCronScheduler(warmupCfg, reportService, log)
		if err := warmup.Start(context.Background()); err != nil {
			log.Fatal("Failed to start report warm-up", zap.Error(err))
		}
	}

	// Initialize handlers
	reportHandler := handler.NewReportHandler(reportService)
	var systemOpts []handler.SystemOption
	if warmup != nil {
		systemOpts = append(systemOpts, handler.WithWarmup(warmup))
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, appVersion, systemOpts...)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register custom validators
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	// Middleware stack: request id first so every log line and span carries it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.Enabled = cfg.Telemetry.Enabled
	if cfg.Telemetry.ServiceName != "" {
		tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	}
	engine.Use(middleware.TracingWithConfig(tracingCfg))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       cfg.Telemetry.MetricsEnabled,
	}))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))

	// Health check endpoint
	engine.GET("/health", healthHandler(db))

	var exportMiddleware []gin.HandlerFunc
	var exportLimiter *middleware.RateLimiter
	if cfg.HTTP.ExportRateLimit > 0 {
		exportLimiter = middleware.NewRateLimiter(cfg.HTTP.ExportRateLimit, time.Minute)
		exportMiddleware = append(exportMiddleware, middleware.RateLimit(exportLimiter))
	}

	r := router.NewRouter(engine)
	reportRoutes := router.ReportRoutes(reportHandler, exportMiddleware...)
	discountRoutes := router.DiscountRoutes(reportHandler)
	systemRoutes := router.SystemRoutes(systemHandler)
	r.Register(reportRoutes).Register(discountRoutes).Register(systemRoutes)
	r.Setup()

	for _, g := range []*router.DomainGroup{reportRoutes, discountRoutes, systemRoutes} {
		for _, route := range g.Routes(r.BasePath()) {
			log.Debug("Route registered",
				zap.String("group", g.Name()),
				zap.String("method", route.Method),
				zap.String("path", route.Path),
			)
		}
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if warmup != nil {
		if err := warmup.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping report warm-up", zap.Error(err))
		}
	}
	if exportLimiter != nil {
		exportLimiter.Close()
	}
	if reportCache != nil {
		if err := reportCache.Close(); err != nil {
			log.Warn("Failed to close report cache", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Warn("Failed to close database", zap.Error(err))
	}

	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to shut down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to shut down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	// Flushes the records above; bridged logs stop after this.
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Warn("Failed to shut down logger provider", zap.Error(err))
	}
}

// applyMigrations brings the schema up to date with the embedded migrations.
// The migrator borrows sqlDB and leaves it open.
func applyMigrations(sqlDB *sql.DB, log *zap.Logger) error {
	m, err := migration.New(sqlDB, migration.EmbeddedSource(), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}

		body := gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		}
		if stats, err := db.Stats(); err == nil {
			body["connections"] = gin.H{
				"open":   stats.OpenConnections,
				"in_use": stats.InUse,
				"idle":   stats.Idle,
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
