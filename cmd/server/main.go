package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/storeadmin/backend/internal/application/catalog"
	inventoryapp "github.com/storeadmin/backend/internal/application/inventory"
	reportapp "github.com/storeadmin/backend/internal/application/report"
	storeapp "github.com/storeadmin/backend/internal/application/store"
	tradeapp "github.com/storeadmin/backend/internal/application/trade"
	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/config"
	"github.com/storeadmin/backend/internal/infrastructure/erp"
	"github.com/storeadmin/backend/internal/infrastructure/logger"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"github.com/storeadmin/backend/internal/interfaces/http/handler"
	"github.com/storeadmin/backend/internal/interfaces/http/middleware"
	"github.com/storeadmin/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "github.com/storeadmin/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Store Admin Gateway API
//	@version		1.0
//	@description	Read-only gateway in front of the upstream ERP API. Serves merged inventory activity, catalog, trade and dashboard views for the store admin UI.

//	@contact.name	API Support
//	@contact.url	https://github.com/storeadmin/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting store admin gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry providers. Each one degrades to a no-op when disabled.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Traces.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.Traces.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Metrics.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.Metrics.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Logs.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := loggerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	// Re-create the logger with the OTEL bridge so log records reach the
	// collector alongside stdout.
	if loggerProvider.IsEnabled() {
		bridged, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		}, loggerProvider, cfg.Telemetry.ServiceName)
		if err != nil {
			log.Warn("Failed to create OTEL-bridged logger, keeping stdout logger", zap.Error(err))
		} else {
			log = bridged
		}
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.Profiling.Enabled,
		ServerAddress:     cfg.Telemetry.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Telemetry.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Telemetry.Profiling.BasicAuthPassword,
		ProfileCPU:        cfg.Telemetry.Profiling.ProfileCPU,
		ProfileAllocSpace: cfg.Telemetry.Profiling.ProfileAllocSpace,
		ProfileInuseSpace: cfg.Telemetry.Profiling.ProfileInuseSpace,
		ProfileGoroutines: cfg.Telemetry.Profiling.ProfileGoroutines,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Span profiles require the profiler to be running first.
	if profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Upstream client and page cache. The gateway keeps no state of its own;
	// the cache only ever holds raw upstream page bodies.
	client := erp.NewClient(cfg.Upstream)

	pageCache, err := cache.NewPageCacheFactory(cfg.Cache,
		cache.WithLogger(log),
		cache.WithMemoryFallback(!cfg.IsProduction()),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to create page cache", zap.Error(err))
	}
	defer func() {
		if err := pageCache.Close(); err != nil {
			log.Error("Error closing page cache", zap.Error(err))
		}
	}()
	log.Info("Page cache ready", zap.String("backend", pageCache.Backend()))

	source := erp.NewPageSource(client, pageCache)

	if meterProvider.IsEnabled() {
		gatewayMetrics, err := telemetry.NewGatewayMetrics(telemetry.GatewayMetricsConfig{
			Meter:  meterProvider.Meter(cfg.Telemetry.ServiceName),
			Logger: log,
		})
		if err != nil {
			log.Warn("Failed to create gateway metrics", zap.Error(err))
		} else {
			source.SetMetrics(gatewayMetrics)
		}
	}

	// Application services
	activityService := inventoryapp.NewActivityService(source, cfg.Cache.ActivityTTL, cfg.Upstream.PageSizeMax)
	productService := catalogapp.NewProductService(source, cfg.Cache.CatalogTTL, cfg.Upstream.PageSizeMax)
	storeService := storeapp.NewStoreService(source, cfg.Cache.CatalogTTL, cfg.Upstream.PageSizeMax)
	orderService := tradeapp.NewOrderService(source, cfg.Cache.TradeTTL, cfg.Upstream.PageSizeMax)
	purchaseService := tradeapp.NewPurchaseService(source, cfg.Cache.TradeTTL, cfg.Upstream.PageSizeMax)
	dashboardService := reportapp.NewDashboardService(source, reportapp.TTLs{
		Catalog: cfg.Cache.CatalogTTL,
		Trade:   cfg.Cache.TradeTTL,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first:
	// request ID, panic recovery, request logging, security headers, CORS,
	// body limit, rate limiting, tracing, metrics, profiling labels, timeout.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Traces.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Metrics.Enabled,
	}))
	if profiler.IsEnabled() {
		engine.Use(middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
	}
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))

	// Probes live outside API versioning
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, pageCache)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	if cfg.Swagger.Enabled {
		swagger := engine.Group("/swagger")
		swagger.Use(middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}))
		swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewActivityHandler(activityService)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewStoreHandler(storeService)).
		Register(handler.NewOrderHandler(orderService)).
		Register(handler.NewPurchaseHandler(purchaseService)).
		Register(handler.NewDashboardHandler(dashboardService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
