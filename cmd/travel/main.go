package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"duffeltravel/cfg"
	"duffeltravel/internal/flight"
	"duffeltravel/internal/settings"
	"duffeltravel/pkg/duffel"
	"duffeltravel/pkg/idgen"
	"duffeltravel/pkg/kvstore"
	"duffeltravel/pkg/logger"

	_ "duffeltravel/cmd/travel/docs" // swagger docs

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// @title           Duffel Travel Flight Search API
// @version         1.0
// @description     Flight search form and JSON API backed by the Duffel offer request endpoint.
// @BasePath        /
// @schemes         http
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	// ============
	// Otel
	// ============
	if config.Observability.Enabled() {
		shutdownOtel, err := initOtel(ctx, &config.Observability, zlogger)
		if err != nil {
			zlogger.Warn("failed to initialize OpenTelemetry, continuing without tracing/metrics",
				logger.Field{Key: "error", Value: err},
			)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownOtel(shutdownCtx); err != nil {
					zlogger.Error("failed to shutdown OpenTelemetry", logger.Field{Key: "error", Value: err})
				}
			}()
		}
	}

	// ============
	// Settings store
	// ============
	kv, err := newKVStore(ctx, config.RedisConfig, zlogger)
	if err != nil {
		log.Fatal(err)
	}
	defer kv.Close()

	settingsStore := settings.NewStore(kv, zlogger)
	if config.DuffelConfig.SeedAPIKey != "" {
		seeded, err := settingsStore.Seed(ctx, settings.Settings{
			APIKey:      config.DuffelConfig.SeedAPIKey,
			Environment: settings.ParseEnvironment(config.DuffelConfig.SeedEnvironment),
		})
		if err != nil {
			log.Fatalf("failed to seed settings: %v", err)
		}
		if seeded {
			zlogger.Info("settings seeded from environment")
		}
	}

	// ============
	// External Service
	// ============
	timeout := time.Duration(config.DuffelConfig.TimeoutSeconds) * time.Second
	httpClient := &http.Client{
		Timeout: timeout,
	}
	duffelClient := duffel.NewClient(httpClient, duffel.Config{
		BaseURL:   config.DuffelConfig.BaseURL,
		Version:   config.DuffelConfig.APIVersion,
		RateLimit: config.DuffelConfig.RateLimitRPS,
		Burst:     config.DuffelConfig.RateLimitBurst,
	}, zlogger)

	ids, err := idgen.NewSnowflakeGenerator(config.SnowflakeNodeID)
	if err != nil {
		log.Fatal(err)
	}

	// ============
	// Internal Service
	// ============
	flightSvc := flight.NewService(duffelClient, settingsStore, ids, timeout, zlogger)
	flightHandler := flight.NewFlightHandler(flightSvc, zlogger)
	settingsHandler := settings.NewHandler(settingsStore, config.AdminToken, zlogger)

	// ============
	// HTTP
	// ============
	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if config.Observability.Enabled() {
		r.Use(otelgin.Middleware(config.Observability.ServiceName))
		r.Use(TraceLoggerMiddleware(zlogger))
	}

	flightHandler.RegisterRoutes(r)
	settingsHandler.RegisterRoutes(r)
	initSwagger(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlogger.Info("server listening", logger.Field{Key: "addr", Value: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	zlogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlogger.Error("graceful shutdown failed", logger.Field{Key: "error", Value: err})
	}
}

// newKVStore picks redis when configured, otherwise an in-process store whose
// settings are lost on restart.
func newKVStore(ctx context.Context, config cfg.RedisConfig, log logger.Logger) (kvstore.Store, error) {
	if !config.Enabled() {
		log.Warn("REDIS_HOST not set, settings are kept in memory only")
		return kvstore.NewMemoryStore(), nil
	}

	store, err := kvstore.NewRedisStore(ctx, kvstore.RedisConfig{
		Addr:     config.Addr(),
		Password: config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect settings store: %w", err)
	}
	return store, nil
}

func initSwagger(r *gin.Engine) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		html := `<!DOCTYPE html>
<html>
<head>
    <title>API Documentation</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
    <script id="api-reference" data-url="/swagger/doc.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
		c.String(200, html)
	})
}
