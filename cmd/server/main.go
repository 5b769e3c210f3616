package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"madhav-couriers/internal/adapters/cache"
	"madhav-couriers/internal/adapters/http/middleware"
	"madhav-couriers/internal/adapters/http/routes"
	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/logger"
	"madhav-couriers/internal/pkg/metrics"
	"madhav-couriers/internal/pkg/response"
	"madhav-couriers/internal/pkg/telemetry"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "madhav-couriers/docs" // Swagger docs
)

// @title Madhav Couriers Tracking API
// @version 1.0
// @description Shipment tracking, administration and realtime updates for Madhav Couriers

// @contact.name API Support
// @contact.email support@madhavcouriers.in

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.AppMode, cfg.LogLevel); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	response.SetDebug(cfg.IsDev())

	ctx := context.Background()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize tracing", zap.Error(err))
	}

	// Connect to the shipment store
	store, err := config.OpenStore(ctx, cfg)
	if err != nil {
		zlog.Fatal("❌ Failed to open store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	if store.Driver == config.DriverMemory {
		zlog.Warn("⚠️ Using in-memory store, data is lost on restart")
	}
	zlog.Info("✅ Store ready", zap.String("driver", store.Driver))

	// Seed the default administrator
	if err := config.NewSeeder(store.Admins, cfg).Run(ctx); err != nil {
		zlog.Warn("⚠️ Failed to seed admin", zap.Error(err))
	}

	// Optional tracking cache
	var trackingCache services.Cache
	var redisAdapter *cache.RedisAdapter
	if cfg.Redis.URL != "" {
		redisAdapter, err = cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			zlog.Warn("⚠️ Redis unavailable, tracking cache disabled", zap.Error(err))
		} else {
			trackingCache = redisAdapter
		}
	}

	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	hub := services.NewNotificationHub(cfg.Realtime.BufferSize, m)
	authService := services.NewAuthService(store.Admins, cfg, m)
	shipmentService := services.NewShipmentService(store.Shipments, hub, trackingCache, cfg, m)
	rateService := services.NewRateService()

	// Release expired lockouts on a schedule
	cronService, err := services.NewCronService(authService, cfg.Lockout.SweepSchedule)
	if err != nil {
		zlog.Fatal("❌ Failed to schedule lockout sweep", zap.Error(err))
	}
	cronService.Start()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Madhav Couriers API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, m)

	// Setup routes
	routes.Setup(app, &routes.Dependencies{
		Config:          cfg,
		Store:           store,
		Cache:           trackingCache,
		Hub:             hub,
		AuthService:     authService,
		ShipmentService: shipmentService,
		RateService:     rateService,
		Registry:        registry,
	})

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		gracefulShutdown(app, hub)
		close(done)
	}()

	// Start server
	zlog.Info("🚀 Server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("❌ Failed to start server", zap.Error(err))
	}
	<-done

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	cronService.Stop(stopCtx)
	if redisAdapter != nil {
		if err := redisAdapter.Close(); err != nil {
			zlog.Warn("redis close failed", zap.Error(err))
		}
	}
	if err := store.Close(stopCtx); err != nil {
		zlog.Warn("store close failed", zap.Error(err))
	}
	if err := shutdownTracing(stopCtx); err != nil {
		zlog.Warn("tracer shutdown failed", zap.Error(err))
	}
	zlog.Info("✅ Server stopped gracefully")
}

// gracefulShutdown closes realtime clients and stops the server on SIGINT or SIGTERM
func gracefulShutdown(app *fiber.App, hub *services.NotificationHub) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog := logger.Get()
	zlog.Info("🛑 Shutting down server...")

	// Ends open event streams and sockets so Shutdown does not wait on them
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		zlog.Error("❌ Error during shutdown", zap.Error(err))
	}
}
