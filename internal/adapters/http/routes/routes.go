package routes

import (
	"time"

	"madhav-couriers/internal/adapters/http/handlers"
	"madhav-couriers/internal/adapters/http/middleware"
	"madhav-couriers/internal/adapters/persistence/repositories"
	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
)

// rateCardMaxAge is how long clients may cache the public rate card
const rateCardMaxAge = time.Hour

// Dependencies are the long-lived components the routes are built on
type Dependencies struct {
	Config          *config.Config
	Store           *repositories.Store
	Cache           services.Cache // nil when caching is disabled
	Hub             *services.NotificationHub
	AuthService     *services.AuthService
	ShipmentService *services.ShipmentService
	RateService     *services.RateService
	Registry        *prometheus.Registry
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps *Dependencies) {
	cfg := deps.Config

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Cache, deps.Hub, cfg)
	authHandler := handlers.NewAuthHandler(deps.AuthService, cfg)
	shipmentHandler := handlers.NewShipmentHandler(deps.ShipmentService)
	trackingHandler := handlers.NewTrackingHandler(deps.ShipmentService)
	rateHandler := handlers.NewRateHandler(deps.RateService)
	realtimeHandler := handlers.NewRealtimeHandler(deps.Hub, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", metrics.Handler(deps.Registry))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Realtime channel; a valid admin token joins the dashboard audience
	app.Get("/ws", middleware.OptionalAuth(deps.AuthService), realtimeHandler.Upgrade, realtimeHandler.WebSocket())

	requireAuth := middleware.AuthMiddleware(deps.AuthService, cfg)

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, requireAuth, cfg)

	shipmentRoutes := api.Group("/shipments")
	setupPublicShipmentRoutes(shipmentRoutes, trackingHandler, rateHandler, realtimeHandler)
	setupAdminShipmentRoutes(shipmentRoutes, shipmentHandler, realtimeHandler, requireAuth)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, requireAuth fiber.Handler, cfg *config.Config) {
	router.Use(middleware.NoCacheHeaders())

	// Public routes
	router.Post("/login", middleware.AuthRateLimiter(cfg), handler.Login)

	// Protected routes
	router.Post("/logout", requireAuth, handler.Logout)
	router.Get("/verify", requireAuth, handler.Verify)
	router.Get("/me", requireAuth, handler.Me)
}

// setupPublicShipmentRoutes configures routes open to customers.
// They are registered before /:id so the static segments win.
func setupPublicShipmentRoutes(
	router fiber.Router,
	trackingHandler *handlers.TrackingHandler,
	rateHandler *handlers.RateHandler,
	realtimeHandler *handlers.RealtimeHandler,
) {
	router.Get("/rates", middleware.PublicCache(rateCardMaxAge), rateHandler.Card)
	router.Post("/rates/quote", rateHandler.Quote)
	router.Get("/track/:trackingNumber", middleware.NoCacheHeaders(), trackingHandler.Track)
	router.Get("/track/:trackingNumber/events", realtimeHandler.TrackingEvents)
}

// setupAdminShipmentRoutes configures administrative shipment routes
func setupAdminShipmentRoutes(
	router fiber.Router,
	handler *handlers.ShipmentHandler,
	realtimeHandler *handlers.RealtimeHandler,
	requireAuth fiber.Handler,
) {
	noCache := middleware.NoCacheHeaders()

	// Read access (any administrative role)
	router.Get("/", requireAuth, noCache, handler.List)
	router.Get("/stats", requireAuth, noCache, handler.Stats)
	router.Get("/events", requireAuth, realtimeHandler.DashboardEvents)
	router.Get("/:id", requireAuth, noCache, handler.Get)

	// Write access (admin / superadmin); purge is checked again in the service
	write := middleware.WriteAccess()
	router.Post("/", requireAuth, write, handler.Create)
	router.Put("/:id", requireAuth, write, handler.Update)
	router.Patch("/:id", requireAuth, write, handler.Update)
	router.Delete("/:id", requireAuth, write, handler.Delete)
}
