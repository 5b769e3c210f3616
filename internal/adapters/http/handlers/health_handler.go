package handlers

import (
	"context"
	"time"

	"madhav-couriers/internal/adapters/persistence/repositories"
	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 2 * time.Second

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store *repositories.Store
	cache services.Cache
	hub   *services.NotificationHub
	cfg   *config.Config
}

// NewHealthHandler creates a new health handler. cache may be nil.
func NewHealthHandler(store *repositories.Store, cache services.Cache, hub *services.NotificationHub, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		store: store,
		cache: cache,
		hub:   hub,
		cfg:   cfg,
	}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚚 Madhav Couriers tracking API is running",
		"mode":    h.cfg.AppMode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API, store and cache health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	status := "ok"
	code := fiber.StatusOK

	storeStatus := "healthy"
	if err := h.store.Ping(ctx); err != nil {
		storeStatus = "unhealthy"
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	// The cache is optional, so a failure there does not fail the check
	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "healthy"
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "unhealthy"
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"api":   "healthy",
			"store": fiber.Map{"driver": h.store.Driver, "status": storeStatus},
			"cache": cacheStatus,
		},
		"realtime": fiber.Map{
			"clients":   h.hub.ClientCount(),
			"tracked":   h.hub.TrackedCount(),
			"dashboard": h.hub.DashboardCount(),
		},
	})
}
