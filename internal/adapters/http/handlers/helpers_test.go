package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"madhav-couriers/internal/adapters/http/middleware"
	"madhav-couriers/internal/adapters/persistence/repositories"
	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/metrics"
	"madhav-couriers/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "secret123"

func testConfig() *config.Config {
	return &config.Config{
		AppMode:    "dev",
		BcryptCost: bcrypt.MinCost,
		Redis:      config.RedisConfig{TrackingTTL: 30 * time.Second},
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			Expiry:      time.Hour,
			RenewWindow: 15 * time.Minute,
		},
		Lockout:  config.LockoutConfig{MaxAttempts: 5, Duration: 30 * time.Minute},
		Cookie:   config.CookieConfig{SameSite: "lax"},
		Realtime: config.RealtimeConfig{BufferSize: 16, Heartbeat: 50 * time.Millisecond, MessagesPerSec: 100, Burst: 100},
	}
}

// envelope mirrors response.Response with the payload left undecoded
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

type fixture struct {
	cfg       *config.Config
	store     *repositories.Store
	hub       *services.NotificationHub
	auth      *services.AuthService
	shipments *services.ShipmentService
	app       *fiber.App
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithConfig(t, testConfig())
}

func newFixtureWithConfig(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()

	m := metrics.New(prometheus.NewRegistry())
	store := repositories.NewMemoryStore()
	hub := services.NewNotificationHub(cfg.Realtime.BufferSize, m)
	f := &fixture{
		cfg:       cfg,
		store:     store,
		hub:       hub,
		auth:      services.NewAuthService(store.Admins, cfg, m),
		shipments: services.NewShipmentService(store.Shipments, hub, nil, cfg, m),
	}

	f.seedAdmin(t, "a-admin", "admin", domain.RoleAdmin)
	f.seedAdmin(t, "a-super", "super", domain.RoleSuperAdmin)
	f.seedAdmin(t, "a-manager", "manager", domain.RoleManager)

	f.app = fiber.New(fiber.Config{
		ErrorHandler:          middleware.CustomErrorHandler,
		DisableStartupMessage: true,
	})
	f.mount()
	t.Cleanup(hub.Close)
	return f
}

// mount wires every handler the way the server does, minus the global middleware
func (f *fixture) mount() {
	authHandler := NewAuthHandler(f.auth, f.cfg)
	shipmentHandler := NewShipmentHandler(f.shipments)
	trackingHandler := NewTrackingHandler(f.shipments)
	rateHandler := NewRateHandler(services.NewRateService())
	healthHandler := NewHealthHandler(f.store, nil, f.hub, f.cfg)
	realtimeHandler := NewRealtimeHandler(f.hub, f.cfg)
	requireAuth := middleware.AuthMiddleware(f.auth, f.cfg)

	f.app.Get("/", healthHandler.Root)
	f.app.Get("/health", healthHandler.HealthCheck)
	f.app.Get("/ws", middleware.OptionalAuth(f.auth), realtimeHandler.Upgrade, realtimeHandler.WebSocket())

	api := f.app.Group("/api")
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", requireAuth, authHandler.Logout)
	auth.Get("/verify", requireAuth, authHandler.Verify)
	auth.Get("/me", requireAuth, authHandler.Me)

	shipments := api.Group("/shipments")
	shipments.Get("/rates", rateHandler.Card)
	shipments.Post("/rates/quote", rateHandler.Quote)
	shipments.Get("/track/:trackingNumber", trackingHandler.Track)
	shipments.Get("/track/:trackingNumber/events", realtimeHandler.TrackingEvents)
	shipments.Get("/", requireAuth, shipmentHandler.List)
	shipments.Get("/stats", requireAuth, shipmentHandler.Stats)
	shipments.Get("/events", requireAuth, realtimeHandler.DashboardEvents)
	shipments.Get("/:id", requireAuth, shipmentHandler.Get)
	shipments.Post("/", requireAuth, shipmentHandler.Create)
	shipments.Put("/:id", requireAuth, shipmentHandler.Update)
	shipments.Patch("/:id", requireAuth, shipmentHandler.Update)
	shipments.Delete("/:id", requireAuth, shipmentHandler.Delete)
}

func (f *fixture) seedAdmin(t *testing.T, id, username string, role domain.Role) {
	t.Helper()
	hash, err := password.HashWithCost(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, f.store.Admins.Create(context.Background(), &domain.Admin{
		ID:       id,
		Username: username,
		Email:    username + "@madhavcouriers.in",
		Password: hash,
		Role:     role,
		IsActive: true,
	}))
}

func (f *fixture) token(t *testing.T, username string) string {
	t.Helper()
	res, err := f.auth.Login(context.Background(), &services.LoginInput{Username: username, Password: testPassword})
	require.NoError(t, err)
	return res.Token
}

// do sends a JSON request and decodes the envelope
func (f *fixture) do(t *testing.T, method, path string, body interface{}, token string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (f *fixture) createShipment(t *testing.T, tn string) *domain.Shipment {
	t.Helper()
	s, err := f.shipments.Create(context.Background(), createBody(tn), &domain.Principal{ID: "a-admin", Username: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)
	return s
}

func createBody(tn string) services.CreateShipmentInput {
	return services.CreateShipmentInput{
		TrackingNumber: tn,
		CustomerName:   "Ravi Kumar",
		CustomerPhone:  "+91 98450-00000",
		Origin:         "Delhi",
		Destination:    "Mumbai",
		CurrentCity:    "Delhi",
		Status:         domain.StatusBooked,
		Weight:         2.5,
	}
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
