package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"madhav-couriers/internal/adapters/persistence/repositories"
	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/metrics"
	"madhav-couriers/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode:    "dev",
		BcryptCost: bcrypt.MinCost,
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			Expiry:      time.Hour,
			RenewWindow: 15 * time.Minute,
		},
		Lockout:   config.LockoutConfig{MaxAttempts: 5, Duration: 30 * time.Minute},
		Cookie:    config.CookieConfig{SameSite: "lax"},
		RateLimit: config.RateLimitConfig{Window: time.Minute, Max: 100, AuthMax: 2},
	}
}

func seedAdmin(t *testing.T, admins repositories.AdminRepository, id, username string, role domain.Role) {
	t.Helper()
	hash, err := password.HashWithCost("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, admins.Create(context.Background(), &domain.Admin{
		ID:       id,
		Username: username,
		Password: hash,
		Role:     role,
		IsActive: true,
	}))
}

func newAuth(t *testing.T, cfg *config.Config) (*services.AuthService, repositories.AdminRepository) {
	t.Helper()
	store := repositories.NewMemoryStore()
	seedAdmin(t, store.Admins, "a1", "admin", domain.RoleAdmin)
	seedAdmin(t, store.Admins, "m1", "manager", domain.RoleManager)
	return services.NewAuthService(store.Admins, cfg, metrics.New(prometheus.NewRegistry())), store.Admins
}

func login(t *testing.T, auth *services.AuthService, username string) string {
	t.Helper()
	res, err := auth.Login(context.Background(), &services.LoginInput{Username: username, Password: "secret123"})
	require.NoError(t, err)
	return res.Token
}

func protectedApp(auth *services.AuthService, cfg *config.Config, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{AuthMiddleware(auth, cfg)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		return c.SendString(p.Username + ":" + string(p.Role))
	})
	app.Get("/protected", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	auth, _ := newAuth(t, cfg)
	token := login(t, auth, "admin")
	app := protectedApp(auth, cfg)

	t.Run("no token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get(RenewedTokenHeader))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bearer wins over stale cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "expired-session"})
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthMiddleware_InactiveAdmin(t *testing.T) {
	cfg := testConfig()
	auth, admins := newAuth(t, cfg)
	token := login(t, auth, "admin")

	admin, err := admins.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	admin.IsActive = false
	require.NoError(t, admins.Update(context.Background(), admin))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := protectedApp(auth, cfg).Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthMiddleware_RenewsNearExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.RenewWindow = cfg.JWT.Expiry
	auth, _ := newAuth(t, cfg)
	token := login(t, auth, "admin")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := protectedApp(auth, cfg).Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RenewedTokenHeader))

	var renewed *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == AccessTokenCookie {
			renewed = ck
		}
	}
	require.NotNil(t, renewed)
	assert.True(t, renewed.HttpOnly)
	assert.Equal(t, resp.Header.Get(RenewedTokenHeader), renewed.Value)
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testConfig()
	auth, _ := newAuth(t, cfg)
	app := protectedApp(auth, cfg, WriteAccess())

	cases := []struct {
		username string
		want     int
	}{
		{"admin", http.StatusOK},
		{"manager", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+login(t, auth, tc.username))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, tc.username)
	}

	// without AuthMiddleware in front there is no principal
	bare := fiber.New()
	bare.Get("/", SuperAdminOnly(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	resp, err := bare.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalAuth(t *testing.T) {
	cfg := testConfig()
	auth, _ := newAuth(t, cfg)

	app := fiber.New()
	app.Get("/", OptionalAuth(auth), func(c *fiber.Ctx) error {
		if p := GetPrincipal(c); p != nil {
			return c.SendString(p.Username)
		}
		return c.SendString("anonymous")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer junk")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClearAccessCookie(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Post("/logout", func(c *fiber.Ctx) error {
		ClearAccessCookie(c, cfg)
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/logout", nil))
	require.NoError(t, err)
	var cleared *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == AccessTokenCookie {
			cleared = ck
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestAuthRateLimiter(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Post("/login", AuthRateLimiter(cfg), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for i := 0; i < cfg.RateLimit.AuthMax; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestSetup(t *testing.T) {
	cfg := testConfig()
	m := metrics.New(prometheus.NewRegistry())
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	Setup(app, cfg, m)
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusTeapot, "short and stout") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/ping", "200")))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}

func TestCustomErrorHandler_PlainError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error { return errors.New("disk on fire") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/public", PublicCache(time.Hour), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/private", NoCacheHeaders(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/public", nil))
	require.NoError(t, err)
	assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", resp.Header.Get("Pragma"))
}
