package middleware

import (
	"errors"
	"strings"
	"time"

	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const (
	// AccessTokenCookie is the cookie holding the session token
	AccessTokenCookie = "access_token"
	// RenewedTokenHeader carries a replacement token issued near expiry
	RenewedTokenHeader = "X-Renewed-Token"

	localsPrincipal = "principal"
)

// ExtractToken reads the access token from the Authorization header, then the cookie.
// An explicit bearer token wins over a cookie left behind by an older session.
func ExtractToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); token != "" {
			return token
		}
	}
	return c.Cookies(AccessTokenCookie)
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(authService *services.AuthService, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ExtractToken(c)
		if token == "" {
			return response.Unauthorized(c, "Access token required")
		}

		session, err := authService.Verify(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				return response.Unauthorized(c, "Access token expired")
			case errors.Is(err, services.ErrInvalidToken):
				return response.Unauthorized(c, "Invalid access token")
			case errors.Is(err, services.ErrAccountInactive):
				return response.Forbidden(c, "Account is inactive")
			case errors.Is(err, domain.ErrUnavailable):
				return response.ServiceUnavailable(c, "Service temporarily unavailable", err)
			}
			return response.InternalServerError(c, "Failed to verify access token", err)
		}

		if session.RenewedToken != "" {
			SetAccessCookie(c, cfg, session.RenewedToken, session.RenewedExpiresAt)
			c.Set(RenewedTokenHeader, session.RenewedToken)
		}

		c.Locals(localsPrincipal, session.Principal)
		c.Locals("adminID", session.Principal.ID)
		c.Locals("username", session.Principal.Username)
		c.Locals("role", string(session.Principal.Role))

		return c.Next()
	}
}

// OptionalAuth doesn't require auth but sets the principal if a valid token is present
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := ExtractToken(c); token != "" {
			if session, err := authService.Verify(c.Context(), token); err == nil {
				c.Locals(localsPrincipal, session.Principal)
			}
		}
		return c.Next()
	}
}

// GetPrincipal returns the authenticated principal, or nil
func GetPrincipal(c *fiber.Ctx) *domain.Principal {
	p, _ := c.Locals(localsPrincipal).(*domain.Principal)
	return p
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch err := services.Authorize(GetPrincipal(c), allowedRoles...); {
		case errors.Is(err, services.ErrUnauthorized):
			return response.Unauthorized(c, "Unauthorized")
		case err != nil:
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// WriteAccess allows the roles that may change shipments
func WriteAccess() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin, domain.RoleSuperAdmin)
}

// SuperAdminOnly allows only the superadmin role
func SuperAdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin)
}

// SetAccessCookie writes the session token cookie
func SetAccessCookie(c *fiber.Ctx, cfg *config.Config, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   cfg.Cookie.Domain,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   cfg.Cookie.Secure,
		SameSite: cfg.Cookie.SameSite,
	})
}

// ClearAccessCookie expires the session token cookie
func ClearAccessCookie(c *fiber.Ctx, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Cookie.Domain,
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   cfg.Cookie.Secure,
		SameSite: cfg.Cookie.SameSite,
	})
}
