package handlers

import (
	"madhav-couriers/internal/adapters/http/middleware"
	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles administrator login
// @Summary Login administrator
// @Description Authenticate an administrator and return a session token. The token is also set as an HttpOnly cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response{data=services.AuthResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.Context(), &services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err, "Failed to login")
	}

	middleware.SetAccessCookie(c, h.cfg, result.Token, result.ExpiresAt)

	return response.Success(c, "Login successful", result)
}

// Logout handles logout
// @Summary Logout administrator
// @Description Clear the session cookie
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	middleware.ClearAccessCookie(c, h.cfg)
	return response.Success(c, "Logout successful", nil)
}

// Verify reports whether the presented token is valid
// @Summary Verify session
// @Description Check the session token and return its principal
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	return response.Success(c, "Token is valid", fiber.Map{
		"valid": true,
		"admin": middleware.GetPrincipal(c),
	})
}

// Me returns the current administrator
// @Summary Get current administrator
// @Description Get the authenticated administrator's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=domain.Principal}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	admin, err := h.authService.GetAdmin(c.Context(), principal.ID)
	if err != nil {
		return respondError(c, err, "Failed to get admin")
	}

	return response.Success(c, "Admin retrieved successfully", admin)
}
