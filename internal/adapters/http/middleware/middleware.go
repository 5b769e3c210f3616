package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"madhav-couriers/internal/config"
	"madhav-couriers/internal/pkg/logger"
	"madhav-couriers/internal/pkg/metrics"
	"madhav-couriers/internal/pkg/response"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// Setup configures all middlewares for the application
func Setup(app *fiber.App, cfg *config.Config, m *metrics.Metrics) {
	// Recover middleware - catches panics
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Header: RequestIDHeader,
	}))

	// Access log
	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
		Fields: []string{"requestId", "status", "method", "path", "latency", "ip"},
	}))

	app.Use(Metrics(m))

	// Streams are flushed as they are written and must not be buffered by the compressor
	app.Use(compress.New(compress.Config{
		Next:  isStream,
		Level: compress.LevelBestSpeed,
	}))

	// Security Headers middleware (Helmet)
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
	}))

	// General API limiter, per IP
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.Max,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.TooManyRequests(c, "Too many requests, please try again later")
		},
	}))

	allowHeaders := "Origin,Content-Type,Accept,Authorization," + RequestIDHeader
	exposeHeaders := RequestIDHeader + "," + RenewedTokenHeader

	// CORS middleware
	if cfg.IsDev() && cfg.GetAllowedOrigins() == "*" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     "*",
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // Cannot be true with AllowOrigins: "*"
		}))
	} else {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.GetAllowedOrigins(),
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: true,
		}))
	}
}

func isStream(c *fiber.Ctx) bool {
	return strings.HasSuffix(c.Path(), "/events") || c.Path() == "/ws"
}

// Metrics records request counts and latencies by matched route
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := c.Route().Path
		m.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// AuthRateLimiter creates a stricter rate limiter for the login endpoint
func AuthRateLimiter(cfg *config.Config) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.RateLimit.AuthMax,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "-auth"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.TooManyRequests(c, "Too many login attempts, please wait a minute")
		},
	})
}

// CustomErrorHandler handles errors globally
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Error(c, fe.Code, fe.Message)
	}

	logger.Get().Error("unhandled error: " + err.Error())
	return response.InternalServerError(c, "Internal server error", err)
}
