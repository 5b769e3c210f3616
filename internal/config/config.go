package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverMongo    = "mongo"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	LogLevel   string
	BcryptCost int
	CORSOrigin string
	Storage    StorageConfig
	Database   DatabaseConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Lockout    LockoutConfig
	Cookie     CookieConfig
	RateLimit  RateLimitConfig
	Realtime   RealtimeConfig
	Tracing    TracingConfig
	Admin      AdminSeedConfig
}

// StorageConfig selects the shipment store backend
type StorageConfig struct {
	Driver string
}

// DatabaseConfig holds relational database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// MongoConfig holds document database configuration
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// RedisConfig holds the tracking cache configuration. An empty URL disables the cache.
type RedisConfig struct {
	URL         string
	TrackingTTL time.Duration
}

// JWTConfig holds session credential configuration
type JWTConfig struct {
	Secret      string
	Expiry      time.Duration
	RenewWindow time.Duration
}

// LockoutConfig holds brute-force lockout policy
type LockoutConfig struct {
	MaxAttempts   int
	Duration      time.Duration
	SweepSchedule string
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// RateLimitConfig holds transport rate limits
type RateLimitConfig struct {
	Window  time.Duration
	Max     int
	AuthMax int
}

// RealtimeConfig holds push channel settings
type RealtimeConfig struct {
	BufferSize     int
	Heartbeat      time.Duration
	MessagesPerSec float64
	Burst          int
}

// TracingConfig holds OpenTelemetry exporter settings
type TracingConfig struct {
	Endpoint    string
	ServiceName string
}

// AdminSeedConfig holds the default administrator created on first start
type AdminSeedConfig struct {
	Username string
	Email    string
	Password string
}

// Global config instance
var AppConfig *Config

const devJWTSecret = "dev_secret_change_me"

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(v.GetString("APP_MODE"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:    appMode,
		Port:       v.GetString("PORT"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		BcryptCost: v.GetInt("SALT_ROUNDS"),
		CORSOrigin: strings.TrimSpace(v.GetString("CORS_ORIGIN")),
		Storage: StorageConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
			Timeout:  v.GetDuration("MONGO_TIMEOUT"),
		},
		Redis: RedisConfig{
			URL:         v.GetString("REDIS_URL"),
			TrackingTTL: v.GetDuration("TRACKING_CACHE_TTL"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			Expiry:      v.GetDuration("JWT_EXPIRE"),
			RenewWindow: v.GetDuration("JWT_RENEW_WINDOW"),
		},
		Lockout: LockoutConfig{
			MaxAttempts:   v.GetInt("LOCKOUT_MAX_ATTEMPTS"),
			Duration:      v.GetDuration("LOCKOUT_DURATION"),
			SweepSchedule: v.GetString("LOCKOUT_SWEEP_SCHEDULE"),
		},
		Cookie: CookieConfig{
			Secure:   v.GetBool("COOKIE_SECURE"),
			SameSite: v.GetString("COOKIE_SAMESITE"),
			Domain:   v.GetString("COOKIE_DOMAIN"),
		},
		RateLimit: RateLimitConfig{
			Window:  v.GetDuration("RATE_LIMIT_WINDOW"),
			Max:     v.GetInt("RATE_LIMIT_MAX"),
			AuthMax: v.GetInt("AUTH_RATE_LIMIT_MAX"),
		},
		Realtime: RealtimeConfig{
			BufferSize:     v.GetInt("REALTIME_BUFFER"),
			Heartbeat:      v.GetDuration("REALTIME_HEARTBEAT"),
			MessagesPerSec: v.GetFloat64("REALTIME_MSG_RATE"),
			Burst:          v.GetInt("REALTIME_MSG_BURST"),
		},
		Tracing: TracingConfig{
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
		},
		Admin: AdminSeedConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if config.JWT.Secret == "" && config.IsDev() {
		config.JWT.Secret = devJWTSecret
	}
	if config.Admin.Password == "" && config.IsDev() {
		config.Admin.Password = "admin123"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, STORAGE: %s]", appMode, config.Storage.Driver)
	return config, nil
}

// setDefaults registers every recognised key with its default value
func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_MODE", "dev")
	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SALT_ROUNDS", 12)

	v.SetDefault("STORAGE_DRIVER", DriverMongo)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASS", "")
	v.SetDefault("DB_NAME", "madhav_couriers")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "madhav_couriers")
	v.SetDefault("MONGO_TIMEOUT", "5s")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("TRACKING_CACHE_TTL", "30s")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRE", "1h")
	v.SetDefault("JWT_RENEW_WINDOW", "15m")

	v.SetDefault("LOCKOUT_MAX_ATTEMPTS", 5)
	v.SetDefault("LOCKOUT_DURATION", "30m")
	v.SetDefault("LOCKOUT_SWEEP_SCHEDULE", "@every 5m")

	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("COOKIE_SAMESITE", "lax")
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("CORS_ORIGIN", "")

	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("AUTH_RATE_LIMIT_MAX", 5)

	v.SetDefault("REALTIME_BUFFER", 50)
	v.SetDefault("REALTIME_HEARTBEAT", "30s")
	v.SetDefault("REALTIME_MSG_RATE", 5.0)
	v.SetDefault("REALTIME_MSG_BURST", 10)

	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "madhav-couriers")

	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@madhavcouriers.in")
	v.SetDefault("ADMIN_PASSWORD", "")
}

// Validate checks values that have no safe fallback
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverMongo, DriverMySQL, DriverPostgres, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("invalid STORAGE_DRIVER: '%s'", c.Storage.Driver))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.Expiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE must be positive"))
	}
	if c.JWT.RenewWindow < 0 || c.JWT.RenewWindow >= c.JWT.Expiry {
		errs = append(errs, errors.New("JWT_RENEW_WINDOW must be shorter than JWT_EXPIRE"))
	}
	if c.Lockout.MaxAttempts < 1 {
		errs = append(errs, errors.New("LOCKOUT_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Lockout.Duration <= 0 {
		errs = append(errs, errors.New("LOCKOUT_DURATION must be positive"))
	}
	if c.RateLimit.Max < 1 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive"))
	}
	if c.Realtime.BufferSize < 1 {
		errs = append(errs, errors.New("REALTIME_BUFFER must be at least 1"))
	}

	return errors.Join(errs...)
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := c.CORSOrigin
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origins
		return "https://madhavcouriers.in"
	}
	return origins
}
