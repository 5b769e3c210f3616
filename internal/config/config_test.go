package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 15*time.Minute, cfg.JWT.RenewWindow)
	assert.Equal(t, 5, cfg.Lockout.MaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Lockout.Duration)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 5*time.Second, cfg.Mongo.Timeout)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.Equal(t, "admin123", cfg.Admin.Password)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
	assert.Same(t, cfg, AppConfig)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("JWT_EXPIRE", "2h")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("LOCKOUT_MAX_ATTEMPTS", "3")
	t.Setenv("CORS_ORIGIN", "https://track.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Lockout.MaxAttempts)
	assert.Equal(t, "https://track.example.com", cfg.GetAllowedOrigins())
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Empty(t, cfg.Admin.Password)
}

func TestLoad_ProdRequiresSecret(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("APP_MODE", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestDSNBuilders(t *testing.T) {
	d := DatabaseConfig{Host: "db", User: "u", Password: "p", DBName: "couriers", SSLMode: "disable"}

	assert.Equal(t, "u:p@tcp(db:3306)/couriers?charset=utf8mb4&parseTime=True&loc=Local", buildMySQLDSN(d))
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=couriers sslmode=disable", buildPostgresDSN(d))

	_, err := buildDialector(DriverMemory, d)
	assert.Error(t, err)
}
