package config

import (
	"context"
	"testing"

	"madhav-couriers/internal/adapters/persistence/repositories"
	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedConfig(pass string) *Config {
	return &Config{
		BcryptCost: bcrypt.MinCost,
		Admin:      AdminSeedConfig{Username: "admin", Email: "admin@example.com", Password: pass},
	}
}

func TestSeeder_CreatesDefaultAdminOnce(t *testing.T) {
	ctx := context.Background()
	admins := repositories.NewMemoryAdminRepository()

	require.NoError(t, NewSeeder(admins, seedConfig("admin123")).Run(ctx))
	require.NoError(t, NewSeeder(admins, seedConfig("other-password")).Run(ctx))

	n, err := admins.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	admin, err := admins.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.True(t, password.Verify("admin123", admin.Password))
	assert.NotEmpty(t, admin.ID)
}

func TestSeeder_SkipsWithoutPassword(t *testing.T) {
	ctx := context.Background()
	admins := repositories.NewMemoryAdminRepository()

	require.NoError(t, NewSeeder(admins, seedConfig("")).Run(ctx))
	n, err := admins.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeeder_RejectsShortPassword(t *testing.T) {
	admins := repositories.NewMemoryAdminRepository()
	assert.Error(t, NewSeeder(admins, seedConfig("short")).Run(context.Background()))
}
