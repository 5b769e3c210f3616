package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"madhav-couriers/internal/adapters/persistence/repositories"
	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/pkg/password"

	"github.com/google/uuid"
)

// Seeder handles database seeding
type Seeder struct {
	admins repositories.AdminRepository
	cfg    *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(admins repositories.AdminRepository, cfg *Config) *Seeder {
	return &Seeder{admins: admins, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(ctx); err != nil {
		return fmt.Errorf("admin seeder: %w", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the default administrator when no administrator exists yet
func (s *Seeder) seedAdminUser(ctx context.Context) error {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Admin already exists
	}

	if s.cfg.Admin.Password == "" {
		log.Println("⚠️ Skipping admin seed: ADMIN_PASSWORD is not set")
		log.Println("   Create an administrator with cmd/reset-admin")
		return nil
	}
	if !password.ValidatePassword(s.cfg.Admin.Password) {
		return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", password.MinLength)
	}

	hashedPassword, err := password.HashWithCost(s.cfg.Admin.Password, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &domain.Admin{
		ID:        uuid.NewString(),
		Username:  s.cfg.Admin.Username,
		Email:     s.cfg.Admin.Email,
		Password:  hashedPassword,
		Role:      domain.RoleSuperAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrAdminAlreadyExists) {
			return nil
		}
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}
