// Command reset-admin creates an administrator or restores access to an existing one.
// The password, role and active flag are overwritten and any lockout is cleared.
//
// Usage:
//
//	reset-admin --username=admin --password=newsecret [--email=ops@madhavcouriers.in] [--role=superadmin]
//
// The store is selected by the same environment variables as the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/logger"
	"madhav-couriers/internal/pkg/metrics"
)

func main() {
	username := flag.String("username", "admin", "administrator username")
	email := flag.String("email", "", "administrator email, used when the account is created")
	pass := flag.String("password", "", "new password (at least 8 characters)")
	role := flag.String("role", string(domain.RoleSuperAdmin), "admin, superadmin or manager")
	flag.Parse()

	if *pass == "" {
		fmt.Fprintln(os.Stderr, "Usage: reset-admin --username=admin --password=newsecret [--role=superadmin]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.AppMode, cfg.LogLevel); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := config.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer store.Close(context.Background())

	auth := services.NewAuthService(store.Admins, cfg, metrics.New(metrics.NewRegistry()))
	admin, created, err := auth.ResetAdmin(ctx, services.ResetAdminInput{
		Username: *username,
		Email:    *email,
		Password: *pass,
		Role:     domain.Role(*role),
	})
	if err != nil {
		log.Fatalf("❌ Failed to reset admin: %v", err)
	}

	if created {
		fmt.Printf("✅ Admin %q created with role %s\n", admin.Username, admin.Role)
		return
	}
	fmt.Printf("✅ Admin %q reset with role %s\n", admin.Username, admin.Role)
}
