package repositories

import (
	"context"
	"fmt"

	"madhav-couriers/internal/adapters/persistence/models"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Store bundles the repositories of one backend with its lifecycle hooks
type Store struct {
	Driver    string
	Shipments ShipmentRepository
	Admins    AdminRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks the backend is reachable
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// NewGormStore builds a store on a relational database and migrates its tables
func NewGormStore(driver string, db *gorm.DB) (*Store, error) {
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	return &Store{
		Driver:    driver,
		Shipments: NewShipmentRepository(db),
		Admins:    NewAdminRepository(db),
		ping:      sqlDB.PingContext,
		close:     func(context.Context) error { return sqlDB.Close() },
	}, nil
}

// NewMongoStore builds a store on a mongo database and ensures its indexes
func NewMongoStore(ctx context.Context, client *mongo.Client, db *mongo.Database) (*Store, error) {
	shipments, err := NewMongoShipmentRepository(ctx, db)
	if err != nil {
		return nil, err
	}
	admins, err := NewMongoAdminRepository(ctx, db)
	if err != nil {
		return nil, err
	}

	return &Store{
		Driver:    "mongo",
		Shipments: shipments,
		Admins:    admins,
		ping:      func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:     client.Disconnect,
	}, nil
}

// NewMemoryStore builds a process-local store
func NewMemoryStore() *Store {
	return &Store{
		Driver:    "memory",
		Shipments: NewMemoryShipmentRepository(),
		Admins:    NewMemoryAdminRepository(),
	}
}
