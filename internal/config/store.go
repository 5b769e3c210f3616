package config

import (
	"context"
	"fmt"

	"madhav-couriers/internal/adapters/persistence/repositories"
)

// OpenStore connects the backend named by STORAGE_DRIVER
func OpenStore(ctx context.Context, cfg *Config) (*repositories.Store, error) {
	switch cfg.Storage.Driver {
	case DriverMySQL, DriverPostgres:
		db, err := ConnectDatabase(cfg)
		if err != nil {
			return nil, err
		}
		store, err := repositories.NewGormStore(cfg.Storage.Driver, db)
		if err != nil {
			_ = CloseDatabase(db)
			return nil, err
		}
		return store, nil
	case DriverMongo:
		client, db, err := ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store, err := repositories.NewMongoStore(ctx, client, db)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return store, nil
	case DriverMemory:
		return repositories.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
