package config

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo creates a MongoDB client and checks the server is reachable
func ConnectMongo(ctx context.Context, cfg *Config) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetServerSelectionTimeout(cfg.Mongo.Timeout)

	ctx, cancel := context.WithTimeout(ctx, 2*cfg.Mongo.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	// Ping to check connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Printf("✅ MongoDB connected successfully [%s]", cfg.Mongo.Database)
	return client, client.Database(cfg.Mongo.Database), nil
}
