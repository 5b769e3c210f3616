package services

import (
	"context"
	"time"

	"madhav-couriers/internal/core/domain"
)

// Publisher receives lifecycle events once a write is committed.
// NotificationHub is the production implementation.
type Publisher interface {
	Publish(trackingNumber string, event domain.ShipmentEvent)
	BroadcastAll(event domain.ShipmentEvent)
}

// Cache is the key/value port used for the public tracking view.
// cache.RedisAdapter implements it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Clock returns the current time; tests pin it
type Clock func() time.Time
