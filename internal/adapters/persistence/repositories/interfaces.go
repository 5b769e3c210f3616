package repositories

import (
	"context"
	"time"

	"madhav-couriers/internal/core/domain"
)

// ShipmentRepository defines the shipment store.
// Implementations translate driver errors into domain errors.
type ShipmentRepository interface {
	// Create inserts s together with its initial status history
	Create(ctx context.Context, s *domain.Shipment) error
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	GetByID(ctx context.Context, id string) (*domain.Shipment, error)
	List(ctx context.Context, filter domain.ShipmentFilter, offset, limit int) ([]*domain.Shipment, int64, error)
	// ListAll reads every shipment in one query
	ListAll(ctx context.Context) ([]*domain.Shipment, error)
	// Update applies patch and appends entry (when non-nil) as one atomic write
	Update(ctx context.Context, trackingNumber string, patch *domain.ShipmentPatch, entry *domain.HistoryEntry) (*domain.Shipment, error)
	Delete(ctx context.Context, trackingNumber string) error
}

// AdminRepository defines the administrator store
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	Update(ctx context.Context, admin *domain.Admin) error
	UpdateLoginState(ctx context.Context, id string, failedLogins int, lockedUntil, lastLogin *time.Time) error
	ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}
