package repositories

import (
	"context"
	"errors"
	"strings"

	"madhav-couriers/internal/adapters/persistence/models"
	"madhav-couriers/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// shipmentRepository implements ShipmentRepository on gorm
type shipmentRepository struct {
	db *gorm.DB
}

// NewShipmentRepository creates a new gorm shipment repository
func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &shipmentRepository{db: db}
}

func orderHistory(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func translateShipmentError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrShipmentNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicateTrackingNumber
	}
	return wrapStoreError(op, err)
}

// Create creates a shipment and its history rows in one transaction
func (r *shipmentRepository) Create(ctx context.Context, s *domain.Shipment) error {
	row := models.ShipmentFromDomain(s)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(row).Error
	})
	return translateShipmentError("create shipment", err)
}

// GetByTrackingNumber gets a shipment by tracking number
func (r *shipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	var row models.Shipment
	err := r.db.WithContext(ctx).
		Preload("History", orderHistory).
		Where("tracking_number = ?", trackingNumber).
		First(&row).Error
	if err != nil {
		return nil, translateShipmentError("get shipment", err)
	}
	return row.ToDomain(), nil
}

// GetByID gets a shipment by ID
func (r *shipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	var row models.Shipment
	err := r.db.WithContext(ctx).
		Preload("History", orderHistory).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, translateShipmentError("get shipment", err)
	}
	return row.ToDomain(), nil
}

// List lists shipments with filter, sort and pagination
func (r *shipmentRepository) List(ctx context.Context, filter domain.ShipmentFilter, offset, limit int) ([]*domain.Shipment, int64, error) {
	base := applyShipmentFilter(r.db.WithContext(ctx).Model(&models.Shipment{}), filter).
		Session(&gorm.Session{})

	// Count total
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, translateShipmentError("count shipments", err)
	}

	sort := filter.Sort
	if sort.Field == "" {
		sort = domain.DefaultSort
	}

	var rows []*models.Shipment
	err := base.
		Preload("History", orderHistory).
		Order(clause.OrderByColumn{Column: clause.Column{Name: sort.Field}, Desc: sort.Desc}).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateShipmentError("list shipments", err)
	}

	items := make([]*domain.Shipment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.ToDomain())
	}
	return items, total, nil
}

func applyShipmentFilter(q *gorm.DB, f domain.ShipmentFilter) *gorm.DB {
	like := func(v string) string {
		return "%" + escapeLike(strings.ToLower(strings.TrimSpace(v))) + "%"
	}

	if f.Search != "" {
		p := like(f.Search)
		q = q.Where(
			"(LOWER(tracking_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(origin) LIKE ? OR LOWER(destination) LIKE ? OR LOWER(current_city) LIKE ?)",
			p, p, p, p, p,
		)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.CurrentCity != "" {
		q = q.Where("LOWER(current_city) LIKE ?", like(f.CurrentCity))
	}
	if f.Origin != "" {
		q = q.Where("LOWER(origin) LIKE ?", like(f.Origin))
	}
	if f.Destination != "" {
		q = q.Where("LOWER(destination) LIKE ?", like(f.Destination))
	}
	return q
}

// ListAll reads every shipment
func (r *shipmentRepository) ListAll(ctx context.Context) ([]*domain.Shipment, error) {
	var rows []*models.Shipment
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, translateShipmentError("list shipments", err)
	}
	items := make([]*domain.Shipment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.ToDomain())
	}
	return items, nil
}

// Update applies patch and appends entry inside one transaction
func (r *shipmentRepository) Update(ctx context.Context, trackingNumber string, patch *domain.ShipmentPatch, entry *domain.HistoryEntry) (*domain.Shipment, error) {
	var out *domain.Shipment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Shipment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tracking_number = ?", trackingNumber).
			First(&row).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.Shipment{}).
			Where("id = ?", row.ID).
			Updates(models.PatchColumns(patch)).Error
		if err != nil {
			return err
		}

		if entry != nil {
			if err := tx.Create(models.HistoryFromDomain(row.ID, *entry)).Error; err != nil {
				return err
			}
		}

		var fresh models.Shipment
		if err := tx.Preload("History", orderHistory).Where("id = ?", row.ID).First(&fresh).Error; err != nil {
			return err
		}
		out = fresh.ToDomain()
		return nil
	})
	if err != nil {
		return nil, translateShipmentError("update shipment", err)
	}
	return out, nil
}

// Delete physically removes a shipment and its history
func (r *shipmentRepository) Delete(ctx context.Context, trackingNumber string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Shipment
		if err := tx.Where("tracking_number = ?", trackingNumber).First(&row).Error; err != nil {
			return err
		}
		if err := tx.Where("shipment_id = ?", row.ID).Delete(&models.ShipmentHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Shipment{}, "id = ?", row.ID).Error
	})
	return translateShipmentError("delete shipment", err)
}
