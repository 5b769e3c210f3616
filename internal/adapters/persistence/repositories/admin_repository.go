package repositories

import (
	"context"
	"errors"
	"time"

	"madhav-couriers/internal/adapters/persistence/models"
	"madhav-couriers/internal/core/domain"

	"gorm.io/gorm"
)

// adminRepository implements AdminRepository on gorm
type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new gorm admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func translateAdminError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrAdminNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrAdminAlreadyExists
	}
	return wrapStoreError(op, err)
}

// Create creates a new admin
func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	return translateAdminError("create admin", r.db.WithContext(ctx).Create(models.AdminFromDomain(admin)).Error)
}

// GetByID gets an admin by ID
func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	var row models.Admin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translateAdminError("get admin", err)
	}
	return row.ToDomain(), nil
}

// GetByUsername gets an admin by username
func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var row models.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&row).Error; err != nil {
		return nil, translateAdminError("get admin", err)
	}
	return row.ToDomain(), nil
}

// Update saves every field of an admin
func (r *adminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	res := r.db.WithContext(ctx).Save(models.AdminFromDomain(admin))
	return translateAdminError("update admin", res.Error)
}

// UpdateLoginState writes the lockout bookkeeping fields
func (r *adminRepository) UpdateLoginState(ctx context.Context, id string, failedLogins int, lockedUntil, lastLogin *time.Time) error {
	cols := map[string]interface{}{
		"failed_logins": failedLogins,
		"locked_until":  lockedUntil,
	}
	if lastLogin != nil {
		cols["last_login"] = lastLogin
	}

	// RowsAffected is not checked: MySQL reports 0 for rows whose values did not change
	err := r.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Updates(cols).Error
	return translateAdminError("update admin login state", err)
}

// ClearExpiredLocks resets admins whose lockout has elapsed
func (r *adminRepository) ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("locked_until IS NOT NULL AND locked_until <= ?", now).
		Updates(map[string]interface{}{"failed_logins": 0, "locked_until": nil})
	return res.RowsAffected, translateAdminError("clear expired locks", res.Error)
}

// Count returns the number of admins
func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error
	return count, translateAdminError("count admins", err)
}
