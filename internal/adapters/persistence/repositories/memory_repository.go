package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"madhav-couriers/internal/core/domain"
)

// memoryShipmentRepository keeps shipments in process memory.
// It backs tests and the "memory" storage driver.
type memoryShipmentRepository struct {
	mu    sync.RWMutex
	byTN  map[string]*domain.Shipment
	idxID map[string]string
}

// NewMemoryShipmentRepository creates an empty in-memory shipment repository
func NewMemoryShipmentRepository() ShipmentRepository {
	return &memoryShipmentRepository{
		byTN:  make(map[string]*domain.Shipment),
		idxID: make(map[string]string),
	}
}

func (r *memoryShipmentRepository) Create(ctx context.Context, s *domain.Shipment) error {
	if err := ctx.Err(); err != nil {
		return wrapStoreError("create shipment", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTN[s.TrackingNumber]; exists {
		return domain.ErrDuplicateTrackingNumber
	}
	r.byTN[s.TrackingNumber] = s.Clone()
	r.idxID[s.ID] = s.TrackingNumber
	return nil
}

func (r *memoryShipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapStoreError("get shipment", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byTN[trackingNumber]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	return s.Clone(), nil
}

func (r *memoryShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapStoreError("get shipment", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	tn, ok := r.idxID[id]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	return r.byTN[tn].Clone(), nil
}

func (r *memoryShipmentRepository) List(ctx context.Context, f domain.ShipmentFilter, offset, limit int) ([]*domain.Shipment, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, wrapStoreError("list shipments", err)
	}
	r.mu.RLock()
	matched := make([]*domain.Shipment, 0, len(r.byTN))
	for _, s := range r.byTN {
		if matchesFilter(s, f) {
			matched = append(matched, s.Clone())
		}
	}
	r.mu.RUnlock()

	sortShipments(matched, f.Sort)

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*domain.Shipment{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *memoryShipmentRepository) ListAll(ctx context.Context) ([]*domain.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapStoreError("list shipments", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*domain.Shipment, 0, len(r.byTN))
	for _, s := range r.byTN {
		items = append(items, s.Clone())
	}
	return items, nil
}

func (r *memoryShipmentRepository) Update(ctx context.Context, trackingNumber string, patch *domain.ShipmentPatch, entry *domain.HistoryEntry) (*domain.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapStoreError("update shipment", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byTN[trackingNumber]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	patch.Apply(s)
	if entry != nil {
		s.StatusHistory = append(s.StatusHistory, *entry)
	}
	return s.Clone(), nil
}

func (r *memoryShipmentRepository) Delete(ctx context.Context, trackingNumber string) error {
	if err := ctx.Err(); err != nil {
		return wrapStoreError("delete shipment", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byTN[trackingNumber]
	if !ok {
		return domain.ErrShipmentNotFound
	}
	delete(r.idxID, s.ID)
	delete(r.byTN, trackingNumber)
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func matchesFilter(s *domain.Shipment, f domain.ShipmentFilter) bool {
	if f.Search != "" &&
		!containsFold(s.TrackingNumber, f.Search) &&
		!containsFold(s.CustomerName, f.Search) &&
		!containsFold(s.Origin, f.Search) &&
		!containsFold(s.Destination, f.Search) &&
		!containsFold(s.CurrentCity, f.Search) {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.CurrentCity != "" && !containsFold(s.CurrentCity, f.CurrentCity) {
		return false
	}
	if f.Origin != "" && !containsFold(s.Origin, f.Origin) {
		return false
	}
	if f.Destination != "" && !containsFold(s.Destination, f.Destination) {
		return false
	}
	return true
}

func sortShipments(items []*domain.Shipment, by domain.ShipmentSort) {
	if by.Field == "" {
		by = domain.DefaultSort
	}
	less := func(a, b *domain.Shipment) int {
		switch by.Field {
		case "created_at":
			return a.CreatedAt.Compare(b.CreatedAt)
		case "tracking_number":
			return strings.Compare(a.TrackingNumber, b.TrackingNumber)
		case "status":
			return strings.Compare(string(a.Status), string(b.Status))
		case "customer_name":
			return strings.Compare(a.CustomerName, b.CustomerName)
		default:
			return a.UpdatedAt.Compare(b.UpdatedAt)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := less(items[i], items[j])
		if c == 0 {
			return items[i].TrackingNumber < items[j].TrackingNumber
		}
		if by.Desc {
			return c > 0
		}
		return c < 0
	})
}

// memoryAdminRepository keeps administrators in process memory
type memoryAdminRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Admin
	byName map[string]string
}

// NewMemoryAdminRepository creates an empty in-memory admin repository
func NewMemoryAdminRepository() AdminRepository {
	return &memoryAdminRepository{
		byID:   make(map[string]*domain.Admin),
		byName: make(map[string]string),
	}
}

func cloneAdmin(a *domain.Admin) *domain.Admin {
	c := *a
	if a.LockedUntil != nil {
		t := *a.LockedUntil
		c.LockedUntil = &t
	}
	if a.LastLogin != nil {
		t := *a.LastLogin
		c.LastLogin = &t
	}
	return &c
}

func (r *memoryAdminRepository) Create(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[admin.Username]; exists {
		return domain.ErrAdminAlreadyExists
	}
	r.byID[admin.ID] = cloneAdmin(admin)
	r.byName[admin.Username] = admin.ID
	return nil
}

func (r *memoryAdminRepository) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	return cloneAdmin(a), nil
}

func (r *memoryAdminRepository) GetByUsername(_ context.Context, username string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	return cloneAdmin(r.byID[id]), nil
}

func (r *memoryAdminRepository) Update(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[admin.ID]
	if !ok {
		return domain.ErrAdminNotFound
	}
	if old.Username != admin.Username {
		if _, taken := r.byName[admin.Username]; taken {
			return domain.ErrAdminAlreadyExists
		}
		delete(r.byName, old.Username)
		r.byName[admin.Username] = admin.ID
	}
	r.byID[admin.ID] = cloneAdmin(admin)
	return nil
}

func (r *memoryAdminRepository) UpdateLoginState(_ context.Context, id string, failedLogins int, lockedUntil, lastLogin *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAdminNotFound
	}
	a.FailedLogins = failedLogins
	a.LockedUntil = nil
	if lockedUntil != nil {
		t := *lockedUntil
		a.LockedUntil = &t
	}
	if lastLogin != nil {
		t := *lastLogin
		a.LastLogin = &t
	}
	return nil
}

func (r *memoryAdminRepository) ClearExpiredLocks(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cleared int64
	for _, a := range r.byID {
		if a.LockedUntil != nil && !now.Before(*a.LockedUntil) {
			a.LockedUntil = nil
			a.FailedLogins = 0
			cleared++
		}
	}
	return cleared, nil
}

func (r *memoryAdminRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}
