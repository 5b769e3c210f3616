package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"madhav-couriers/internal/adapters/persistence/repositories"
	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/pkg/keylock"
	"madhav-couriers/internal/pkg/logger"
	"madhav-couriers/internal/pkg/metrics"
	"madhav-couriers/internal/pkg/pagination"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// History notes written by the lifecycle manager
const (
	NoteCreated   = "Shipment created"
	NoteUpdated   = "Status updated"
	NoteCancelled = "Shipment cancelled"
)

// generateAttempts bounds tracking number generation on collision
const generateAttempts = 5

// ShipmentService orchestrates shipment writes, history bookkeeping and notifications
type ShipmentService struct {
	repo      repositories.ShipmentRepository
	publisher Publisher
	cache     Cache
	cacheTTL  time.Duration
	locks     *keylock.KeyedMutex
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	now       Clock
	log       *zap.Logger
}

// NewShipmentService creates a new shipment service. cache may be nil.
func NewShipmentService(
	repo repositories.ShipmentRepository,
	publisher Publisher,
	cache Cache,
	cfg *config.Config,
	m *metrics.Metrics,
) *ShipmentService {
	return &ShipmentService{
		repo:      repo,
		publisher: publisher,
		cache:     cache,
		cacheTTL:  cfg.Redis.TrackingTTL,
		locks:     keylock.New(),
		metrics:   m,
		tracer:    otel.Tracer("madhav-couriers/shipments"),
		now:       time.Now,
		log:       logger.Named("shipments"),
	}
}

// WithClock replaces the time source
func (s *ShipmentService) WithClock(now Clock) *ShipmentService {
	s.now = now
	return s
}

// CreateShipmentInput represents create shipment input
type CreateShipmentInput struct {
	TrackingNumber string        `json:"tracking_number,omitempty"`
	CustomerName   string        `json:"customer_name"`
	CustomerPhone  string        `json:"customer_phone"`
	Origin         string        `json:"origin"`
	Destination    string        `json:"destination"`
	CurrentCity    string        `json:"current_city"`
	Status         domain.Status `json:"status,omitempty"`
	Weight         float64       `json:"weight"`
	Details        string        `json:"shipment_details,omitempty"`
}

// UpdateShipmentInput represents a partial update. Nil fields are left unchanged.
type UpdateShipmentInput struct {
	TrackingNumber *string        `json:"tracking_number,omitempty"`
	CustomerName   *string        `json:"customer_name,omitempty"`
	CustomerPhone  *string        `json:"customer_phone,omitempty"`
	Origin         *string        `json:"origin,omitempty"`
	Destination    *string        `json:"destination,omitempty"`
	CurrentCity    *string        `json:"current_city,omitempty"`
	Status         *domain.Status `json:"status,omitempty"`
	Weight         *float64       `json:"weight,omitempty"`
	Details        *string        `json:"shipment_details,omitempty"`
	Note           string         `json:"notes,omitempty"`
}

// ListShipmentsInput represents a listing request
type ListShipmentsInput struct {
	Filter domain.ShipmentFilter
	Page   int
	Limit  int
}

// ShipmentList is one page of shipments
type ShipmentList struct {
	Items []*domain.Shipment
	Meta  *pagination.Meta
}

func (s *ShipmentService) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// fail records err on the span and the error counter and returns it unchanged
func (s *ShipmentService) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.ShipmentErrors.WithLabelValues(op).Inc()
	return err
}

func requireWriter(actor *domain.Principal) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if !actor.Role.CanWrite() {
		return ErrForbidden
	}
	return nil
}

// Create validates input, persists the shipment with its first history entry and emits "created"
func (s *ShipmentService) Create(ctx context.Context, input CreateShipmentInput, actor *domain.Principal) (*domain.Shipment, error) {
	ctx, span := s.startSpan(ctx, "shipments.create")
	defer span.End()

	if err := requireWriter(actor); err != nil {
		return nil, s.fail(span, "create", err)
	}

	input.normalize()
	if err := input.Validate(); err != nil {
		return nil, s.fail(span, "create", err)
	}

	if input.TrackingNumber != "" {
		shipment, err := s.create(ctx, input.TrackingNumber, input, actor)
		if err != nil {
			return nil, s.fail(span, "create", err)
		}
		span.SetAttributes(attribute.String("shipment.tracking_number", shipment.TrackingNumber))
		return shipment, nil
	}

	for attempt := 1; attempt <= generateAttempts; attempt++ {
		tn, err := domain.GenerateTrackingNumber()
		if err != nil {
			return nil, s.fail(span, "create", err)
		}
		shipment, err := s.create(ctx, tn, input, actor)
		if errors.Is(err, domain.ErrDuplicateTrackingNumber) {
			s.log.Warn("generated tracking number collided", zap.String("tracking_number", tn), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, s.fail(span, "create", err)
		}
		span.SetAttributes(attribute.String("shipment.tracking_number", shipment.TrackingNumber))
		return shipment, nil
	}
	return nil, s.fail(span, "create", domain.ErrDuplicateTrackingNumber)
}

func (s *ShipmentService) create(ctx context.Context, tn string, input CreateShipmentInput, actor *domain.Principal) (*domain.Shipment, error) {
	unlock := s.locks.Lock(tn)
	defer unlock()

	now := s.now()
	shipment := &domain.Shipment{
		ID:             uuid.NewString(),
		TrackingNumber: tn,
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		Origin:         input.Origin,
		Destination:    input.Destination,
		CurrentCity:    input.CurrentCity,
		Status:         input.Status,
		Weight:         input.Weight,
		Details:        input.Details,
		StatusHistory: []domain.HistoryEntry{{
			Status:    input.Status,
			Location:  input.CurrentCity,
			Note:      NoteCreated,
			Timestamp: now,
		}},
		CreatedBy: actor.ID,
		UpdatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, shipment); err != nil {
		return nil, err
	}

	s.log.Info("shipment created", zap.String("tracking_number", tn), zap.String("by", actor.Username))
	s.invalidate(ctx, tn)
	s.emit(domain.ActionCreated, shipment)
	return shipment, nil
}

// resolve turns an admin-supplied identifier (tracking number or id) into a tracking number
func (s *ShipmentService) resolve(ctx context.Context, identifier string) (string, error) {
	if tn := domain.NormalizeTrackingNumber(identifier); domain.ValidTrackingNumber(tn) {
		return tn, nil
	}
	shipment, err := s.repo.GetByID(ctx, identifier)
	if err != nil {
		return "", err
	}
	return shipment.TrackingNumber, nil
}

// Update merges input into the shipment. A status or location change appends one history entry.
func (s *ShipmentService) Update(ctx context.Context, identifier string, input UpdateShipmentInput, actor *domain.Principal) (*domain.Shipment, error) {
	ctx, span := s.startSpan(ctx, "shipments.update", attribute.String("shipment.identifier", identifier))
	defer span.End()

	if err := requireWriter(actor); err != nil {
		return nil, s.fail(span, "update", err)
	}

	tn, err := s.resolve(ctx, identifier)
	if err != nil {
		return nil, s.fail(span, "update", err)
	}

	unlock := s.locks.Lock(tn)
	defer unlock()

	current, err := s.repo.GetByTrackingNumber(ctx, tn)
	if err != nil {
		return nil, s.fail(span, "update", err)
	}

	input.normalize()
	if err := input.Validate(current); err != nil {
		return nil, s.fail(span, "update", err)
	}

	patch := &domain.ShipmentPatch{
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Origin:        input.Origin,
		Destination:   input.Destination,
		CurrentCity:   input.CurrentCity,
		Status:        input.Status,
		Weight:        input.Weight,
		Details:       input.Details,
		UpdatedBy:     actor.ID,
		UpdatedAt:     s.updatedAt(current),
	}

	newStatus := current.Status
	if input.Status != nil {
		newStatus = *input.Status
	}
	newCity := current.CurrentCity
	if input.CurrentCity != nil {
		newCity = *input.CurrentCity
	}

	var entry *domain.HistoryEntry
	if newStatus != current.Status || newCity != current.CurrentCity {
		note := input.Note
		if note == "" {
			note = NoteUpdated
		}
		entry = &domain.HistoryEntry{
			Status:    newStatus,
			Location:  newCity,
			Note:      note,
			Timestamp: patch.UpdatedAt,
		}
	}

	updated, err := s.repo.Update(ctx, tn, patch, entry)
	if err != nil {
		return nil, s.fail(span, "update", err)
	}

	span.SetAttributes(attribute.Bool("shipment.history_appended", entry != nil))
	s.log.Info("shipment updated", zap.String("tracking_number", tn), zap.String("by", actor.Username),
		zap.String("status", string(updated.Status)))
	s.invalidate(ctx, tn)
	s.emit(domain.ActionUpdated, updated)
	return updated, nil
}

// Cancel moves the shipment to Cancelled. Cancelling twice returns the record unchanged and emits nothing.
func (s *ShipmentService) Cancel(ctx context.Context, identifier, reason string, actor *domain.Principal) (*domain.Shipment, error) {
	ctx, span := s.startSpan(ctx, "shipments.cancel", attribute.String("shipment.identifier", identifier))
	defer span.End()

	if err := requireWriter(actor); err != nil {
		return nil, s.fail(span, "cancel", err)
	}
	reason = strings.TrimSpace(reason)
	if err := validateCancelReason(reason); err != nil {
		return nil, s.fail(span, "cancel", err)
	}

	tn, err := s.resolve(ctx, identifier)
	if err != nil {
		return nil, s.fail(span, "cancel", err)
	}

	unlock := s.locks.Lock(tn)
	defer unlock()

	current, err := s.repo.GetByTrackingNumber(ctx, tn)
	if err != nil {
		return nil, s.fail(span, "cancel", err)
	}
	if current.Status == domain.StatusCancelled {
		return current, nil
	}

	if reason == "" {
		reason = NoteCancelled
	}
	status := domain.StatusCancelled
	patch := &domain.ShipmentPatch{
		Status:    &status,
		UpdatedBy: actor.ID,
		UpdatedAt: s.updatedAt(current),
	}
	entry := &domain.HistoryEntry{
		Status:    status,
		Location:  current.CurrentCity,
		Note:      reason,
		Timestamp: patch.UpdatedAt,
	}

	cancelled, err := s.repo.Update(ctx, tn, patch, entry)
	if err != nil {
		return nil, s.fail(span, "cancel", err)
	}

	s.log.Info("shipment cancelled", zap.String("tracking_number", tn), zap.String("by", actor.Username))
	s.invalidate(ctx, tn)
	s.emit(domain.ActionCancelled, cancelled)
	return cancelled, nil
}

// Purge physically deletes the shipment. Only a superadmin may purge.
func (s *ShipmentService) Purge(ctx context.Context, identifier string, actor *domain.Principal) error {
	ctx, span := s.startSpan(ctx, "shipments.purge", attribute.String("shipment.identifier", identifier))
	defer span.End()

	if actor == nil {
		return s.fail(span, "purge", ErrUnauthorized)
	}
	if err := Authorize(actor, domain.RoleSuperAdmin); err != nil {
		return s.fail(span, "purge", err)
	}

	tn, err := s.resolve(ctx, identifier)
	if err != nil {
		return s.fail(span, "purge", err)
	}

	unlock := s.locks.Lock(tn)
	defer unlock()

	current, err := s.repo.GetByTrackingNumber(ctx, tn)
	if err != nil {
		return s.fail(span, "purge", err)
	}
	if err := s.repo.Delete(ctx, tn); err != nil {
		return s.fail(span, "purge", err)
	}

	s.log.Info("shipment deleted", zap.String("tracking_number", tn), zap.String("by", actor.Username))
	s.invalidate(ctx, tn)
	s.emit(domain.ActionDeleted, current)
	return nil
}

// Track returns the public view of a shipment, reading through the cache
func (s *ShipmentService) Track(ctx context.Context, trackingNumber string) (*domain.PublicShipment, error) {
	tn := domain.NormalizeTrackingNumber(trackingNumber)
	ctx, span := s.startSpan(ctx, "shipments.track", attribute.String("shipment.tracking_number", tn))
	defer span.End()

	if !domain.ValidTrackingNumber(tn) {
		return nil, s.fail(span, "track", domain.ErrInvalidTrackingNumber)
	}

	if view := s.cached(ctx, tn); view != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return view, nil
	}

	shipment, err := s.repo.GetByTrackingNumber(ctx, tn)
	if err != nil {
		return nil, s.fail(span, "track", err)
	}

	view := shipment.Public()
	s.store(ctx, tn, view)
	return view, nil
}

// Get loads a full shipment by tracking number or internal id
func (s *ShipmentService) Get(ctx context.Context, identifier string) (*domain.Shipment, error) {
	ctx, span := s.startSpan(ctx, "shipments.get", attribute.String("shipment.identifier", identifier))
	defer span.End()

	var (
		shipment *domain.Shipment
		err      error
	)
	if tn := domain.NormalizeTrackingNumber(identifier); domain.ValidTrackingNumber(tn) {
		shipment, err = s.repo.GetByTrackingNumber(ctx, tn)
	} else {
		shipment, err = s.repo.GetByID(ctx, identifier)
	}
	if err != nil {
		return nil, s.fail(span, "get", err)
	}
	return shipment, nil
}

// List returns one page of shipments matching the filter
func (s *ShipmentService) List(ctx context.Context, input ListShipmentsInput) (*ShipmentList, error) {
	ctx, span := s.startSpan(ctx, "shipments.list")
	defer span.End()

	params := pagination.NewParams(input.Page, input.Limit)
	filter := input.Filter
	if filter.Sort.Field == "" {
		filter.Sort = domain.DefaultSort
	}

	items, total, err := s.repo.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, s.fail(span, "list", err)
	}

	span.SetAttributes(attribute.Int64("shipments.total", total))
	return &ShipmentList{Items: items, Meta: pagination.GetMeta(params, total)}, nil
}

// Stats derives the dashboard summary from a single snapshot read
func (s *ShipmentService) Stats(ctx context.Context) (*domain.Stats, error) {
	ctx, span := s.startSpan(ctx, "shipments.stats")
	defer span.End()

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, s.fail(span, "stats", err)
	}
	return ComputeStats(all, s.now()), nil
}

// ComputeStats counts shipments by category. "Today" is the server-local calendar day of now.
func ComputeStats(shipments []*domain.Shipment, now time.Time) *domain.Stats {
	stats := &domain.Stats{
		Total:    len(shipments),
		ByStatus: make(map[domain.Status]int, len(domain.AllStatuses)),
	}
	for _, st := range domain.AllStatuses {
		stats.ByStatus[st] = 0
	}

	local := now.Local()
	y, m, d := local.Date()
	for _, sh := range shipments {
		stats.ByStatus[sh.Status]++
		switch {
		case sh.Status == domain.StatusInTransit:
			stats.InTransit++
		case sh.Status == domain.StatusDelivered:
			uy, um, ud := sh.UpdatedAt.Local().Date()
			if uy == y && um == m && ud == d {
				stats.DeliveredToday++
			}
		case sh.Status.Pending():
			stats.Pending++
		}
	}
	return stats
}

// updatedAt is now, clamped so it never precedes creation
func (s *ShipmentService) updatedAt(current *domain.Shipment) time.Time {
	now := s.now()
	if now.Before(current.CreatedAt) {
		return current.CreatedAt
	}
	return now
}

// emit publishes while the caller still holds the per-record lock
func (s *ShipmentService) emit(action string, shipment *domain.Shipment) {
	s.metrics.ShipmentEvents.WithLabelValues(action).Inc()
	if s.publisher == nil {
		return
	}
	event := domain.ShipmentEvent{Action: action, Shipment: shipment}
	s.publisher.Publish(shipment.TrackingNumber, event)
	s.publisher.BroadcastAll(event)
}

func trackingKey(tn string) string {
	return "track:" + tn
}

func (s *ShipmentService) cached(ctx context.Context, tn string) *domain.PublicShipment {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, trackingKey(tn))
	if err != nil {
		s.metrics.TrackingCache.WithLabelValues("miss").Inc()
		return nil
	}
	var view domain.PublicShipment
	if err := json.Unmarshal(raw, &view); err != nil {
		s.metrics.TrackingCache.WithLabelValues("error").Inc()
		return nil
	}
	s.metrics.TrackingCache.WithLabelValues("hit").Inc()
	return &view
}

func (s *ShipmentService) store(ctx context.Context, tn string, view *domain.PublicShipment) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, trackingKey(tn), raw, s.cacheTTL); err != nil {
		s.log.Warn("tracking cache write failed", zap.String("tracking_number", tn), zap.Error(err))
	}
}

func (s *ShipmentService) invalidate(ctx context.Context, tn string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, trackingKey(tn)); err != nil {
		s.log.Warn("tracking cache invalidation failed", zap.String("tracking_number", tn), zap.Error(err))
	}
}
