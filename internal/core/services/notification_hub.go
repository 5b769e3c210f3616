package services

import (
	"errors"
	"sync"

	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/pkg/logger"
	"madhav-couriers/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Realtime event names
const (
	EventTrackingUpdate = "tracking-update"
	EventShipmentUpdate = "shipment-update"
)

// ErrSubscriberNotFound is returned for operations on an unknown or closed subscriber
var ErrSubscriberNotFound = errors.New("subscriber not found")

// Message is one server-to-client push
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// TrackingUpdate is the payload sent to tracking-number subscribers
type TrackingUpdate struct {
	Action   string                 `json:"action"`
	Shipment *domain.PublicShipment `json:"shipment"`
}

// ShipmentUpdate is the payload sent to the dashboard audience
type ShipmentUpdate struct {
	Action   string           `json:"action"`
	Shipment *domain.Shipment `json:"shipment"`
}

// Subscriber is one live connection. The hub closes Channel on UnsubscribeAll.
type Subscriber struct {
	ID      string
	Channel chan Message
}

// NotificationHub fans shipment events out to live connections
type NotificationHub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	tracking    map[string]map[string]struct{} // tracking number -> subscriber ids
	reverse     map[string]map[string]struct{} // subscriber id -> tracking numbers
	dashboard   map[string]struct{}
	bufferSize  int
	closed      bool
	metrics     *metrics.Metrics
	log         *zap.Logger
}

// NewNotificationHub creates a hub whose subscriber channels hold bufferSize messages
func NewNotificationHub(bufferSize int, m *metrics.Metrics) *NotificationHub {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &NotificationHub{
		subscribers: make(map[string]*Subscriber),
		tracking:    make(map[string]map[string]struct{}),
		reverse:     make(map[string]map[string]struct{}),
		dashboard:   make(map[string]struct{}),
		bufferSize:  bufferSize,
		metrics:     m,
		log:         logger.Named("hub"),
	}
}

// Register adds a connection. Registering an id twice returns the existing subscriber.
func (h *NotificationHub) Register(id string) (*Subscriber, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrSubscriberNotFound
	}
	if sub, ok := h.subscribers[id]; ok {
		return sub, nil
	}
	sub := &Subscriber{ID: id, Channel: make(chan Message, h.bufferSize)}
	h.subscribers[id] = sub
	h.metrics.Subscribers.Inc()
	h.log.Debug("subscriber registered", zap.String("subscriber", id), zap.Int("total", len(h.subscribers)))
	return sub, nil
}

// Subscribe admits subscriberID to updates for trackingNumber
func (h *NotificationHub) Subscribe(subscriberID, trackingNumber string) error {
	tn := domain.NormalizeTrackingNumber(trackingNumber)
	if !domain.ValidTrackingNumber(tn) {
		return domain.ErrInvalidTrackingNumber
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[subscriberID]; !ok {
		return ErrSubscriberNotFound
	}
	set, ok := h.tracking[tn]
	if !ok {
		set = make(map[string]struct{})
		h.tracking[tn] = set
	}
	set[subscriberID] = struct{}{}

	rev, ok := h.reverse[subscriberID]
	if !ok {
		rev = make(map[string]struct{})
		h.reverse[subscriberID] = rev
	}
	rev[tn] = struct{}{}
	return nil
}

// Unsubscribe removes one tracking-number subscription
func (h *NotificationHub) Unsubscribe(subscriberID, trackingNumber string) {
	tn := domain.NormalizeTrackingNumber(trackingNumber)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeSubscription(subscriberID, tn)
}

// removeSubscription must be called with h.mu held
func (h *NotificationHub) removeSubscription(subscriberID, tn string) {
	if set, ok := h.tracking[tn]; ok {
		delete(set, subscriberID)
		if len(set) == 0 {
			delete(h.tracking, tn)
		}
	}
	if rev, ok := h.reverse[subscriberID]; ok {
		delete(rev, tn)
		if len(rev) == 0 {
			delete(h.reverse, subscriberID)
		}
	}
}

// SubscribeDashboard adds subscriberID to the any-change audience
func (h *NotificationHub) SubscribeDashboard(subscriberID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[subscriberID]; !ok {
		return ErrSubscriberNotFound
	}
	h.dashboard[subscriberID] = struct{}{}
	return nil
}

// UnsubscribeAll drops every subscription of subscriberID and closes its channel
func (h *NotificationHub) UnsubscribeAll(subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subscribers[subscriberID]
	if !ok {
		return
	}
	for tn := range h.reverse[subscriberID] {
		h.removeSubscription(subscriberID, tn)
	}
	delete(h.dashboard, subscriberID)
	delete(h.subscribers, subscriberID)
	close(sub.Channel)
	h.metrics.Subscribers.Dec()
	h.log.Debug("subscriber unregistered", zap.String("subscriber", subscriberID), zap.Int("total", len(h.subscribers)))
}

// Publish delivers a tracking-update to every subscriber of trackingNumber
func (h *NotificationHub) Publish(trackingNumber string, event domain.ShipmentEvent) {
	if event.Shipment == nil {
		return
	}
	msg := Message{
		Event: EventTrackingUpdate,
		Data:  TrackingUpdate{Action: event.Action, Shipment: event.Shipment.Public()},
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id := range h.tracking[trackingNumber] {
		h.deliver(h.subscribers[id], msg)
	}
}

// BroadcastAll delivers a shipment-update to the dashboard audience
func (h *NotificationHub) BroadcastAll(event domain.ShipmentEvent) {
	if event.Shipment == nil {
		return
	}
	msg := Message{
		Event: EventShipmentUpdate,
		Data:  ShipmentUpdate{Action: event.Action, Shipment: event.Shipment.Clone()},
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id := range h.dashboard {
		h.deliver(h.subscribers[id], msg)
	}
}

// deliver never blocks: a full buffer drops the message for that subscriber only
func (h *NotificationHub) deliver(sub *Subscriber, msg Message) {
	if sub == nil {
		return
	}
	select {
	case sub.Channel <- msg:
		h.metrics.NotificationsOut.Inc()
	default:
		h.metrics.NotificationsDropped.Inc()
		h.log.Warn("subscriber buffer full, message dropped",
			zap.String("subscriber", sub.ID), zap.String("event", msg.Event))
	}
}

// SubscriberCount returns the number of subscribers of trackingNumber
func (h *NotificationHub) SubscriberCount(trackingNumber string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tracking[trackingNumber])
}

// TrackedCount returns how many tracking numbers have at least one subscriber
func (h *NotificationHub) TrackedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tracking)
}

// DashboardCount returns the size of the dashboard audience
func (h *NotificationHub) DashboardCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.dashboard)
}

// ClientCount returns the number of connected subscribers
func (h *NotificationHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber and refuses new ones
func (h *NotificationHub) Close() {
	h.mu.Lock()
	ids := make([]string, 0, len(h.subscribers))
	for id := range h.subscribers {
		ids = append(ids, id)
	}
	h.closed = true
	h.mu.Unlock()

	for _, id := range ids {
		h.UnsubscribeAll(id)
	}
	h.log.Info("notification hub closed", zap.Int("disconnected", len(ids)))
}
