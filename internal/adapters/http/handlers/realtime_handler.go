package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"madhav-couriers/internal/adapters/http/middleware"
	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/logger"
	"madhav-couriers/internal/pkg/response"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client to server events
const (
	EventSubscribe   = "subscribe-to-tracking"
	EventUnsubscribe = "unsubscribe-from-tracking"
)

// Server acknowledgements
const (
	EventConnected    = "connected"
	EventSubscribed   = "subscribed"
	EventUnsubscribed = "unsubscribed"
	EventError        = "error"
)

const (
	defaultHeartbeat = 30 * time.Second
	writeWait        = 10 * time.Second
	localsDashboard  = "dashboard"
)

// ClientMessage is one message sent by a WebSocket client
type ClientMessage struct {
	Event          string `json:"event"`
	TrackingNumber string `json:"trackingNumber"`
}

// RealtimeHandler exposes the notification hub over WebSocket and SSE
type RealtimeHandler struct {
	hub       *services.NotificationHub
	heartbeat time.Duration
	msgRate   rate.Limit
	burst     int
	log       *zap.Logger
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(hub *services.NotificationHub, cfg *config.Config) *RealtimeHandler {
	h := &RealtimeHandler{
		hub:       hub,
		heartbeat: cfg.Realtime.Heartbeat,
		msgRate:   rate.Limit(cfg.Realtime.MessagesPerSec),
		burst:     cfg.Realtime.Burst,
		log:       logger.Named("realtime"),
	}
	if h.heartbeat <= 0 {
		h.heartbeat = defaultHeartbeat
	}
	if cfg.Realtime.MessagesPerSec <= 0 {
		h.msgRate = rate.Inf
	}
	if h.burst < 1 {
		h.burst = 1
	}
	return h
}

// ============================================================
// WebSocket
// ============================================================

// Upgrade rejects plain HTTP requests and marks authenticated administrators
// for the dashboard audience. It runs after OptionalAuth.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals(localsDashboard, middleware.GetPrincipal(c) != nil)
	return c.Next()
}

// WebSocket handles GET /ws
// @Summary Realtime channel
// @Description WebSocket. Send {"event":"subscribe-to-tracking","trackingNumber":"MCL..."} to receive tracking-update messages. Administrators presenting a token at upgrade also receive shipment-update messages.
// @Tags Realtime
// @Success 101 {string} string "Switching Protocols"
// @Failure 426 {object} response.Response
// @Router /ws [get]
func (h *RealtimeHandler) WebSocket() fiber.Handler {
	return websocket.New(h.serve)
}

// wsConn serializes writes; the websocket connection allows one concurrent writer
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) send(msg services.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteJSON(msg)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func errorMessage(text string) services.Message {
	return services.Message{Event: EventError, Data: fiber.Map{"message": text}}
}

func (h *RealtimeHandler) serve(conn *websocket.Conn) {
	id := uuid.NewString()
	out := &wsConn{conn: conn}

	sub, err := h.hub.Register(id)
	if err != nil {
		_ = out.send(errorMessage("Server is shutting down"))
		return
	}

	dashboard, _ := conn.Locals(localsDashboard).(bool)
	if dashboard {
		_ = h.hub.SubscribeDashboard(id)
	}
	h.log.Debug("websocket connected", zap.String("client", id), zap.Bool("dashboard", dashboard))

	if err := out.send(services.Message{Event: EventConnected, Data: fiber.Map{"clientId": id, "dashboard": dashboard}}); err != nil {
		h.hub.UnsubscribeAll(id)
		return
	}

	done := make(chan struct{})
	go h.pump(out, sub, done)

	limiter := rate.NewLimiter(h.msgRate, h.burst)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if !limiter.Allow() {
			_ = out.send(errorMessage("Too many messages, slow down"))
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = out.send(errorMessage("Malformed message"))
			continue
		}
		h.handle(id, msg, out)
	}

	// closes sub.Channel, which stops the pump
	h.hub.UnsubscribeAll(id)
	<-done
	h.log.Debug("websocket disconnected", zap.String("client", id))
}

func (h *RealtimeHandler) handle(id string, msg ClientMessage, out *wsConn) {
	tn := domain.NormalizeTrackingNumber(msg.TrackingNumber)

	switch msg.Event {
	case EventSubscribe:
		if err := h.hub.Subscribe(id, tn); err != nil {
			if errors.Is(err, domain.ErrInvalidTrackingNumber) {
				_ = out.send(errorMessage("Invalid tracking number format"))
				return
			}
			_ = out.send(errorMessage("Subscription failed"))
			return
		}
		_ = out.send(services.Message{Event: EventSubscribed, Data: fiber.Map{"trackingNumber": tn}})
	case EventUnsubscribe:
		h.hub.Unsubscribe(id, tn)
		_ = out.send(services.Message{Event: EventUnsubscribed, Data: fiber.Map{"trackingNumber": tn}})
	default:
		_ = out.send(errorMessage("Unknown event"))
	}
}

// pump forwards hub messages to the socket until the subscriber channel closes
func (h *RealtimeHandler) pump(out *wsConn, sub *services.Subscriber, done chan<- struct{}) {
	defer close(done)

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case msg, ok := <-sub.Channel:
			if !ok {
				return
			}
			if err := out.send(msg); err != nil {
				// unblock the reader so the connection is torn down
				_ = out.conn.Close()
				h.drain(sub)
				return
			}
		case <-heartbeat.C:
			if err := out.ping(); err != nil {
				_ = out.conn.Close()
				h.drain(sub)
				return
			}
		}
	}
}

// drain discards messages until the hub closes the channel
func (h *RealtimeHandler) drain(sub *services.Subscriber) {
	for range sub.Channel {
	}
}

// ============================================================
// Server-Sent Events
// ============================================================

// TrackingEvents handles GET /api/shipments/track/:trackingNumber/events
// @Summary Tracking event stream
// @Description Server-Sent Events carrying tracking-update messages for one tracking number
// @Tags Realtime
// @Produce text/event-stream
// @Param trackingNumber path string true "Tracking number"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} response.Response
// @Router /shipments/track/{trackingNumber}/events [get]
func (h *RealtimeHandler) TrackingEvents(c *fiber.Ctx) error {
	tn := domain.NormalizeTrackingNumber(c.Params("trackingNumber"))
	if !domain.ValidTrackingNumber(tn) {
		return response.BadRequest(c, "Invalid tracking number format")
	}

	id := "sse-" + uuid.NewString()
	sub, err := h.hub.Register(id)
	if err != nil {
		return response.ServiceUnavailable(c, "Realtime updates unavailable", err)
	}
	if err := h.hub.Subscribe(id, tn); err != nil {
		h.hub.UnsubscribeAll(id)
		return respondError(c, err, "Failed to subscribe")
	}

	return h.stream(c, sub, fiber.Map{"clientId": id, "trackingNumber": tn})
}

// DashboardEvents handles GET /api/shipments/events
// @Summary Dashboard event stream
// @Description Server-Sent Events carrying shipment-update messages for every shipment change
// @Tags Realtime
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event stream"
// @Failure 401 {object} response.Response
// @Router /shipments/events [get]
func (h *RealtimeHandler) DashboardEvents(c *fiber.Ctx) error {
	id := "sse-" + uuid.NewString()
	sub, err := h.hub.Register(id)
	if err != nil {
		return response.ServiceUnavailable(c, "Realtime updates unavailable", err)
	}
	if err := h.hub.SubscribeDashboard(id); err != nil {
		h.hub.UnsubscribeAll(id)
		return respondError(c, err, "Failed to subscribe")
	}

	return h.stream(c, sub, fiber.Map{"clientId": id})
}

// stream writes sub's messages as an event stream. The subscriber is removed when
// the client goes away or the hub closes.
func (h *RealtimeHandler) stream(c *fiber.Ctx, sub *services.Subscriber, hello fiber.Map) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer h.hub.UnsubscribeAll(sub.ID)

		if err := writeSSE(w, services.Message{Event: EventConnected, Data: hello}); err != nil {
			return
		}

		heartbeat := time.NewTicker(h.heartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case msg, ok := <-sub.Channel:
				if !ok {
					return
				}
				if err := writeSSE(w, msg); err != nil {
					h.log.Debug("sse client disconnected", zap.String("client", sub.ID))
					return
				}
			case <-heartbeat.C:
				fmt.Fprint(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					h.log.Debug("sse client disconnected", zap.String("client", sub.ID))
					return
				}
			}
		}
	})

	return nil
}

// writeSSE writes one event and flushes it
func writeSSE(w *bufio.Writer, msg services.Message) error {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, data)
	return w.Flush()
}
