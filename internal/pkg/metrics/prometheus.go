package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "madhav_couriers"

// Metrics holds all prometheus metrics
type Metrics struct {
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
	ShipmentEvents       *prometheus.CounterVec
	ShipmentErrors       *prometheus.CounterVec
	LoginAttempts        *prometheus.CounterVec
	TrackingCache        *prometheus.CounterVec
	NotificationsOut     prometheus.Counter
	NotificationsDropped prometheus.Counter
	Subscribers          prometheus.Gauge
	LocksReleased        prometheus.Counter
}

// New registers the metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ShipmentEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "shipment_events_total",
			Help:      "The total number of shipment lifecycle events",
		}, []string{"action"}),
		ShipmentErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "shipment_errors_total",
			Help:      "The total number of failed shipment operations",
		}, []string{"operation"}),
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "login_attempts_total",
			Help:      "Administrator login attempts by result",
		}, []string{"result"}),
		TrackingCache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tracking_cache_total",
			Help:      "Public tracking cache lookups by result",
		}, []string{"result"}),
		NotificationsOut: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "notifications_delivered_total",
			Help:      "Messages handed to realtime subscribers",
		}),
		NotificationsDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "notifications_dropped_total",
			Help:      "Messages dropped because a subscriber buffer was full",
		}),
		Subscribers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "realtime_subscribers",
			Help:      "Currently connected realtime subscribers",
		}),
		LocksReleased: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "lockouts_released_total",
			Help:      "Expired administrator lockouts cleared by the sweeper",
		}),
	}
}

// NewRegistry returns a registry with the Go and process collectors installed
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler exposes reg in the prometheus text format
func Handler(reg *prometheus.Registry) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
}
