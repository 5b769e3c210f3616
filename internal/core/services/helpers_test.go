package services

import (
	"sync"
	"testing"
	"time"

	"madhav-couriers/internal/adapters/persistence/repositories"
	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode:    "dev",
		BcryptCost: bcrypt.MinCost,
		Redis:      config.RedisConfig{TrackingTTL: 30 * time.Second},
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			Expiry:      time.Hour,
			RenewWindow: 15 * time.Minute,
		},
		Lockout: config.LockoutConfig{
			MaxAttempts:   5,
			Duration:      30 * time.Minute,
			SweepSchedule: "@every 5m",
		},
		Realtime: config.RealtimeConfig{BufferSize: 8},
	}
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingPublisher keeps every event it is handed
type recordingPublisher struct {
	mu         sync.Mutex
	published  []domain.ShipmentEvent
	broadcasts []domain.ShipmentEvent
}

func (p *recordingPublisher) Publish(_ string, event domain.ShipmentEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
}

func (p *recordingPublisher) BroadcastAll(event domain.ShipmentEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcasts = append(p.broadcasts, event)
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.published))
	for i, e := range p.published {
		out[i] = e.Action
	}
	return out
}

var (
	adminActor   = &domain.Principal{ID: "admin-1", Username: "admin", Role: domain.RoleAdmin}
	managerActor = &domain.Principal{ID: "manager-1", Username: "manager", Role: domain.RoleManager}
	superActor   = &domain.Principal{ID: "super-1", Username: "root", Role: domain.RoleSuperAdmin}
)

func validCreateInput(tn string) CreateShipmentInput {
	return CreateShipmentInput{
		TrackingNumber: tn,
		CustomerName:   "A",
		CustomerPhone:  "+91 98450-00000",
		Origin:         "Delhi",
		Destination:    "Mumbai",
		CurrentCity:    "Delhi",
		Status:         domain.StatusBooked,
		Weight:         2,
	}
}

type shipmentFixture struct {
	svc   *ShipmentService
	repo  repositories.ShipmentRepository
	pub   *recordingPublisher
	clock *fakeClock
}

func newShipmentFixture(t *testing.T, cache Cache) *shipmentFixture {
	t.Helper()
	repo := repositories.NewMemoryShipmentRepository()
	pub := &recordingPublisher{}
	clock := newFakeClock(time.Now())
	svc := NewShipmentService(repo, pub, cache, testConfig(), testMetrics()).WithClock(clock.Now)
	return &shipmentFixture{svc: svc, repo: repo, pub: pub, clock: clock}
}
