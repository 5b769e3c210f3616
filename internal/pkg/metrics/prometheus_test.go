package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handler(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)
	m.ShipmentEvents.WithLabelValues("created").Inc()
	m.NotificationsDropped.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ShipmentEvents.WithLabelValues("created")))

	app := fiber.New()
	app.Get("/metrics", Handler(reg))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "madhav_couriers_shipment_events_total")
	assert.Contains(t, string(body), "madhav_couriers_notifications_dropped_total 1")
}
