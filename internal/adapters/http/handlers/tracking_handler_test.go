package handlers

import (
	"net/http"
	"testing"

	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingHandler_Track(t *testing.T) {
	f := newFixture(t)
	f.createShipment(t, "MCL123456789")

	resp, env := f.do(t, http.MethodGet, "/api/shipments/track/mcl123456789", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)

	var view map[string]interface{}
	decode(t, env.Data, &view)
	assert.Equal(t, "MCL123456789", view["tracking_number"])
	assert.Equal(t, string(domain.StatusBooked), view["status"])
	assert.NotContains(t, view, "customer_phone")
	assert.NotContains(t, view, "id")
	assert.NotContains(t, view, "created_by")
	assert.Len(t, view["status_history"], 1)
}

func TestTrackingHandler_TrackErrors(t *testing.T) {
	f := newFixture(t)

	cases := map[string]int{
		"/api/shipments/track/MCL12345":     http.StatusBadRequest,
		"/api/shipments/track/ABC123456789": http.StatusBadRequest,
		"/api/shipments/track/MCL000000000": http.StatusNotFound,
	}
	for path, want := range cases {
		resp, env := f.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, want, resp.StatusCode, path)
		assert.False(t, env.Success, path)
	}
}

func TestRateHandler(t *testing.T) {
	f := newFixture(t)

	resp, env := f.do(t, http.MethodGet, "/api/shipments/rates", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var card services.RateCard
	decode(t, env.Data, &card)
	assert.Equal(t, "INR", card.Currency)
	assert.Len(t, card.Zones, 2)

	resp, env = f.do(t, http.MethodPost, "/api/shipments/rates/quote", services.QuoteInput{
		Origin:       "Delhi",
		Destination:  "Mumbai",
		Weight:       1.2,
		ServiceLevel: services.ServiceExpress,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	var quote services.Quote
	decode(t, env.Data, &quote)
	assert.Equal(t, services.ZoneNational, quote.Zone)
	assert.Equal(t, 1.5, quote.ChargeableWeight)
	assert.Equal(t, 240.0, quote.Total)

	resp, _ = f.do(t, http.MethodPost, "/api/shipments/rates/quote", services.QuoteInput{Origin: "Delhi"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthHandler(t *testing.T) {
	f := newFixture(t)

	resp, err := f.app.Test(newRequest(http.MethodGet, "/health"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Checks struct {
			Store struct {
				Driver string `json:"driver"`
				Status string `json:"status"`
			} `json:"store"`
			Cache string `json:"cache"`
		} `json:"checks"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "memory", body.Checks.Store.Driver)
	assert.Equal(t, "healthy", body.Checks.Store.Status)
	assert.Equal(t, "disabled", body.Checks.Cache)

	resp, err = f.app.Test(newRequest(http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
