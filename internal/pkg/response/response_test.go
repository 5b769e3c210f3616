package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, app *fiber.App) (int, Response) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestInternalServerError_DetailOnlyInDebug(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return InternalServerError(c, "Failed to load shipment", errors.New("connection refused"))
	})

	SetDebug(false)
	status, body := decode(t, app)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.False(t, body.Success)
	assert.Equal(t, "Failed to load shipment", body.Error)
	assert.Nil(t, body.Details)

	SetDebug(true)
	defer SetDebug(false)
	_, body = decode(t, app)
	assert.Equal(t, "connection refused", body.Details)
}

func TestCreated(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Created(c, "Shipment created", fiber.Map{"tracking_number": "MCL100000001"})
	})

	status, body := decode(t, app)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.True(t, body.Success)
	assert.Equal(t, "Shipment created", body.Message)
}
