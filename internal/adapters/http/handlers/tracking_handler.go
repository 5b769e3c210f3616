package handlers

import (
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TrackingHandler serves the public tracking lookup
type TrackingHandler struct {
	shipmentService *services.ShipmentService
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(shipmentService *services.ShipmentService) *TrackingHandler {
	return &TrackingHandler{shipmentService: shipmentService}
}

// Track handles GET /api/shipments/track/:trackingNumber
// @Summary Track shipment
// @Description Public view of a shipment and its status history
// @Tags Tracking
// @Produce json
// @Param trackingNumber path string true "Tracking number (MCL followed by 9 digits)"
// @Success 200 {object} response.Response{data=domain.PublicShipment}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /shipments/track/{trackingNumber} [get]
func (h *TrackingHandler) Track(c *fiber.Ctx) error {
	view, err := h.shipmentService.Track(c.Context(), c.Params("trackingNumber"))
	if err != nil {
		return respondError(c, err, "Failed to track shipment")
	}
	return response.Success(c, "Shipment retrieved successfully", view)
}
