package handlers

import (
	"strings"

	"madhav-couriers/internal/adapters/http/middleware"
	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/pagination"
	"madhav-couriers/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ShipmentHandler handles the administrative shipment endpoints
type ShipmentHandler struct {
	shipmentService *services.ShipmentService
}

// NewShipmentHandler creates a new shipment handler
func NewShipmentHandler(shipmentService *services.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipmentService: shipmentService}
}

// CancelRequest is the optional body of a cancellation
type CancelRequest struct {
	Reason string `json:"reason"`
}

// List handles GET /api/shipments
// @Summary List shipments
// @Description List shipments with search, filters, sorting and pagination
// @Tags Shipments
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of tracking number, customer, origin, destination or current city"
// @Param status query string false "Exact status" Enums(Booked, In Transit, Out for Delivery, Delivered, Cancelled)
// @Param current_city query string false "Current city"
// @Param origin query string false "Origin"
// @Param destination query string false "Destination"
// @Param sortBy query string false "Sort field, prefix with - for descending" default(-updated_at)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response{data=pagination.Response}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	filter := domain.ShipmentFilter{
		Search:      strings.TrimSpace(c.Query("search")),
		CurrentCity: strings.TrimSpace(c.Query("current_city", c.Query("currentCity"))),
		Origin:      strings.TrimSpace(c.Query("origin")),
		Destination: strings.TrimSpace(c.Query("destination")),
		Sort:        domain.ParseSort(c.Query("sortBy", c.Query("sort"))),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return response.Invalid(c, "Validation failed", []domain.FieldError{{Field: "status", Message: "is not a known status"}})
		}
		filter.Status = status
	}

	params := pagination.GetParams(c)
	result, err := h.shipmentService.List(c.Context(), services.ListShipmentsInput{
		Filter: filter,
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		return respondError(c, err, "Failed to list shipments")
	}

	return response.Success(c, "Shipments retrieved successfully", pagination.Response{
		Data: result.Items,
		Meta: result.Meta,
	})
}

// Stats handles GET /api/shipments/stats
// @Summary Shipment statistics
// @Description Totals for the dashboard: all, in transit, delivered today, pending and per status
// @Tags Shipments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=domain.Stats}
// @Failure 401 {object} response.Response
// @Router /shipments/stats [get]
func (h *ShipmentHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.shipmentService.Stats(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to get statistics")
	}
	return response.Success(c, "Statistics retrieved successfully", stats)
}

// Get handles GET /api/shipments/:id
// @Summary Get shipment
// @Description Get the full shipment by internal id or tracking number
// @Tags Shipments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shipment id or tracking number"
// @Success 200 {object} response.Response{data=domain.Shipment}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /shipments/{id} [get]
func (h *ShipmentHandler) Get(c *fiber.Ctx) error {
	shipment, err := h.shipmentService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get shipment")
	}
	return response.Success(c, "Shipment retrieved successfully", shipment)
}

// Create handles POST /api/shipments
// @Summary Create shipment
// @Description Create a shipment. The tracking number is generated when omitted.
// @Tags Shipments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateShipmentInput true "Shipment"
// @Success 201 {object} response.Response{data=domain.Shipment}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /shipments [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var input services.CreateShipmentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	shipment, err := h.shipmentService.Create(c.Context(), input, middleware.GetPrincipal(c))
	if err != nil {
		return respondError(c, err, "Failed to create shipment")
	}
	return response.Created(c, "Shipment created successfully", shipment)
}

// Update handles PUT and PATCH /api/shipments/:id
// @Summary Update shipment
// @Description Update shipment fields. A status or location change appends one history entry.
// @Tags Shipments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shipment id or tracking number"
// @Param body body services.UpdateShipmentInput true "Fields to change"
// @Success 200 {object} response.Response{data=domain.Shipment}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /shipments/{id} [put]
// @Router /shipments/{id} [patch]
func (h *ShipmentHandler) Update(c *fiber.Ctx) error {
	var input services.UpdateShipmentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	shipment, err := h.shipmentService.Update(c.Context(), c.Params("id"), input, middleware.GetPrincipal(c))
	if err != nil {
		return respondError(c, err, "Failed to update shipment")
	}
	return response.Success(c, "Shipment updated successfully", shipment)
}

// Delete handles DELETE /api/shipments/:id
// @Summary Cancel or purge shipment
// @Description Cancel the shipment, keeping its record. With purge=true a superadmin deletes it permanently.
// @Tags Shipments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shipment id or tracking number"
// @Param purge query bool false "Delete permanently"
// @Param reason query string false "Cancellation note"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c *fiber.Ctx) error {
	actor := middleware.GetPrincipal(c)

	if c.QueryBool("purge") {
		if err := h.shipmentService.Purge(c.Context(), c.Params("id"), actor); err != nil {
			return respondError(c, err, "Failed to delete shipment")
		}
		return response.Success(c, "Shipment deleted successfully", nil)
	}

	reason := strings.TrimSpace(c.Query("reason"))
	if reason == "" && len(c.Body()) > 0 {
		var req CancelRequest
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
		reason = strings.TrimSpace(req.Reason)
	}

	shipment, err := h.shipmentService.Cancel(c.Context(), c.Params("id"), reason, actor)
	if err != nil {
		return respondError(c, err, "Failed to cancel shipment")
	}
	return response.Success(c, "Shipment cancelled successfully", shipment)
}
