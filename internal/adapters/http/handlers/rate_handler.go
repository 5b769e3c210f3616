package handlers

import (
	"madhav-couriers/internal/core/services"
	"madhav-couriers/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RateHandler serves the public rate calculator
type RateHandler struct {
	rateService *services.RateService
}

// NewRateHandler creates a new rate handler
func NewRateHandler(rateService *services.RateService) *RateHandler {
	return &RateHandler{rateService: rateService}
}

// Card handles GET /api/shipments/rates
// @Summary Rate card
// @Description Zone tariffs used by the price calculator
// @Tags Rates
// @Produce json
// @Success 200 {object} response.Response{data=services.RateCard}
// @Router /shipments/rates [get]
func (h *RateHandler) Card(c *fiber.Ctx) error {
	return response.Success(c, "Rate card retrieved successfully", h.rateService.Card())
}

// Quote handles POST /api/shipments/rates/quote
// @Summary Price quote
// @Description Price one parcel by route, weight and service level
// @Tags Rates
// @Accept json
// @Produce json
// @Param body body services.QuoteInput true "Parcel"
// @Success 200 {object} response.Response{data=services.Quote}
// @Failure 400 {object} response.Response
// @Router /shipments/rates/quote [post]
func (h *RateHandler) Quote(c *fiber.Ctx) error {
	var input services.QuoteInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	quote, err := h.rateService.Quote(input)
	if err != nil {
		return respondError(c, err, "Failed to calculate quote")
	}
	return response.Success(c, "Quote calculated successfully", quote)
}
