package handler

import (
	"net/http"
	"strings"

	"fulfillment-hub/internal/features/fulfillment/handler"
	"fulfillment-hub/internal/features/storefront/service"

	"github.com/gofiber/fiber/v2"
)

// StorefrontHandler handles HTTP requests for storefront order forwarding.
type StorefrontHandler struct {
	service *service.StorefrontService
}

// NewStorefrontHandler creates a new StorefrontHandler.
func NewStorefrontHandler(s *service.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{service: s}
}

// RegisterRoutes attaches the storefront endpoints to the app.
func (h *StorefrontHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/storefront/orders/:id/forward", h.ForwardOrder)
}

// ForwardOrder godoc
// @Summary Forward a storefront order to a supplier
// @Description Pulls the order from the storefront, translates it and submits it to the named supplier (or the default one)
// @Tags storefront
// @Produce json
// @Param id path string true "Storefront order ID"
// @Param provider query string false "Supplier name, defaults to the default provider"
// @Success 201 {object} domain.OrderResult
// @Failure 400 {object} handler.ErrorResponse
// @Failure 404 {object} handler.ErrorResponse
// @Failure 502 {object} handler.ErrorResponse
// @Router /storefront/orders/{id}/forward [post]
func (h *StorefrontHandler) ForwardOrder(c *fiber.Ctx) error {
	storefrontOrderID := c.Params("id")
	if storefrontOrderID == "" {
		return c.Status(http.StatusBadRequest).JSON(handler.ErrorResponse{
			Message: "storefront order id is required",
		})
	}

	result, err := h.service.ForwardOrder(c.Context(), storefrontOrderID, c.Query("provider"))
	if err != nil {
		// Untranslated errors here come from the storefront side, not the
		// supplier taxonomy.
		status := handler.StatusForError(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
			if strings.Contains(err.Error(), "order not found") {
				status = http.StatusNotFound
			}
		}
		return c.Status(status).JSON(handler.ErrorResponse{
			Message: err.Error(),
		})
	}

	return c.Status(http.StatusCreated).JSON(result)
}
