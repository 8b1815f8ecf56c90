package handler

import (
	"net/http"

	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/features/fulfillment/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CreateOrderRequest is the order submission payload.
type CreateOrderRequest struct {
	// Provider selects the target supplier. Empty means the default provider.
	Provider string `json:"provider,omitempty"`
	// Order is the supplier-agnostic order body.
	Order domain.OrderRequest `json:"order"`
}

// CreateOrder godoc
// @Summary Submit an order to a fulfillment supplier
// @Description Routes the order to the named supplier (or the default one) and returns the normalized result with payment timing
// @Tags orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order payload"
// @Success 201 {object} domain.OrderResult
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /orders [post]
func (h *FulfillmentHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	result, err := h.router.CreateOrder(c.Context(), req.Order, req.Provider)
	if err != nil {
		logger.Get().Warn("Order submission failed",
			zap.String("provider", req.Provider),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(result)
}

// GetOrderStatus godoc
// @Summary Poll an order's current status
// @Description Re-fetches the order from its supplier and returns the canonical status
// @Tags orders
// @Produce json
// @Param id path string true "External order ID"
// @Param provider query string false "Supplier name, defaults to the default provider"
// @Success 200 {object} domain.OrderResult
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *FulfillmentHandler) GetOrderStatus(c *fiber.Ctx) error {
	externalOrderID := c.Params("id")
	if externalOrderID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "order id is required",
			RayID:   rayID(c),
		})
	}

	result, err := h.router.GetOrderStatus(c.Context(), externalOrderID, c.Query("provider"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// OrderOwnerResponse identifies who an internal order belongs to.
type OrderOwnerResponse struct {
	// TenantID is the owning tenant/store.
	TenantID string `json:"tenant_id"`
	// CustomerEmail is the ordering customer's contact email.
	CustomerEmail string `json:"customer_email"`
}

// GetOrderOwner godoc
// @Summary Resolve the owner of an internal order
// @Description Looks up the tenant/customer context recorded for an internal order id; no supplier call is made
// @Tags orders
// @Produce json
// @Param id path string true "Internal order ID"
// @Success 200 {object} OrderOwnerResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/owner [get]
func (h *FulfillmentHandler) GetOrderOwner(c *fiber.Ctx) error {
	owner, err := h.router.OrderOwner(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	return c.JSON(OrderOwnerResponse{
		TenantID:      owner.TenantID,
		CustomerEmail: owner.CustomerEmail,
	})
}

// CancelOrderResponse reports whether the supplier honored a cancellation.
type CancelOrderResponse struct {
	// Cancelled is true when the supplier accepted the cancellation.
	Cancelled bool `json:"cancelled"`
}

// CancelOrder godoc
// @Summary Request a best-effort order cancellation
// @Description Asks the supplier to cancel; suppliers without cancellation support report cancelled=false
// @Tags orders
// @Produce json
// @Param id path string true "External order ID"
// @Param provider query string false "Supplier name, defaults to the default provider"
// @Success 200 {object} CancelOrderResponse
// @Failure 503 {object} ErrorResponse
// @Router /orders/{id} [delete]
func (h *FulfillmentHandler) CancelOrder(c *fiber.Ctx) error {
	externalOrderID := c.Params("id")
	if externalOrderID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "order id is required",
			RayID:   rayID(c),
		})
	}

	cancelled, err := h.router.CancelOrder(c.Context(), externalOrderID, c.Query("provider"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(CancelOrderResponse{Cancelled: cancelled})
}

// QuoteShipping godoc
// @Summary Get an advisory shipping quote
// @Description Returns the supplier's non-binding shipping estimate for an order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order payload to quote"
// @Success 200 {object} domain.ShippingQuote
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /orders/quote [post]
func (h *FulfillmentHandler) QuoteShipping(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	quote, err := h.router.QuoteShipping(c.Context(), req.Order, req.Provider)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(quote)
}
