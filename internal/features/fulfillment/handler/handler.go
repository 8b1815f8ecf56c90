package handler

import (
	"errors"
	"net/http"

	"fulfillment-hub/internal/features/fulfillment/domain"
	"fulfillment-hub/internal/features/fulfillment/service"

	"github.com/gofiber/fiber/v2"
)

// FulfillmentHandler handles HTTP requests for the fulfillment API.
type FulfillmentHandler struct {
	router    *service.OrderRouter
	catalog   *service.CatalogSyncEngine
	inventory *service.InventorySyncEngine
	health    *service.HealthMonitor
}

// NewFulfillmentHandler creates a new FulfillmentHandler.
func NewFulfillmentHandler(router *service.OrderRouter, catalog *service.CatalogSyncEngine, inventory *service.InventorySyncEngine, health *service.HealthMonitor) *FulfillmentHandler {
	return &FulfillmentHandler{
		router:    router,
		catalog:   catalog,
		inventory: inventory,
		health:    health,
	}
}

// RegisterRoutes attaches the fulfillment endpoints to the app.
func (h *FulfillmentHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/orders", h.CreateOrder)
	app.Post("/orders/quote", h.QuoteShipping)
	app.Get("/orders/:id", h.GetOrderStatus)
	app.Get("/orders/:id/owner", h.GetOrderOwner)
	app.Delete("/orders/:id", h.CancelOrder)
	app.Get("/catalog/search", h.SearchCatalog)
	app.Post("/catalog/import", h.ImportItem)
	app.Post("/catalog/bulk-import", h.BulkImport)
	app.Post("/inventory/sync", h.SyncInventory)
	app.Get("/health/providers", h.ProviderHealth)
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// StatusForError maps the domain error taxonomy onto HTTP status codes.
func StatusForError(err error) int {
	var (
		unavailable *domain.ProviderUnavailableError
		notFound    *domain.ProductNotFoundError
		rateLimited *domain.RateLimitError
		rejected    *domain.OrderCreationError
		transport   *domain.TransportError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidOrderRequest):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &rateLimited):
		return http.StatusTooManyRequests
	case errors.As(err, &rejected):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(StatusForError(err)).JSON(ErrorResponse{
		Message: err.Error(),
		RayID:   rayID(c),
	})
}
