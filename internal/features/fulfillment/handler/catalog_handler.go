package handler

import (
	"net/http"

	"fulfillment-hub/internal/features/fulfillment/service"

	"github.com/gofiber/fiber/v2"
)

// SearchCatalog godoc
// @Summary Search supplier catalogs
// @Description Searches one supplier when provider is given, otherwise fans out to every enabled supplier
// @Tags catalog
// @Produce json
// @Param q query string true "Search query"
// @Param provider query string false "Supplier name; empty searches all enabled suppliers"
// @Success 200 {object} service.SearchAllResult
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /catalog/search [get]
func (h *FulfillmentHandler) SearchCatalog(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "q query parameter is required",
			RayID:   rayID(c),
		})
	}

	if provider := c.Query("provider"); provider != "" {
		items, err := h.catalog.Search(c.Context(), provider, query)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(items)
	}

	result, err := h.catalog.SearchAll(c.Context(), query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// ImportItemRequest is the single-item import payload.
type ImportItemRequest struct {
	// Provider is the supplier to import from.
	Provider string `json:"provider"`
	// ExternalID is the supplier product id to import.
	ExternalID string `json:"external_id"`
}

// ImportItem godoc
// @Summary Import one supplier product into the catalog
// @Description Fetches the product from the supplier and persists it under a new internal id
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body ImportItemRequest true "Import payload"
// @Success 201 {object} service.ImportResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /catalog/import [post]
func (h *FulfillmentHandler) ImportItem(c *fiber.Ctx) error {
	var req ImportItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}
	if req.Provider == "" || req.ExternalID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "provider and external_id are required",
			RayID:   rayID(c),
		})
	}

	result, err := h.catalog.ImportOne(c.Context(), req.Provider, req.ExternalID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(result)
}

// BulkImportRequest is the bulk import payload.
type BulkImportRequest struct {
	// Provider is the supplier to import from.
	Provider string `json:"provider"`
	// Query is the supplier catalog search query.
	Query string `json:"query"`
	// MaxItems caps how many search results are imported. Zero means all.
	MaxItems int `json:"max_items,omitempty"`
}

// BulkImportResponse carries the per-item outcomes and derived counts.
type BulkImportResponse struct {
	// Results lists the outcome of every attempted item.
	Results []service.ImportResult `json:"results"`
	// Succeeded is the number of imported items.
	Succeeded int `json:"succeeded"`
	// Failed is the number of items that could not be imported.
	Failed int `json:"failed"`
}

// BulkImport godoc
// @Summary Import supplier search results in bulk
// @Description Searches the supplier and imports up to max_items results, reporting each item's outcome
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body BulkImportRequest true "Bulk import payload"
// @Success 200 {object} BulkImportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /catalog/bulk-import [post]
func (h *FulfillmentHandler) BulkImport(c *fiber.Ctx) error {
	var req BulkImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}
	if req.Provider == "" || req.Query == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "provider and query are required",
			RayID:   rayID(c),
		})
	}

	results, err := h.catalog.BulkImport(c.Context(), req.Query, req.Provider, req.MaxItems)
	if err != nil {
		return respondError(c, err)
	}

	succeeded, failed := service.ImportSummary(results)
	return c.JSON(BulkImportResponse{
		Results:   results,
		Succeeded: succeeded,
		Failed:    failed,
	})
}
