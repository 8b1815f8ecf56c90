package handler

import (
	"net/http"

	"fulfillment-hub/internal/features/fulfillment/domain"

	"github.com/gofiber/fiber/v2"
)

// SyncInventoryRequest is the inventory sync payload.
type SyncInventoryRequest struct {
	// Updates lists the quantity changes to push out.
	Updates []domain.InventoryUpdate `json:"updates"`
}

// SyncInventoryResponse carries the per-item outcomes in input order.
type SyncInventoryResponse struct {
	// Records line up with the submitted updates.
	Records []domain.InventoryUpdateRecord `json:"records"`
}

// SyncInventory godoc
// @Summary Push inventory updates to suppliers
// @Description Applies quantity changes across suppliers; one supplier being down marks only its items provider_unavailable
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body SyncInventoryRequest true "Inventory updates"
// @Success 200 {object} SyncInventoryResponse
// @Failure 400 {object} ErrorResponse
// @Router /inventory/sync [post]
func (h *FulfillmentHandler) SyncInventory(c *fiber.Ctx) error {
	var req SyncInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}
	if len(req.Updates) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "at least one update is required",
			RayID:   rayID(c),
		})
	}

	records := h.inventory.SyncBatch(c.Context(), req.Updates)
	return c.JSON(SyncInventoryResponse{Records: records})
}
