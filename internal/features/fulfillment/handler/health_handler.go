package handler

import (
	"github.com/gofiber/fiber/v2"
)

// ProviderHealth godoc
// @Summary Report supplier availability
// @Description Probes every registered supplier and returns a point-in-time health record per provider
// @Tags health
// @Produce json
// @Success 200 {array} domain.HealthRecord
// @Router /health/providers [get]
func (h *FulfillmentHandler) ProviderHealth(c *fiber.Ctx) error {
	return c.JSON(h.health.CheckAll(c.Context()))
}
