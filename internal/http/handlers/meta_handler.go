package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stars-panel/backend/internal/models"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// GET /meta/products
func (h *MetaHandler) GetProducts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"products": []string{
		models.ProductFragment,
		models.ProductItem2,
		models.ProductItem3,
	}})
}

// GET /meta/plans
func (h *MetaHandler) GetPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": []string{
		models.PlanTrial,
		models.Plan1Month,
		models.Plan3Month,
		models.Plan1Year,
	}})
}
