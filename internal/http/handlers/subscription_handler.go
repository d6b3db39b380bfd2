package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/http/dto"
	"github.com/stars-panel/backend/internal/models"
	"github.com/stars-panel/backend/internal/services"
)

type SubscriptionHandler struct {
	subService *services.SubscriptionService
	log        *zap.Logger
}

func NewSubscriptionHandler(subService *services.SubscriptionService, log *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService, log: log}
}

// POST /subscriptions
func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.UserID == 0 || req.Product == "" || req.Plan == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "user_id, product and plan are required"})
	}
	if !models.IsValidProduct(req.Product) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "unknown product"})
	}
	if !models.IsValidPlan(req.Plan) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "unknown plan"})
	}

	sub, err := h.subService.Create(c.Context(), req.UserID, req.Product, req.Plan)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: sub})
}

// GET /subscriptions
func (h *SubscriptionHandler) List(c *fiber.Ctx) error {
	subs, err := h.subService.List(c.Context())
	if err != nil {
		h.log.Error("failed to list subscriptions", zap.Error(err))
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: subs})
}

// GET /subscriptions/:id
func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid subscription id"})
	}
	sub, err := h.subService.GetByID(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sub})
}

// GET /users/:id/subscriptions
func (h *SubscriptionHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	subs, err := h.subService.ListByUser(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: subs})
}

// PATCH /subscriptions/:id
func (h *SubscriptionHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid subscription id"})
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	sub, err := h.subService.Update(c.Context(), id, models.SubscriptionUpdate{
		Product: req.Product,
		Plan:    req.Plan,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sub})
}

// POST /subscriptions/:id/revoke
func (h *SubscriptionHandler) Revoke(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid subscription id"})
	}
	sub, err := h.subService.Revoke(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sub})
}

// POST /subscriptions/:id/regenerate-key
func (h *SubscriptionHandler) RegenerateKey(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid subscription id"})
	}
	sub, err := h.subService.RegenerateKey(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sub})
}

// ValidateKey is used by downstream services to check an API key.
// GET /subscriptions/validate/:key
func (h *SubscriptionHandler) ValidateKey(c *fiber.Ctx) error {
	key := c.Params("key")
	return c.JSON(dto.ValidateKeyResponse{Valid: h.subService.IsValidKey(c.Context(), key)})
}

// DELETE /subscriptions/:id
func (h *SubscriptionHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid subscription id"})
	}
	if err := h.subService.Delete(c.Context(), id); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// GET /subscriptions/stats
func (h *SubscriptionHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.subService.Stats(c.Context())
	if err != nil {
		h.log.Error("failed to load subscription stats", zap.Error(err))
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}
