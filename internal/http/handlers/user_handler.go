package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/http/dto"
	"github.com/stars-panel/backend/internal/models"
	"github.com/stars-panel/backend/internal/services"
)

type UserHandler struct {
	userService *services.UserService
	log         *zap.Logger
}

func NewUserHandler(userService *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// GET /users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.Context())
	if err != nil {
		h.log.Error("failed to list users", zap.Error(err))
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: users})
}

// GET /users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	user, err := h.userService.GetByID(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}

// PATCH /users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	user, err := h.userService.Update(c.Context(), id, models.UserUpdate{
		Username: req.Username,
		Password: req.Password,
		IsBanned: req.IsBanned,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}

// ToggleBan flips the user's ban state.
// POST /users/:id/ban
func (h *UserHandler) ToggleBan(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}

	user, err := h.userService.GetByID(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}

	updated, err := h.userService.SetBan(c.Context(), id, !user.IsBanned)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: updated})
}

// DELETE /users/:id (cascades to subscriptions, wallets and sessions)
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	if err := h.userService.Delete(c.Context(), id); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
