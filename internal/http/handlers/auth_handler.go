package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/auth"
	"github.com/stars-panel/backend/internal/config"
	"github.com/stars-panel/backend/internal/http/dto"
	"github.com/stars-panel/backend/internal/services"
)

type AuthHandler struct {
	userService *services.UserService
	cfg         *config.Config
	log         *zap.Logger
}

func NewAuthHandler(userService *services.UserService, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, cfg: cfg, log: log}
}

// Register creates a panel user.
// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if len(req.Username) < 3 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "username must be at least 3 characters"})
	}
	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "password must be at least 6 characters"})
	}

	user, err := h.userService.Register(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: user})
}

// Login verifies credentials and issues a JWT. Banned users cannot
// log in.
// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "username and password are required"})
	}

	ok, err := h.userService.Verify(c.Context(), req.Username, req.Password)
	if err != nil {
		h.log.Error("login verify failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid username or password"})
	}

	user, err := h.userService.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return respondErr(c, err)
	}
	if user.IsBanned {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "account is banned"})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.Username, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to sign token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.AuthResponse{Token: token, User: user})
}
