package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/http/dto"
	"github.com/stars-panel/backend/internal/models"
	"github.com/stars-panel/backend/internal/services"
)

type WalletHandler struct {
	walletService *services.WalletService
	log           *zap.Logger
}

func NewWalletHandler(walletService *services.WalletService, log *zap.Logger) *WalletHandler {
	return &WalletHandler{walletService: walletService, log: log}
}

// POST /wallets
func (h *WalletHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.SubscriptionID == 0 || req.UserID == 0 || req.Address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "subscription_id, user_id and address are required"})
	}

	wallet, err := h.walletService.Create(c.Context(), services.CreateWalletInput{
		SubscriptionID: req.SubscriptionID,
		UserID:         req.UserID,
		Address:        req.Address,
		Mnemonics:      req.Mnemonics,
		PublicKey:      req.PublicKey,
		PrivateKey:     req.PrivateKey,
		TonAPIKey:      req.TonAPIKey,
		Workchain:      req.Workchain,
		Version:        req.Version,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: wallet})
}

// Generate derives fresh wallet material without persisting it.
// POST /wallets/generate
func (h *WalletHandler) Generate(c *fiber.Ctx) error {
	w, err := h.walletService.Generate(c.Context())
	if err != nil {
		h.log.Error("wallet generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: w})
}

// GET /wallets
func (h *WalletHandler) List(c *fiber.Ctx) error {
	wallets, err := h.walletService.List(c.Context())
	if err != nil {
		h.log.Error("failed to list wallets", zap.Error(err))
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: wallets})
}

// GET /wallets/:id
func (h *WalletHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid wallet id"})
	}
	wallet, err := h.walletService.GetByID(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: wallet})
}

// GET /users/:id/wallets
func (h *WalletHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	wallets, err := h.walletService.ListByUser(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: wallets})
}

// PATCH /wallets/:id
func (h *WalletHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid wallet id"})
	}

	var req dto.UpdateWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	wallet, err := h.walletService.Update(c.Context(), id, models.WalletUpdate{
		Address:    req.Address,
		Mnemonics:  req.Mnemonics,
		PublicKey:  req.PublicKey,
		PrivateKey: req.PrivateKey,
		TonAPIKey:  req.TonAPIKey,
		Workchain:  req.Workchain,
		Version:    req.Version,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: wallet})
}

// DELETE /wallets/:id
func (h *WalletHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid wallet id"})
	}
	if err := h.walletService.Delete(c.Context(), id); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// GET /wallets/stats
func (h *WalletHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.walletService.Stats(c.Context())
	if err != nil {
		h.log.Error("failed to load wallet stats", zap.Error(err))
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}
