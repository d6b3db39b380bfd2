package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/http/dto"
	"github.com/stars-panel/backend/internal/models"
	"github.com/stars-panel/backend/internal/services"
)

type SessionHandler struct {
	sessionService *services.SessionService
	log            *zap.Logger
}

func NewSessionHandler(sessionService *services.SessionService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, log: log}
}

// POST /fragment-sessions
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.UserID == 0 || req.FragmentHash == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "user_id and fragment_hash are required"})
	}

	session, err := h.sessionService.Create(c.Context(), services.CreateSessionInput{
		UserID:            req.UserID,
		FragmentHash:      req.FragmentHash,
		FragmentPublicKey: req.FragmentPublicKey,
		FragmentWallets:   req.FragmentWallets,
		FragmentAddress:   req.FragmentAddress,
		StelSSID:          req.StelSSID,
		StelDT:            req.StelDT,
		StelTonToken:      req.StelTonToken,
		StelToken:         req.StelToken,
		CfClearance:       req.CfClearance,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: session})
}

// POST /fragment-sessions/:id/activate
func (h *SessionHandler) Activate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid session id"})
	}
	session, err := h.sessionService.Activate(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: session})
}

// GET /fragment-sessions
func (h *SessionHandler) List(c *fiber.Ctx) error {
	sessions, err := h.sessionService.List(c.Context())
	if err != nil {
		h.log.Error("failed to list sessions", zap.Error(err))
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sessions})
}

// GET /fragment-sessions/:id
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid session id"})
	}
	session, err := h.sessionService.GetByID(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: session})
}

// GET /users/:id/fragment-sessions
func (h *SessionHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	sessions, err := h.sessionService.ListByUser(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sessions})
}

// GET /users/:id/fragment-session/active
func (h *SessionHandler) GetActive(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	session, err := h.sessionService.GetActiveForUser(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: session})
}

// Cookies returns the active session's cookie jar for replaying the
// fragment.com session.
// GET /users/:id/fragment-session/cookies
func (h *SessionHandler) Cookies(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	cookies, err := h.sessionService.Cookies(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: cookies})
}

// GET /users/:id/fragment-session/wallet-view
func (h *SessionHandler) WalletView(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	view, err := h.sessionService.WalletView(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

// PATCH /fragment-sessions/:id
func (h *SessionHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid session id"})
	}

	var req dto.UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	session, err := h.sessionService.Update(c.Context(), id, models.FragmentSessionUpdate{
		FragmentHash:      req.FragmentHash,
		FragmentPublicKey: req.FragmentPublicKey,
		FragmentWallets:   req.FragmentWallets,
		FragmentAddress:   req.FragmentAddress,
		StelSSID:          req.StelSSID,
		StelDT:            req.StelDT,
		StelTonToken:      req.StelTonToken,
		StelToken:         req.StelToken,
		CfClearance:       req.CfClearance,
		IsActive:          req.IsActive,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: session})
}

// DELETE /fragment-sessions/:id
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid session id"})
	}
	if err := h.sessionService.Delete(c.Context(), id); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// GET /fragment-sessions/stats
func (h *SessionHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.sessionService.Stats(c.Context())
	if err != nil {
		h.log.Error("failed to load session stats", zap.Error(err))
		return respondErr(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}
