package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stars-panel/backend/internal/apperr"
	"github.com/stars-panel/backend/internal/http/dto"
)

// respondErr maps service error kinds to HTTP statuses. Anything
// unclassified is a 500 with a generic body; the detail stays in logs.
func respondErr(c *fiber.Ctx, err error) error {
	switch {
	case apperr.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	case apperr.IsConflict(err):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	case apperr.IsNoFields(err):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	case apperr.IsKeyExhausted(err):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
}
