package handlers

import (
	"errors"
	"log/slog"

	"pizzashop/internal/middleware"
	"pizzashop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto HTTP statuses. Storage failures are
// reported as 503 so clients can retry; consistency failures are 500.
func respondError(c *fiber.Ctx, logger *slog.Logger, msg string, err error) error {
	var ve *services.ValidationError
	var se *services.StorageError
	var ce *services.ConsistencyError

	log := logger.With("request_id", middleware.GetRequestID(c), "path", c.Path())

	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"field":   ve.Field,
			"error":   ve.Message,
		})
	case errors.Is(err, services.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	case errors.As(err, &ce):
		log.Error(msg, "step", ce.Step, "order_id", ce.OrderID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": msg,
			"error":   err.Error(),
		})
	case errors.As(err, &se):
		log.Error(msg, "step", se.Step, "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": msg,
			"step":    se.Step,
		})
	default:
		log.Error(msg, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": msg,
		})
	}
}

// orderID reads the :id route parameter. Non-numeric or non-positive ids
// are answered with 400.
func orderID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
