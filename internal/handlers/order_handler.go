package handlers

import (
	"fmt"
	"log/slog"

	"pizzashop/internal/models"
	"pizzashop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Get("/:id/history", h.HandleGetOrderHistory)
}

// HandleCreateOrder places a new order and returns its id.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	id, err := h.service.PlaceOrder(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, "Could not place order", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id": id,
	})
}

// HandleGetOrderByID returns the consolidated view of a single order.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Order id must be a positive integer",
		})
	}

	view, found, err := h.service.GetOrderDetails(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve order", err)
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %d not found", id),
		})
	}
	return c.JSON(view)
}

// HandleUpdateOrderStatus moves an order to a new status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Order id must be a positive integer",
		})
	}

	var updateData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdateOrderStatus(c.UserContext(), id, updateData.Status); err != nil {
		return respondError(c, h.logger, "Could not update order status", err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %d status updated to %s", id, updateData.Status),
	})
}

// HandleGetOrderHistory lists the status transitions of an order.
func (h *OrderHandler) HandleGetOrderHistory(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Order id must be a positive integer",
		})
	}

	updates, found, err := h.service.GetStatusHistory(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve order history", err)
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %d not found", id),
		})
	}
	return c.JSON(updates)
}
