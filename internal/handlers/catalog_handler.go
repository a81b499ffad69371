package handlers

import (
	"log/slog"

	"pizzashop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the pizza menu.
type CatalogHandler struct {
	service *services.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	pizzaRoutes := router.Group("/pizzas")
	pizzaRoutes.Get("/", h.HandleGetPizzas)
	pizzaRoutes.Get("/names", h.HandleGetPizzaNames)
}

// HandleGetPizzas returns every pizza with its four prices.
func (h *CatalogHandler) HandleGetPizzas(c *fiber.Ctx) error {
	pizzas, err := h.service.ListCatalog(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve pizzas", err)
	}
	return c.JSON(pizzas)
}

// HandleGetPizzaNames returns the pizza names for menu pickers.
func (h *CatalogHandler) HandleGetPizzaNames(c *fiber.Ctx) error {
	names, err := h.service.ListNames(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve pizza names", err)
	}
	return c.JSON(names)
}
