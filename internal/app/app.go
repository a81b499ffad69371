package app

import (
	"context"
	"log/slog"
	"time"

	"pizzashop/internal/database"
	"pizzashop/internal/handlers"
	"pizzashop/internal/middleware"
	"pizzashop/internal/repositories"
	"pizzashop/internal/services"
	"pizzashop/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP app is built from. Publisher and
// Metrics may be nil.
type Deps struct {
	DB        *gorm.DB
	Logger    *slog.Logger
	Publisher services.EventPublisher
	Metrics   *metrics.Metrics
	AccessLog bool
}

// App is the assembled HTTP application and the services behind it.
type App struct {
	Fiber   *fiber.App
	Orders  *services.OrderService
	Catalog *services.CatalogService
}

// NewApp wires repositories, services and handlers into a Fiber app.
func NewApp(deps Deps) *App {
	store := repositories.NewGORMStore(deps.DB)

	var recorder services.PlacementRecorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}
	catalogService := services.NewCatalogService(store.Pizzas())
	orderService := services.NewOrderService(store, deps.Publisher, recorder, deps.Logger)

	catalogHandler := handlers.NewCatalogHandler(catalogService, deps.Logger)
	orderHandler := handlers.NewOrderHandler(orderService, deps.Logger)

	app := fiber.New(fiber.Config{
		AppName:               "pizzashop",
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	if deps.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:request_id} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	if deps.Metrics != nil {
		app.Use(middleware.Metrics(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, deps.DB); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unhealthy",
				"database": err.Error(),
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
		})
	})

	apiV1 := app.Group("/api/v1")
	catalogHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)

	return &App{
		Fiber:   app,
		Orders:  orderService,
		Catalog: catalogService,
	}
}
