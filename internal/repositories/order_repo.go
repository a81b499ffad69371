package repositories

import (
	"context"
	"time"

	"pizzashop/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// CreateHeader inserts the order header with a zero total and sets order.ID.
	CreateHeader(ctx context.Context, order *models.Order) error
	// InsertItems persists all items in one batch and returns the rows written.
	InsertItems(ctx context.Context, orderID uint, items []models.OrderItem) (int64, error)
	// FinalizeTotal writes the supplied total as is.
	FinalizeTotal(ctx context.Context, orderID uint, total models.Money) error
	// GetDetails returns ErrNotFound when there is no such order.
	GetDetails(ctx context.Context, orderID uint) (*models.OrderDetailView, error)
	UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus, at time.Time) error
	GetStatus(ctx context.Context, orderID uint) (models.OrderStatus, error)
	StatusHistory(ctx context.Context, orderID uint) ([]models.OrderStatusUpdate, error)
}
