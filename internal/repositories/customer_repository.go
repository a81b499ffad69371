package repositories

import (
	"context"

	"pizzashop/internal/models"
)

// CustomerRepository defines the interface for customer data access.
type CustomerRepository interface {
	// FindByPhone returns ErrNotFound when no customer has the phone.
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
	// LockByPhone is FindByPhone as a locking read that sees rows committed
	// after the surrounding transaction started.
	LockByPhone(ctx context.Context, phone string) (*models.Customer, error)
	// Create returns ErrDuplicatePhone when the phone is already taken.
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
}
