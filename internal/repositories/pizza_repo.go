package repositories

import (
	"context"

	"pizzashop/internal/models"
)

// PizzaRepository defines read access to the catalog. Upsert exists only for
// loading the catalog from a seed file.
type PizzaRepository interface {
	GetAll(ctx context.Context) ([]models.Pizza, error)
	GetNames(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id uint) (*models.Pizza, error)
	Upsert(ctx context.Context, pizza *models.Pizza) error
}
