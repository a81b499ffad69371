package repositories

import (
	"context"
	"errors"
	"fmt"

	"pizzashop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPizzaRepository is a GORM implementation of PizzaRepository.
type GORMPizzaRepository struct {
	db *gorm.DB
}

// NewGORMPizzaRepository creates a new instance of GORMPizzaRepository.
func NewGORMPizzaRepository(db *gorm.DB) *GORMPizzaRepository {
	return &GORMPizzaRepository{
		db: db,
	}
}

// GetAll retrieves every pizza in storage order.
func (r *GORMPizzaRepository) GetAll(ctx context.Context) ([]models.Pizza, error) {
	pizzas := []models.Pizza{}
	if err := r.db.WithContext(ctx).Order("pizza_id").Find(&pizzas).Error; err != nil {
		return nil, fmt.Errorf("failed to get all pizzas: %w", err)
	}
	return pizzas, nil
}

// GetNames retrieves pizza names in the same order as GetAll.
func (r *GORMPizzaRepository) GetNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.db.WithContext(ctx).Model(&models.Pizza{}).Order("pizza_id").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to get pizza names: %w", err)
	}
	return names, nil
}

// GetByID retrieves a single pizza by its ID.
func (r *GORMPizzaRepository) GetByID(ctx context.Context, id uint) (*models.Pizza, error) {
	var pizza models.Pizza
	if err := r.db.WithContext(ctx).First(&pizza, "pizza_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pizza with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pizza by ID %d: %w", id, err)
	}
	return &pizza, nil
}

// Upsert inserts the pizza or, when the name already exists, overwrites its
// description and prices.
func (r *GORMPizzaRepository) Upsert(ctx context.Context, pizza *models.Pizza) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "small_price", "medium_price", "large_price", "extra_large_price",
		}),
	}).Create(pizza).Error
	if err != nil {
		return fmt.Errorf("failed to upsert pizza %s: %w", pizza.Name, err)
	}
	return nil
}
