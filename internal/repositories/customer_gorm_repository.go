package repositories

import (
	"context"
	"errors"
	"fmt"

	"pizzashop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCustomerRepository is a GORM implementation of CustomerRepository.
type GORMCustomerRepository struct {
	db *gorm.DB
}

// NewGORMCustomerRepository creates a new instance of GORMCustomerRepository.
func NewGORMCustomerRepository(db *gorm.DB) *GORMCustomerRepository {
	return &GORMCustomerRepository{
		db: db,
	}
}

// FindByPhone retrieves the customer with an exact phone match. Should legacy
// data hold several rows for one phone, the oldest one wins.
func (r *GORMCustomerRepository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	return firstByPhone(r.db.WithContext(ctx), phone, false)
}

// LockByPhone is FindByPhone as a locking read (FOR SHARE). A locking read
// sees the latest committed row, not the transaction's snapshot, so it finds
// a customer committed by a concurrent transaction after this one began.
// SQLite has no row locks and runs it as a plain read.
func (r *GORMCustomerRepository) LockByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	return firstByPhone(r.db.WithContext(ctx), phone, true)
}

func firstByPhone(db *gorm.DB, phone string, lock bool) (*models.Customer, error) {
	var customers []models.Customer
	if err := phoneQuery(db, phone, lock).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to get customer by phone %s: %w", phone, err)
	}
	if len(customers) == 0 {
		return nil, fmt.Errorf("customer with phone %s: %w", phone, ErrNotFound)
	}
	return &customers[0], nil
}

func phoneQuery(db *gorm.DB, phone string, lock bool) *gorm.DB {
	q := db.Model(&models.Customer{}).
		Where("phone = ?", phone).
		Order("customer_id").
		Limit(1)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "SHARE"})
	}
	return q
}

// Create inserts a new customer. The insert runs in its own (nested)
// transaction so that a unique violation inside an outer transaction only
// rolls back to the savepoint and the caller can look the phone up again.
func (r *GORMCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(customer).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("customer with phone %s: %w", customer.Phone, ErrDuplicatePhone)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetByID retrieves a customer by its ID.
func (r *GORMCustomerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "customer_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer by ID %d: %w", id, err)
	}
	return &customer, nil
}
