package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle, so that a
// unit of work can run all of them inside a single transaction.
type Store interface {
	Pizzas() PizzaRepository
	Customers() CustomerRepository
	Orders() OrderRepository
	// WithinTransaction runs fn against a Store bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}

// GORMStore is the GORM implementation of Store.
type GORMStore struct {
	db        *gorm.DB
	pizzas    *GORMPizzaRepository
	customers *GORMCustomerRepository
	orders    *GORMOrderRepository
}

// NewGORMStore creates a Store backed by db. db may itself be a transaction.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{
		db:        db,
		pizzas:    NewGORMPizzaRepository(db),
		customers: NewGORMCustomerRepository(db),
		orders:    NewGORMOrderRepository(db),
	}
}

func (s *GORMStore) Pizzas() PizzaRepository       { return s.pizzas }
func (s *GORMStore) Customers() CustomerRepository { return s.customers }
func (s *GORMStore) Orders() OrderRepository       { return s.orders }

// WithinTransaction implements Store.
func (s *GORMStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}
