package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pizzashop/internal/models"
	"pizzashop/internal/repositories"
)

// CustomerResolver maps a phone number to a customer, creating the customer
// on first contact. It is the only writer of customer rows.
type CustomerResolver struct {
	repo   repositories.CustomerRepository
	logger *slog.Logger
}

// NewCustomerResolver creates a new CustomerResolver.
func NewCustomerResolver(repo repositories.CustomerRepository, logger *slog.Logger) *CustomerResolver {
	return &CustomerResolver{
		repo:   repo,
		logger: logger,
	}
}

// FindByPhone looks a customer up by exact phone. found is false, with a nil
// error, when nobody has that phone.
func (r *CustomerResolver) FindByPhone(ctx context.Context, phone string) (id uint, found bool, err error) {
	customer, err := r.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return customer.ID, true, nil
}

// lockByPhone is FindByPhone through a locking read.
func (r *CustomerResolver) lockByPhone(ctx context.Context, phone string) (id uint, found bool, err error) {
	customer, err := r.repo.LockByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return customer.ID, true, nil
}

// Create inserts a customer for a phone not yet known and returns its id.
func (r *CustomerResolver) Create(ctx context.Context, contact models.CustomerContact) (uint, error) {
	customer := contact.ToCustomer()
	if err := r.repo.Create(ctx, customer); err != nil {
		return 0, err
	}
	return customer.ID, nil
}

// Resolve returns the id of the customer owning contact.Phone, creating one
// if needed. Losing an insert race to a concurrent placement shows up as
// ErrDuplicatePhone and falls back to the existing row. Existing customers
// are reused as they are; their name and address are not updated.
func (r *CustomerResolver) Resolve(ctx context.Context, contact models.CustomerContact) (uint, error) {
	contact = contact.Normalize()
	if contact.Phone == "" {
		return 0, &ValidationError{Field: "customer.phone", Message: "customer.phone is required"}
	}

	id, found, err := r.FindByPhone(ctx, contact.Phone)
	if err != nil {
		return 0, err
	}
	if found {
		r.logger.Debug("customer resolved", "customer_id", id, "created", false)
		return id, nil
	}

	id, err = r.Create(ctx, contact)
	if err == nil {
		r.logger.Info("customer created", "customer_id", id)
		return id, nil
	}
	if !errors.Is(err, repositories.ErrDuplicatePhone) {
		return 0, err
	}

	// The winner has committed by now, but under REPEATABLE READ a plain read
	// would still use this transaction's older snapshot.
	r.logger.Warn("concurrent customer insert, resolving again", "phone", contact.Phone)
	id, found, err = r.lockByPhone(ctx, contact.Phone)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("customer with phone %s vanished after duplicate insert", contact.Phone)
	}
	return id, nil
}
