package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"pizzashop/internal/models"
	"pizzashop/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// EventPublisher announces committed orders to other processes.
type EventPublisher interface {
	PublishOrderPlaced(event models.OrderPlacedEvent) error
}

// PlacementRecorder observes the outcome and latency of each placement.
type PlacementRecorder interface {
	ObservePlacement(outcome string, took time.Duration)
}

// PlacementState is a state of the placement state machine. Placement moves
// strictly forward through the states below, or to StateFailed.
type PlacementState string

const (
	StateStart              PlacementState = "START"
	StateCustomerResolved   PlacementState = "CUSTOMER_RESOLVED"
	StateOrderHeaderCreated PlacementState = "ORDER_HEADER_CREATED"
	StateItemsPersisted     PlacementState = "ITEMS_PERSISTED"
	StateTotalFinalized     PlacementState = "TOTAL_FINALIZED"
	StateFailed             PlacementState = "FAILED"
)

type placement struct {
	state   PlacementState
	orderID uint
	logger  *slog.Logger
}

func (p *placement) advance(next PlacementState) {
	p.logger.Debug("placement advanced", "from", p.state, "to", next, "order_id", p.orderID)
	p.state = next
}

func (p *placement) fail(err error) {
	p.logger.Error("placement failed", "last_state", p.state, "order_id", p.orderID, "error", err)
	p.state = StateFailed
}

// OrderService handles order placement and order lookups.
type OrderService struct {
	store     repositories.Store
	publisher EventPublisher
	recorder  PlacementRecorder
	validate  *validator.Validate
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher and recorder may be nil.
func NewOrderService(store repositories.Store, publisher EventPublisher, recorder PlacementRecorder, logger *slog.Logger) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		recorder:  recorder,
		validate:  newValidator(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder validates and prices the cart, then resolves the customer,
// writes the header, the items and the total in one transaction. It returns
// the new order id.
func (s *OrderService) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (uint, error) {
	start := time.Now()
	orderID, err := s.placeOrder(ctx, req)
	if s.recorder != nil {
		s.recorder.ObservePlacement(placementOutcome(err), time.Since(start))
	}
	return orderID, err
}

func (s *OrderService) placeOrder(ctx context.Context, req models.PlaceOrderRequest) (uint, error) {
	req = req.Normalize()
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return 0, validationErrorFrom(err)
	}
	if err := checkpoint(ctx, StepValidate); err != nil {
		return 0, err
	}
	pizzas, err := s.store.Pizzas().GetAll(ctx)
	if err != nil {
		return 0, &StorageError{Step: StepValidate, Err: err}
	}
	lines, err := newCatalogIndex(pizzas).price(req.Items)
	if err != nil {
		return 0, err
	}
	total := orderTotal(lines)

	p := &placement{state: StateStart, logger: s.logger}
	now := s.now()
	var customerID uint
	err = s.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		if err := checkpoint(ctx, StepResolveCustomer); err != nil {
			return err
		}
		id, err := NewCustomerResolver(tx.Customers(), s.logger).Resolve(ctx, req.Customer)
		if err != nil {
			return storageErr(StepResolveCustomer, err)
		}
		customerID = id
		p.advance(StateCustomerResolved)

		if err := checkpoint(ctx, StepCreateHeader); err != nil {
			return err
		}
		order := &models.Order{
			CustomerID:          customerID,
			OrderDate:           now,
			Status:              models.StatusPending,
			SpecialInstructions: req.SpecialInstructions,
			LastStatusUpdate:    now,
		}
		if err := tx.Orders().CreateHeader(ctx, order); err != nil {
			return &StorageError{Step: StepCreateHeader, Err: err}
		}
		p.orderID = order.ID
		p.advance(StateOrderHeaderCreated)

		if err := checkpoint(ctx, StepInsertItems); err != nil {
			return err
		}
		items := make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, models.OrderItem{PizzaID: l.pizza.ID, Size: l.size, Quantity: l.quantity})
		}
		written, err := tx.Orders().InsertItems(ctx, order.ID, items)
		if err != nil {
			return &StorageError{Step: StepInsertItems, Err: err}
		}
		if written != int64(len(items)) {
			return &ConsistencyError{
				Step:    StepInsertItems,
				OrderID: order.ID,
				Detail:  fmt.Sprintf("wrote %d of %d items", written, len(items)),
			}
		}
		p.advance(StateItemsPersisted)

		if err := checkpoint(ctx, StepFinalizeTotal); err != nil {
			return err
		}
		if err := tx.Orders().FinalizeTotal(ctx, order.ID, total); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return &ConsistencyError{Step: StepFinalizeTotal, OrderID: order.ID, Detail: "order disappeared before its total was written"}
			}
			return &StorageError{Step: StepFinalizeTotal, Err: err}
		}
		return nil
	})
	if err != nil {
		p.fail(err)
		return 0, storageErr(StepCommit, err)
	}
	p.advance(StateTotalFinalized)

	s.logger.Info("order placed",
		"order_id", p.orderID,
		"customer_id", customerID,
		"items", len(lines),
		"total", total.String(),
	)
	s.publishPlaced(models.OrderPlacedEvent{
		OrderID:    p.orderID,
		CustomerID: customerID,
		Status:     models.StatusPending,
		Total:      total,
		ItemCount:  len(lines),
		PlacedAt:   now,
	})
	return p.orderID, nil
}

// publishPlaced is best effort: the order is already committed.
func (s *OrderService) publishPlaced(event models.OrderPlacedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderPlaced(event); err != nil {
		s.logger.Warn("failed to publish order placed event", "order_id", event.OrderID, "error", err)
	}
}

// GetOrderDetails returns the consolidated view of one order. An unknown id
// yields found == false and a nil error.
func (s *OrderService) GetOrderDetails(ctx context.Context, id uint) (view *models.OrderDetailView, found bool, err error) {
	if id == 0 {
		return nil, false, nil
	}
	view, err = s.store.Orders().GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, &StorageError{Step: StepRead, Err: err}
	}
	return view, true, nil
}

// UpdateOrderStatus moves an order to a new status. Setting the current
// status again is a no-op; orders that are Delivered or Cancelled stay so.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status string) error {
	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return &ValidationError{Field: "status", Message: err.Error()}
	}

	err = s.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		current, err := tx.Orders().GetStatus(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if current == next {
			return nil
		}
		if current.Terminal() {
			return &ValidationError{Field: "status", Message: fmt.Sprintf("order %d is already %s", id, current)}
		}
		return tx.Orders().UpdateStatus(ctx, id, next, s.now())
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return err
		}
		return storageErr(StepUpdateStatus, err)
	}
	s.logger.Info("order status updated", "order_id", id, "status", next)
	return nil
}

// GetStatusHistory lists the status transitions of an order, oldest first.
func (s *OrderService) GetStatusHistory(ctx context.Context, id uint) ([]models.OrderStatusUpdate, bool, error) {
	updates, err := s.store.Orders().StatusHistory(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, &StorageError{Step: StepRead, Err: err}
	}
	return updates, true, nil
}

func checkpoint(ctx context.Context, next Step) error {
	if err := ctx.Err(); err != nil {
		return &StorageError{Step: next, Err: err}
	}
	return nil
}

func placementOutcome(err error) string {
	var ve *ValidationError
	var ce *ConsistencyError
	switch {
	case err == nil:
		return "placed"
	case errors.As(err, &ve):
		return "rejected"
	case errors.As(err, &ce):
		return "inconsistent"
	default:
		return "failed"
	}
}

// newValidator reports field paths using json names, e.g. "items[0].quantity".
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationErrorFrom(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return &ValidationError{Field: field, Message: fmt.Sprintf("failed on the '%s' tag", fe.Tag())}
	}
	return &ValidationError{Field: "request", Message: err.Error()}
}
