package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizzashop/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderDetailsQuery returns one row per order item (or a single row with NULL
// item columns for an order without items).
const orderDetailsQuery = `
SELECT o.order_id, o.order_date, o.status, o.special_instructions, o.order_total, o.last_status_update,
	c.customer_id, c.name AS customer_name, c.phone, c.address, c.email,
	oi.order_item_id, oi.pizza_id, p.name AS pizza_name, oi.size, oi.quantity,
	CASE oi.size
		WHEN 'Small' THEN p.small_price
		WHEN 'Medium' THEN p.medium_price
		WHEN 'Large' THEN p.large_price
		WHEN 'ExtraLarge' THEN p.extra_large_price
	END AS unit_price
FROM orders o
JOIN customers c ON c.customer_id = o.customer_id
LEFT JOIN order_items oi ON oi.order_id = o.order_id
LEFT JOIN pizzas p ON p.pizza_id = oi.pizza_id
WHERE o.order_id = ?
ORDER BY oi.order_item_id`

type detailRow struct {
	OrderID             uint
	OrderDate           time.Time
	Status              string
	SpecialInstructions string
	OrderTotal          models.Money
	LastStatusUpdate    time.Time
	CustomerID          uint
	CustomerName        string
	Phone               string
	Address             string
	Email               string
	OrderItemID         *uint
	PizzaID             *uint
	PizzaName           *string
	Size                *string
	Quantity            *int
	UnitPrice           decimal.NullDecimal
}

// GORMOrderRepository is a GORM implementation of OrderRepository. Its write
// methods are meant to run inside Store.WithinTransaction.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// CreateHeader inserts the header and its initial status-update row.
func (r *GORMOrderRepository) CreateHeader(ctx context.Context, order *models.Order) error {
	db := r.db.WithContext(ctx)
	order.OrderTotal = models.Money{}
	if order.LastStatusUpdate.IsZero() {
		order.LastStatusUpdate = order.OrderDate
	}
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order header for customer %d: %w", order.CustomerID, err)
	}

	initial := models.OrderStatusUpdate{
		OrderID:          order.ID,
		StatusUpdateTime: order.OrderDate,
		NewStatus:        order.Status,
	}
	if err := db.Omit(clause.Associations).Create(&initial).Error; err != nil {
		return fmt.Errorf("failed to record initial status of order %d: %w", order.ID, err)
	}
	return nil
}

// InsertItems stamps every item with orderID and inserts them in one batch.
// The IDs of the items slice are filled in on success.
func (r *GORMOrderRepository) InsertItems(ctx context.Context, orderID uint, items []models.OrderItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	res := r.db.WithContext(ctx).Omit(clause.Associations).Create(&items)
	if res.Error != nil {
		return res.RowsAffected, fmt.Errorf("failed to insert %d items for order %d: %w", len(items), orderID, res.Error)
	}
	return res.RowsAffected, nil
}

// FinalizeTotal writes total to the order.
func (r *GORMOrderRepository) FinalizeTotal(ctx context.Context, orderID uint, total models.Money) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Update("order_total", total)
	if res.Error != nil {
		return fmt.Errorf("failed to update total of order %d: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Some drivers report only changed rows, so a zero total can look
		// like a miss.
		return r.ensureExists(ctx, orderID)
	}
	return nil
}

// GetDetails reads the order, its customer and its items in one query and
// folds the fan-out into a single view.
func (r *GORMOrderRepository) GetDetails(ctx context.Context, orderID uint) (*models.OrderDetailView, error) {
	var rows []detailRow
	if err := r.db.WithContext(ctx).Raw(orderDetailsQuery, orderID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get details of order %d: %w", orderID, err)
	}
	for _, view := range foldDetailRows(rows) {
		if view.OrderID == orderID {
			return view, nil
		}
	}
	return nil, fmt.Errorf("order with ID %d: %w", orderID, ErrNotFound)
}

// UpdateStatus sets the status and appends it to the status history.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus, at time.Time) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{"status": string(status), "last_status_update": at})
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %d: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		if err := r.ensureExists(ctx, orderID); err != nil {
			return err
		}
	}

	update := models.OrderStatusUpdate{OrderID: orderID, StatusUpdateTime: at, NewStatus: status}
	if err := db.Omit(clause.Associations).Create(&update).Error; err != nil {
		return fmt.Errorf("failed to record status of order %d: %w", orderID, err)
	}
	return nil
}

// GetStatus returns the current status of an order.
func (r *GORMOrderRepository) GetStatus(ctx context.Context, orderID uint) (models.OrderStatus, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Select("order_id", "status").First(&order, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("order with ID %d: %w", orderID, ErrNotFound)
		}
		return "", fmt.Errorf("failed to get status of order %d: %w", orderID, err)
	}
	return order.Status, nil
}

// StatusHistory lists the status updates of an order, oldest first.
func (r *GORMOrderRepository) StatusHistory(ctx context.Context, orderID uint) ([]models.OrderStatusUpdate, error) {
	if err := r.ensureExists(ctx, orderID); err != nil {
		return nil, err
	}
	updates := []models.OrderStatusUpdate{}
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get status history of order %d: %w", orderID, err)
	}
	return updates, nil
}

func (r *GORMOrderRepository) ensureExists(ctx context.Context, orderID uint) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("order_id = ?", orderID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to look up order %d: %w", orderID, err)
	}
	if n == 0 {
		return fmt.Errorf("order with ID %d: %w", orderID, ErrNotFound)
	}
	return nil
}

// foldDetailRows groups join rows by order id. Scalar fields take the value of
// the last row seen; each distinct item row becomes one OrderItemView.
func foldDetailRows(rows []detailRow) []*models.OrderDetailView {
	var views []*models.OrderDetailView
	byOrder := make(map[uint]*models.OrderDetailView)
	seenItems := make(map[uint]struct{})

	for _, row := range rows {
		view, ok := byOrder[row.OrderID]
		if !ok {
			view = &models.OrderDetailView{OrderID: row.OrderID, Items: []models.OrderItemView{}}
			byOrder[row.OrderID] = view
			views = append(views, view)
		}
		view.OrderDate = row.OrderDate
		view.Status = models.OrderStatus(row.Status)
		view.SpecialInstructions = row.SpecialInstructions
		view.Total = row.OrderTotal
		view.LastStatusUpdate = row.LastStatusUpdate
		view.CustomerID = row.CustomerID
		view.CustomerName = row.CustomerName
		view.Phone = row.Phone
		view.Address = row.Address
		view.Email = row.Email

		if row.OrderItemID == nil {
			continue
		}
		if _, dup := seenItems[*row.OrderItemID]; dup {
			continue
		}
		seenItems[*row.OrderItemID] = struct{}{}
		view.Items = append(view.Items, itemFromRow(row))
	}

	for _, view := range views {
		view.ItemSummary = models.SummarizeItems(view.Items)
	}
	return views
}

func itemFromRow(row detailRow) models.OrderItemView {
	item := models.OrderItemView{OrderItemID: *row.OrderItemID}
	if row.PizzaID != nil {
		item.PizzaID = *row.PizzaID
	}
	if row.PizzaName != nil {
		item.PizzaName = *row.PizzaName
	}
	if row.Size != nil {
		item.Size = models.Size(*row.Size)
	}
	if row.Quantity != nil {
		item.Quantity = *row.Quantity
	}
	if row.UnitPrice.Valid {
		item.UnitPrice = models.Money{Decimal: row.UnitPrice.Decimal}
	}
	item.LineTotal = item.UnitPrice.Times(item.Quantity)
	return item
}
