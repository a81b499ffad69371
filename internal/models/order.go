package models

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus is the display status of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusProcessing     OrderStatus = "Processing"
	StatusInTheOven      OrderStatus = "In the oven"
	StatusOutForDelivery OrderStatus = "Out for delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

var orderStatuses = []OrderStatus{
	StatusPending, StatusProcessing, StatusInTheOven,
	StatusOutForDelivery, StatusDelivered, StatusCancelled,
}

// ParseOrderStatus matches s case-insensitively against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range orderStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Order is the order header.
type Order struct {
	ID                  uint        `json:"order_id" gorm:"column:order_id;primaryKey"`
	CustomerID          uint        `json:"customer_id" gorm:"not null;index"`
	Customer            *Customer   `json:"-" gorm:"foreignKey:CustomerID;references:ID"`
	OrderDate           time.Time   `json:"order_date" gorm:"not null"`
	Status              OrderStatus `json:"status" gorm:"type:varchar(32);not null"`
	SpecialInstructions string      `json:"special_instructions" gorm:"type:varchar(1000)"`
	OrderTotal          Money       `json:"order_total" gorm:"type:decimal(10,2);not null"`
	LastStatusUpdate    time.Time   `json:"last_status_update"`
}

// OrderItem is one persisted cart line.
type OrderItem struct {
	ID       uint   `json:"order_item_id" gorm:"column:order_item_id;primaryKey"`
	OrderID  uint   `json:"order_id" gorm:"not null;index"`
	Order    *Order `json:"-" gorm:"foreignKey:OrderID;references:ID"`
	PizzaID  uint   `json:"pizza_id" gorm:"not null"`
	Pizza    *Pizza `json:"-" gorm:"foreignKey:PizzaID;references:ID"`
	Size     Size   `json:"size" gorm:"type:varchar(16);not null"`
	Quantity int    `json:"quantity" gorm:"not null"`
}

// OrderStatusUpdate records one status transition of an order.
type OrderStatusUpdate struct {
	ID               uint        `json:"id" gorm:"primaryKey"`
	OrderID          uint        `json:"order_id" gorm:"not null;index"`
	Order            *Order      `json:"-" gorm:"foreignKey:OrderID;references:ID"`
	StatusUpdateTime time.Time   `json:"status_update_time" gorm:"not null"`
	NewStatus        OrderStatus `json:"new_status" gorm:"type:varchar(32);not null"`
}

// CartLine is an order item draft supplied by the client. The pizza is
// identified by id or, when the id is zero, by name.
type CartLine struct {
	PizzaID   uint   `json:"pizza_id" validate:"required_without=PizzaName"`
	PizzaName string `json:"pizza_name" validate:"required_without=PizzaID,max=100"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// PlaceOrderRequest is everything needed to place one order.
type PlaceOrderRequest struct {
	Customer            CustomerContact `json:"customer"`
	Items               []CartLine      `json:"items" validate:"required,min=1,dive"`
	SpecialInstructions string          `json:"special_instructions" validate:"max=1000"`
}

// Normalize returns a copy with surrounding whitespace removed from every
// free-text field, so that blank values fail the required checks.
func (r PlaceOrderRequest) Normalize() PlaceOrderRequest {
	r.Customer = r.Customer.Normalize()
	r.SpecialInstructions = strings.TrimSpace(r.SpecialInstructions)
	items := make([]CartLine, len(r.Items))
	for i, line := range r.Items {
		line.PizzaName = strings.TrimSpace(line.PizzaName)
		line.Size = strings.TrimSpace(line.Size)
		items[i] = line
	}
	if r.Items != nil {
		r.Items = items
	}
	return r
}

// OrderItemView is one line of an OrderDetailView.
type OrderItemView struct {
	OrderItemID uint   `json:"order_item_id"`
	PizzaID     uint   `json:"pizza_id"`
	PizzaName   string `json:"pizza_name"`
	Size        Size   `json:"size"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unit_price"`
	LineTotal   Money  `json:"line_total"`
}

// OrderDetailView joins an order with its customer and items.
type OrderDetailView struct {
	OrderID             uint            `json:"order_id"`
	OrderDate           time.Time       `json:"order_date"`
	Status              OrderStatus     `json:"order_status"`
	SpecialInstructions string          `json:"special_instructions"`
	Total               Money           `json:"order_total"`
	LastStatusUpdate    time.Time       `json:"last_status_update"`
	Items               []OrderItemView `json:"items"`
	ItemSummary         string          `json:"ordered_items"`
	CustomerID          uint            `json:"customer_id"`
	CustomerName        string          `json:"customer_name"`
	Phone               string          `json:"phone"`
	Address             string          `json:"address"`
	Email               string          `json:"email"`
}

// SummarizeItems renders items as "Margherita (Small) x2, Pepperoni (Large) x1".
func SummarizeItems(items []OrderItemView) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (%s) x%d", it.PizzaName, it.Size, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

// OrderPlacedEvent is published after an order commits.
type OrderPlacedEvent struct {
	OrderID    uint        `json:"order_id"`
	CustomerID uint        `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	Total      Money       `json:"total"`
	ItemCount  int         `json:"item_count"`
	PlacedAt   time.Time   `json:"placed_at"`
}

// StatusChangeMessage is what kitchen and delivery processes send to move an
// order along.
type StatusChangeMessage struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}
