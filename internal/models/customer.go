package models

import (
	"strings"
	"time"
)

// Customer is a contact identity. Phone is the natural key.
type Customer struct {
	ID        uint      `json:"customer_id" gorm:"column:customer_id;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Phone     string    `json:"phone" gorm:"type:varchar(20);uniqueIndex;not null"`
	Address   string    `json:"address" gorm:"type:varchar(255)"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerContact is the contact information a client supplies with an order.
type CustomerContact struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,max=20"`
	Address string `json:"address" validate:"required,max=255"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
}

// Normalize trims surrounding whitespace from every field.
func (c CustomerContact) Normalize() CustomerContact {
	return CustomerContact{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
		Email:   strings.TrimSpace(c.Email),
	}
}

// ToCustomer builds the record inserted for a previously unseen phone.
func (c CustomerContact) ToCustomer() *Customer {
	return &Customer{
		Name:    c.Name,
		Phone:   c.Phone,
		Address: c.Address,
		Email:   c.Email,
	}
}
