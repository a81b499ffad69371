package models

import (
	"github.com/shopspring/decimal"
)

// Money is a fixed-point currency amount. It scans from and writes to decimal
// columns through the embedded decimal.Decimal and renders with two places.
type Money struct {
	decimal.Decimal
}

// NewMoney parses a decimal string such as "12.50".
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// MustMoney is NewMoney for literals known to be valid.
func MustMoney(s string) Money {
	return Money{decimal.RequireFromString(s)}
}

// Times returns m multiplied by a whole quantity.
func (m Money) Times(qty int) Money {
	return Money{m.Mul(decimal.NewFromInt(int64(qty)))}
}

// Plus returns m + o.
func (m Money) Plus(o Money) Money {
	return Money{m.Add(o.Decimal)}
}

// EqualTo reports numeric equality, ignoring scale ("20" equals "20.00").
func (m Money) EqualTo(o Money) bool {
	return m.Equal(o.Decimal)
}

func (m Money) String() string {
	return m.StringFixed(2)
}

// MarshalJSON renders the amount as a quoted string with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}
