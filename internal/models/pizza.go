package models

import (
	"fmt"
	"strings"
)

// Size is one of the four canonical pizza sizes.
type Size string

const (
	SizeSmall      Size = "Small"
	SizeMedium     Size = "Medium"
	SizeLarge      Size = "Large"
	SizeExtraLarge Size = "ExtraLarge"
)

// Sizes lists the canonical sizes in menu order.
var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge}

// ParseSize normalizes user input against the canonical enumeration.
// Case, spaces, dashes and underscores are ignored, so "Extra Large",
// "extralarge" and "extra_large" all yield SizeExtraLarge.
func ParseSize(s string) (Size, error) {
	key := strings.ToLower(s)
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	switch key {
	case "small", "s":
		return SizeSmall, nil
	case "medium", "m":
		return SizeMedium, nil
	case "large", "l":
		return SizeLarge, nil
	case "extralarge", "xl":
		return SizeExtraLarge, nil
	}
	return "", fmt.Errorf("unknown size %q", s)
}

// Pizza is a catalog entry with one price per size.
type Pizza struct {
	ID              uint   `json:"pizza_id" gorm:"column:pizza_id;primaryKey"`
	Name            string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Description     string `json:"description" gorm:"type:varchar(500)"`
	SmallPrice      Money  `json:"small_price" gorm:"type:decimal(10,2);not null"`
	MediumPrice     Money  `json:"medium_price" gorm:"type:decimal(10,2);not null"`
	LargePrice      Money  `json:"large_price" gorm:"type:decimal(10,2);not null"`
	ExtraLargePrice Money  `json:"extra_large_price" gorm:"type:decimal(10,2);not null"`
}

// PriceFor returns the unit price of the pizza in the given size.
func (p Pizza) PriceFor(size Size) (Money, error) {
	switch size {
	case SizeSmall:
		return p.SmallPrice, nil
	case SizeMedium:
		return p.MediumPrice, nil
	case SizeLarge:
		return p.LargePrice, nil
	case SizeExtraLarge:
		return p.ExtraLargePrice, nil
	}
	return Money{}, fmt.Errorf("unknown size %q", size)
}
