package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductID represents a unique product identifier
type ProductID string

// Quantity represents an integer quantity of discrete retail units
type Quantity int64

// CategoryID represents a top-level product category
type CategoryID string

// SubcategoryID represents a subcategory within a category
type SubcategoryID string

// Discount represents a time-bounded price reduction on a product
type Discount struct {
	Rate   decimal.Decimal // fraction of the unit price, 0 < Rate < 1
	EndsAt time.Time
}

// Active reports whether the discount applies at the given time
func (d Discount) Active(now time.Time) bool {
	return now.Before(d.EndsAt)
}

// Product represents a catalog product. Products are owned by the catalog
// gateway and read-only to this module.
type Product struct {
	ID          ProductID
	Name        string
	UnitPrice   decimal.Decimal
	Category    CategoryID
	Subcategory SubcategoryID
	Discount    *Discount
	CreatedAt   time.Time
}

// NewProduct creates a validated Product
func NewProduct(
	id ProductID,
	name string,
	unitPrice decimal.Decimal,
	category CategoryID,
	subcategory SubcategoryID,
	createdAt time.Time,
) (*Product, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price cannot be negative, got %s", unitPrice)
	}

	return &Product{
		ID:          id,
		Name:        name,
		UnitPrice:   unitPrice,
		Category:    category,
		Subcategory: subcategory,
		CreatedAt:   createdAt,
	}, nil
}

// EffectivePrice returns the unit price with any active discount applied
func (p *Product) EffectivePrice(now time.Time) decimal.Decimal {
	if p.Discount == nil || !p.Discount.Active(now) {
		return p.UnitPrice
	}
	return p.UnitPrice.Mul(decimal.NewFromInt(1).Sub(p.Discount.Rate))
}
