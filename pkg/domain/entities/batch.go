package entities

import (
	"fmt"
	"time"
)

// BatchID represents a unique identifier for one stock batch
type BatchID string

// Batch represents a lot of stock for one product with its own expiration
// date. A product typically has many batches with different expirations.
type Batch struct {
	ID             BatchID
	ProductID      ProductID
	Quantity       Quantity
	ExpirationDate time.Time
	LastUpdated    time.Time
}

// NewBatch creates a validated Batch
func NewBatch(
	id BatchID,
	productID ProductID,
	quantity Quantity,
	expirationDate, lastUpdated time.Time,
) (*Batch, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("batch id cannot be empty")
	}
	if string(productID) == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative, got %d", quantity)
	}

	return &Batch{
		ID:             id,
		ProductID:      productID,
		Quantity:       quantity,
		ExpirationDate: expirationDate,
		LastUpdated:    lastUpdated,
	}, nil
}

// DaysUntilExpiration returns the number of calendar days from now until the
// batch expires, rounding partial days up. Zero or negative means the batch
// expires today or has already expired.
func (b *Batch) DaysUntilExpiration(now time.Time) int {
	diff := b.ExpirationDate.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}
