package gateways

import (
	"context"

	"github.com/hkim/restock/pkg/domain/entities"
)

// SalesHistory provides trailing daily unit-sales samples per product.
type SalesHistory interface {
	// WeeklySamples returns up to seven trailing daily samples for the
	// product. Days with no recorded sales may be missing entirely.
	WeeklySamples(
		ctx context.Context,
		productID entities.ProductID,
	) ([]*entities.SalesSample, error)
}
