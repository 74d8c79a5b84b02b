package gateways

import (
	"context"

	"github.com/hkim/restock/pkg/domain/entities"
)

// InventoryStore provides batch-level stock records. The same batch may
// appear in overlapping scoped queries; consumers dedupe by batch id.
type InventoryStore interface {
	ListBatches(ctx context.Context) ([]*entities.Batch, error)
	ListBatchesByProduct(
		ctx context.Context,
		productID entities.ProductID,
	) ([]*entities.Batch, error)
	// ListBatchesNearExpiration returns batches expiring within horizonDays
	// calendar days.
	ListBatchesNearExpiration(
		ctx context.Context,
		horizonDays int,
	) ([]*entities.Batch, error)
}
