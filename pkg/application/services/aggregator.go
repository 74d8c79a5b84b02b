// Package services implements the replenishment workflow: batch aggregation,
// sales velocity and reorder recommendations, the operator's selection set,
// the order lifecycle, and the compound catalog/stock filter resolver.
package services

import (
	"github.com/hkim/restock/pkg/domain/entities"
)

// Aggregator merges batch-level stock records into per-product totals with a
// derived normal/low status. It is a pure transform with no side effects.
type Aggregator struct {
	lowStockThreshold entities.Quantity
}

// NewAggregator creates an Aggregator flagging products whose total falls
// below the given threshold. A non-positive threshold falls back to the
// default of 5.
func NewAggregator(lowStockThreshold int64) *Aggregator {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 5
	}
	return &Aggregator{lowStockThreshold: entities.Quantity(lowStockThreshold)}
}

// Aggregate groups batches by product and sums their quantities. Batches are
// deduplicated by batch id, so results merged from overlapping scoped
// fetches count each batch once.
func (a *Aggregator) Aggregate(batches []*entities.Batch) map[entities.ProductID]entities.AggregateStock {
	seen := make(map[entities.BatchID]struct{}, len(batches))
	totals := make(map[entities.ProductID]entities.Quantity)

	for _, batch := range batches {
		if _, dup := seen[batch.ID]; dup {
			continue
		}
		seen[batch.ID] = struct{}{}
		totals[batch.ProductID] += batch.Quantity
	}

	stocks := make(map[entities.ProductID]entities.AggregateStock, len(totals))
	for productID, total := range totals {
		stocks[productID] = entities.AggregateStock{
			ProductID:     productID,
			TotalQuantity: total,
			Status:        a.statusFor(total),
		}
	}
	return stocks
}

// Merge joins catalog products with their aggregate stock, preserving the
// catalog order. Products without any observed batch project as total 0 and
// low stock; batches for products outside the catalog set are dropped.
func (a *Aggregator) Merge(
	products []*entities.Product,
	batches []*entities.Batch,
) []entities.MergedProductView {
	stocks := a.Aggregate(batches)

	views := make([]entities.MergedProductView, 0, len(products))
	for _, product := range products {
		stock, ok := stocks[product.ID]
		if !ok {
			stock = entities.AggregateStock{
				ProductID:     product.ID,
				TotalQuantity: 0,
				Status:        a.statusFor(0),
			}
		}
		views = append(views, entities.MergedProductView{
			Product: *product,
			Stock:   stock,
		})
	}
	return views
}

func (a *Aggregator) statusFor(total entities.Quantity) entities.StockStatus {
	if total < a.lowStockThreshold {
		return entities.StockLow
	}
	return entities.StockNormal
}
