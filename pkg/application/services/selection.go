package services

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/domain/gateways"
)

// SelectionHints carries the per-product suggestions shown next to a freshly
// selected entry: the reorder recommendation and the most recent order
// quantity. Hints are best-effort; a failed refresh leaves them absent.
type SelectionHints struct {
	Recommendation    entities.Recommendation
	HasRecommendation bool
	LatestOrderQty    entities.Quantity
	HasLatestOrder    bool
}

// SelectionManager holds the operator's in-progress set of products and
// quantities for the next order submission. One manager exists per operator
// session; a single writer mutates it and last write wins.
type SelectionManager struct {
	inventory   gateways.InventoryStore
	sales       gateways.SalesHistory
	orders      gateways.OrderGateway
	aggregator  *Aggregator
	replenisher *Replenisher
	logger      *slog.Logger

	entries  map[entities.ProductID]entities.Quantity
	sequence []entities.ProductID
	hints    map[entities.ProductID]SelectionHints
}

// NewSelectionManager creates an empty selection working set.
func NewSelectionManager(
	inventory gateways.InventoryStore,
	sales gateways.SalesHistory,
	orders gateways.OrderGateway,
	aggregator *Aggregator,
	replenisher *Replenisher,
	logger *slog.Logger,
) *SelectionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SelectionManager{
		inventory:   inventory,
		sales:       sales,
		orders:      orders,
		aggregator:  aggregator,
		replenisher: replenisher,
		logger:      logger,
		entries:     make(map[entities.ProductID]entities.Quantity),
		hints:       make(map[entities.ProductID]SelectionHints),
	}
}

// ParseQuantity validates operator quantity input at the boundary. Only
// positive integers pass; everything else is a ValidationError and never
// reaches the selection set.
func ParseQuantity(input string) (entities.Quantity, error) {
	n, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: "quantity", Reason: "must be an integer"}
	}
	if n < 1 {
		return 0, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	return entities.Quantity(n), nil
}

// Toggle flips membership for the product. Adding selects it with the
// default quantity of 1 and refreshes its recommendation and latest-order
// hints; removing deletes the entry entirely. The returned bool reports
// whether the product is selected afterwards. A failed hint refresh keeps
// the entry and returns a TransientError alongside selected=true.
func (m *SelectionManager) Toggle(ctx context.Context, productID entities.ProductID) (bool, error) {
	if _, selected := m.entries[productID]; selected {
		m.remove(productID)
		return false, nil
	}

	m.entries[productID] = 1
	m.sequence = append(m.sequence, productID)

	if err := m.refreshHints(ctx, productID); err != nil {
		m.logger.Warn("selection hint refresh failed",
			"product_id", productID, "error", err)
		return true, &TransientError{Op: "refresh selection hints", Err: err}
	}
	return true, nil
}

// SetQuantity overwrites the desired quantity of a selected product. The
// quantity must already be validated positive; zero or negative input is
// rejected here as a final guard.
func (m *SelectionManager) SetQuantity(productID entities.ProductID, qty entities.Quantity) error {
	if qty < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if _, selected := m.entries[productID]; !selected {
		return &ValidationError{Field: "productId", Reason: "not in selection"}
	}
	m.entries[productID] = qty
	return nil
}

// BulkAdd merges an externally prepared set of entries, such as expiring
// items chosen for reorder or a replayed past order. Quantities of products
// already selected are overwritten. The whole batch is validated first;
// nothing is applied when any entry is invalid.
func (m *SelectionManager) BulkAdd(entries []entities.SelectionEntry) error {
	for _, entry := range entries {
		if entry.ProductID == "" {
			return &ValidationError{Field: "productId", Reason: "cannot be empty"}
		}
		if entry.Quantity < 1 {
			return &ValidationError{Field: "quantity", Reason: "must be at least 1"}
		}
	}

	for _, entry := range entries {
		if _, selected := m.entries[entry.ProductID]; !selected {
			m.sequence = append(m.sequence, entry.ProductID)
		}
		m.entries[entry.ProductID] = entry.Quantity
	}
	return nil
}

// SelectAll replaces the selection with the given products at the default
// quantity, mirroring the list view's select-all control. An empty id set
// clears the selection.
func (m *SelectionManager) SelectAll(productIDs []entities.ProductID) {
	m.Clear()
	for _, id := range productIDs {
		if _, selected := m.entries[id]; selected {
			continue
		}
		m.entries[id] = 1
		m.sequence = append(m.sequence, id)
	}
}

// Clear empties the selection.
func (m *SelectionManager) Clear() {
	m.entries = make(map[entities.ProductID]entities.Quantity)
	m.sequence = nil
	m.hints = make(map[entities.ProductID]SelectionHints)
}

// Entries returns the selection in the order products were added.
func (m *SelectionManager) Entries() []entities.SelectionEntry {
	out := make([]entities.SelectionEntry, 0, len(m.entries))
	for _, id := range m.sequence {
		out = append(out, entities.SelectionEntry{ProductID: id, Quantity: m.entries[id]})
	}
	return out
}

// Len returns the number of selected products.
func (m *SelectionManager) Len() int {
	return len(m.entries)
}

// TotalQuantity returns the sum of all selected quantities.
func (m *SelectionManager) TotalQuantity() entities.Quantity {
	var total entities.Quantity
	for _, qty := range m.entries {
		total += qty
	}
	return total
}

// Quantity returns the selected quantity for a product and whether the
// product is selected at all.
func (m *SelectionManager) Quantity(productID entities.ProductID) (entities.Quantity, bool) {
	qty, ok := m.entries[productID]
	return qty, ok
}

// Hint returns the suggestion hints loaded when the product was selected.
func (m *SelectionManager) Hint(productID entities.ProductID) (SelectionHints, bool) {
	hint, ok := m.hints[productID]
	return hint, ok
}

func (m *SelectionManager) remove(productID entities.ProductID) {
	delete(m.entries, productID)
	delete(m.hints, productID)
	for i, id := range m.sequence {
		if id == productID {
			m.sequence = append(m.sequence[:i], m.sequence[i+1:]...)
			break
		}
	}
}

func (m *SelectionManager) refreshHints(ctx context.Context, productID entities.ProductID) error {
	var hints SelectionHints

	latest, err := m.orders.LatestOrder(ctx, productID)
	if err != nil {
		return err
	}
	if latest != nil {
		hints.LatestOrderQty = latest.RequestedQty
		hints.HasLatestOrder = true
	}

	samples, err := m.sales.WeeklySamples(ctx, productID)
	if err != nil {
		return err
	}

	batches, err := m.inventory.ListBatchesByProduct(ctx, productID)
	if err != nil {
		return err
	}

	var stock entities.Quantity
	if agg, ok := m.aggregator.Aggregate(batches)[productID]; ok {
		stock = agg.TotalQuantity
	}

	hints.Recommendation = m.replenisher.Recommend(productID, samples, stock)
	hints.HasRecommendation = true
	m.hints[productID] = hints
	return nil
}
