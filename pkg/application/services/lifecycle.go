package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/domain/gateways"
)

// Lifecycle event types appended to the audit stream of each order.
const (
	EventOrderRequested     = "order.requested"
	EventReceiptConfirmed   = "order.receipt_confirmed"
	EventReceiptConflict    = "order.receipt_conflict"
	EventSelectionSubmitted = "selection.submitted"
)

// EventSink receives lifecycle audit events. A nil sink disables auditing.
type EventSink interface {
	Append(streamID, eventType string, data any)
}

// OrderSort selects the ordering of a ListOrders projection.
type OrderSort int

const (
	OrderSortNone OrderSort = iota
	OrderSortDateAsc
	OrderSortDateDesc
	OrderSortQtyAsc
	OrderSortQtyDesc
)

// OrderQuery is the compound filter of the order list view.
type OrderQuery struct {
	// Day restricts results to orders scheduled on this calendar day.
	// The zero time matches every day.
	Day time.Time
	// Search matches case-insensitively against the product name or as a
	// substring of the order id.
	Search string
	// State restricts results to one lifecycle state. Nil matches all.
	State *entities.OrderState
	Sort  OrderSort
}

// OrderRow joins an order with its product name for table rendering.
type OrderRow struct {
	Order       entities.Order
	ProductName string
}

// OrderCoordinator creates replenishment orders and drives their lifecycle
// through the order gateway. All transitions run on the collaborator side;
// the coordinator owns sequencing, attribution and auditing.
type OrderCoordinator struct {
	orders  gateways.OrderGateway
	catalog gateways.CatalogGateway
	sink    EventSink
	logger  *slog.Logger
}

// NewOrderCoordinator creates an order coordinator. The sink may be nil.
func NewOrderCoordinator(
	orders gateways.OrderGateway,
	catalog gateways.CatalogGateway,
	sink EventSink,
	logger *slog.Logger,
) *OrderCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderCoordinator{
		orders:  orders,
		catalog: catalog,
		sink:    sink,
		logger:  logger,
	}
}

// CreateOrder places a new replenishment order for the product. The order
// starts in the requested state.
func (c *OrderCoordinator) CreateOrder(
	ctx context.Context,
	productID entities.ProductID,
	qty entities.Quantity,
) (*entities.Order, error) {
	if productID == "" {
		return nil, &ValidationError{Field: "productId", Reason: "cannot be empty"}
	}
	if qty < 1 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}

	order, err := c.orders.CreateOrder(ctx, productID, qty)
	if err != nil {
		return nil, &TransientError{Op: "create order", Err: err}
	}

	c.emit(order.ID, EventOrderRequested, *order)
	c.logger.Info("order requested",
		"order_id", order.ID, "product_id", productID, "qty", qty)
	return order, nil
}

// Submit drains the selection into one order per product, strictly in
// selection order. The selection is cleared only when every order was
// created; on a mid-batch failure the already created orders stand and the
// remaining entries stay selected for retry.
func (c *OrderCoordinator) Submit(
	ctx context.Context,
	selection *SelectionManager,
) ([]*entities.Order, error) {
	entries := selection.Entries()
	if len(entries) == 0 {
		return nil, &ValidationError{Field: "selection", Reason: "no products selected"}
	}

	created := make([]*entities.Order, 0, len(entries))
	for _, entry := range entries {
		order, err := c.CreateOrder(ctx, entry.ProductID, entry.Quantity)
		if err != nil {
			return created, err
		}
		created = append(created, order)
	}

	selection.Clear()
	c.emit("selection", EventSelectionSubmitted, len(created))
	return created, nil
}

// ConfirmReceipt advances a fulfilled order to received. Confirming a
// received order is an idempotent no-op; confirming a requested order
// surfaces the *entities.StateConflictError from the gateway.
func (c *OrderCoordinator) ConfirmReceipt(
	ctx context.Context,
	orderID entities.OrderID,
) (*entities.Order, error) {
	order, err := c.orders.ConfirmReceipt(ctx, orderID)
	if err != nil {
		var conflict *entities.StateConflictError
		if errors.As(err, &conflict) {
			c.emit(orderID, EventReceiptConflict, conflict.From.String())
			return nil, err
		}
		return nil, &TransientError{Op: "confirm receipt", Err: err}
	}

	c.emit(order.ID, EventReceiptConfirmed, *order)
	c.logger.Info("order receipt confirmed", "order_id", order.ID)
	return order, nil
}

// BatchConfirmReceipt confirms receipt of each order strictly in the given
// sequence, one call at a time. A failure does not roll back earlier
// confirmations; each one is an independent, already committed transition.
// The result counts successes and attributes every failure to its order id.
func (c *OrderCoordinator) BatchConfirmReceipt(
	ctx context.Context,
	orderIDs []entities.OrderID,
) BatchConfirmResult {
	var result BatchConfirmResult

	for i, orderID := range orderIDs {
		if err := ctx.Err(); err != nil {
			for _, remaining := range orderIDs[i:] {
				result.Failures = append(result.Failures, BatchConfirmFailure{
					OrderID: remaining,
					Err:     err,
				})
			}
			break
		}

		if _, err := c.ConfirmReceipt(ctx, orderID); err != nil {
			result.Failures = append(result.Failures, BatchConfirmFailure{
				OrderID: orderID,
				Err:     err,
			})
			continue
		}
		result.Confirmed++
	}

	if !result.AllConfirmed() {
		c.logger.Warn("batch receipt confirmation partially failed",
			"confirmed", result.Confirmed, "failed", len(result.Failures))
	}
	return result
}

// LatestOrder returns the most recent order for a product, or nil when the
// product has never been ordered.
func (c *OrderCoordinator) LatestOrder(
	ctx context.Context,
	productID entities.ProductID,
) (*entities.Order, error) {
	order, err := c.orders.LatestOrder(ctx, productID)
	if err != nil {
		return nil, &TransientError{Op: "fetch latest order", Err: err}
	}
	return order, nil
}

// ListOrders projects the order history through the compound order filter,
// joining product names from the catalog for rendering.
func (c *OrderCoordinator) ListOrders(ctx context.Context, query OrderQuery) ([]OrderRow, error) {
	orders, err := c.orders.ListOrders(ctx)
	if err != nil {
		return nil, &TransientError{Op: "list orders", Err: err}
	}
	products, err := c.catalog.ListProducts(ctx)
	if err != nil {
		return nil, &TransientError{Op: "list products", Err: err}
	}

	names := make(map[entities.ProductID]string, len(products))
	for _, product := range products {
		names[product.ID] = product.Name
	}

	rows := make([]OrderRow, 0, len(orders))
	for _, order := range orders {
		row := OrderRow{Order: *order, ProductName: names[order.ProductID]}
		if query.matches(row) {
			rows = append(rows, row)
		}
	}

	query.sortRows(rows)
	return rows, nil
}

func (q OrderQuery) matches(row OrderRow) bool {
	if !q.Day.IsZero() {
		qy, qm, qd := q.Day.Date()
		oy, om, od := row.Order.ScheduledAt.Date()
		if qy != oy || qm != om || qd != od {
			return false
		}
	}
	if q.Search != "" {
		needle := strings.ToLower(strings.TrimSpace(q.Search))
		nameHit := strings.Contains(strings.ToLower(row.ProductName), needle)
		idHit := strings.Contains(strings.ToLower(string(row.Order.ID)), needle)
		if !nameHit && !idHit {
			return false
		}
	}
	if q.State != nil && row.Order.State != *q.State {
		return false
	}
	return true
}

func (q OrderQuery) sortRows(rows []OrderRow) {
	switch q.Sort {
	case OrderSortDateAsc:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Order.ScheduledAt.Before(rows[j].Order.ScheduledAt)
		})
	case OrderSortDateDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Order.ScheduledAt.After(rows[j].Order.ScheduledAt)
		})
	case OrderSortQtyAsc:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Order.RequestedQty < rows[j].Order.RequestedQty
		})
	case OrderSortQtyDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Order.RequestedQty > rows[j].Order.RequestedQty
		})
	}
}

func (c *OrderCoordinator) emit(streamID entities.OrderID, eventType string, data any) {
	if c.sink == nil {
		return
	}
	c.sink.Append(string(streamID), eventType, data)
}
