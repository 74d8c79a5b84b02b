package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/domain/gateways"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when a referenced order does not exist
var ErrOrderNotFound = errors.New("order not found")

// OrderGateway provides an in-memory append-only order history
type OrderGateway struct {
	orders []*entities.Order
	now    func() time.Time
	newID  func() entities.OrderID
}

// NewOrderGateway creates a new in-memory order gateway
func NewOrderGateway() *OrderGateway {
	return &OrderGateway{
		now: time.Now,
		newID: func() entities.OrderID {
			return entities.OrderID(uuid.NewString())
		},
	}
}

// Verify interface compliance
var _ gateways.OrderGateway = (*OrderGateway)(nil)

// SetClock overrides the wall clock, for tests
func (g *OrderGateway) SetClock(now func() time.Time) {
	g.now = now
}

// SetIDFactory overrides order id minting, for tests
func (g *OrderGateway) SetIDFactory(newID func() entities.OrderID) {
	g.newID = newID
}

// LoadOrders loads pre-existing orders into the history
func (g *OrderGateway) LoadOrders(orders []*entities.Order) error {
	for _, order := range orders {
		clone := *order
		g.orders = append(g.orders, &clone)
	}
	return nil
}

// CreateOrder appends a new order in the requested state
func (g *OrderGateway) CreateOrder(
	ctx context.Context,
	productID entities.ProductID,
	qty entities.Quantity,
) (*entities.Order, error) {
	order, err := entities.NewOrder(g.newID(), productID, qty, g.now())
	if err != nil {
		return nil, fmt.Errorf("create order for %s: %w", productID, err)
	}
	g.orders = append(g.orders, order)

	out := *order
	return &out, nil
}

// ListOrders returns the full order history in creation order
func (g *OrderGateway) ListOrders(ctx context.Context) ([]*entities.Order, error) {
	out := make([]*entities.Order, 0, len(g.orders))
	for _, order := range g.orders {
		clone := *order
		out = append(out, &clone)
	}
	return out, nil
}

// LatestOrder returns the most recent order for a product, or nil when the
// product has never been ordered
func (g *OrderGateway) LatestOrder(
	ctx context.Context,
	productID entities.ProductID,
) (*entities.Order, error) {
	var latest *entities.Order
	for _, order := range g.orders {
		if order.ProductID != productID {
			continue
		}
		if latest == nil || order.Newer(latest) {
			latest = order
		}
	}
	if latest == nil {
		return nil, nil
	}

	out := *latest
	return &out, nil
}

// ConfirmReceipt advances a fulfilled order to received
func (g *OrderGateway) ConfirmReceipt(
	ctx context.Context,
	orderID entities.OrderID,
) (*entities.Order, error) {
	order, err := g.find(orderID)
	if err != nil {
		return nil, err
	}
	if err := order.ConfirmReceipt(); err != nil {
		return nil, err
	}

	out := *order
	return &out, nil
}

// MarkFulfilled records the supplier-side fulfillment of a requested order
func (g *OrderGateway) MarkFulfilled(orderID entities.OrderID) error {
	order, err := g.find(orderID)
	if err != nil {
		return err
	}
	return order.MarkFulfilled()
}

func (g *OrderGateway) find(orderID entities.OrderID) (*entities.Order, error) {
	for _, order := range g.orders {
		if order.ID == orderID {
			return order, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
}
