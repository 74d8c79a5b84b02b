package gateways

import (
	"context"

	"github.com/hkim/restock/pkg/domain/entities"
)

// OrderGateway creates replenishment orders and drives their lifecycle on
// the collaborator side. Order history is append-only; implementations must
// enforce forward-only transitions using the entity state machine.
type OrderGateway interface {
	CreateOrder(
		ctx context.Context,
		productID entities.ProductID,
		qty entities.Quantity,
	) (*entities.Order, error)
	ListOrders(ctx context.Context) ([]*entities.Order, error)
	// LatestOrder returns the most recent order for the product, by
	// scheduled time descending with ties broken by order id descending,
	// or nil when the product has never been ordered.
	LatestOrder(
		ctx context.Context,
		productID entities.ProductID,
	) (*entities.Order, error)
	// ConfirmReceipt advances a fulfilled order to received and returns the
	// resulting order. Confirming a received order returns it unchanged;
	// confirming a requested order fails with *entities.StateConflictError.
	ConfirmReceipt(ctx context.Context, orderID entities.OrderID) (*entities.Order, error)
}
