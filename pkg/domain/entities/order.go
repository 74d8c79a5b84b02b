package entities

import (
	"fmt"
	"time"
)

// OrderID represents a unique replenishment order identifier
type OrderID string

// OrderState represents the lifecycle state of a replenishment order
type OrderState int

const (
	OrderRequested OrderState = iota
	OrderFulfilled
	OrderReceived
)

// String method for OrderState enum
func (s OrderState) String() string {
	switch s {
	case OrderRequested:
		return "Requested"
	case OrderFulfilled:
		return "Fulfilled"
	case OrderReceived:
		return "Received"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions are possible from s
func (s OrderState) Terminal() bool {
	return s == OrderReceived
}

// StateConflictError reports an out-of-order lifecycle transition attempt,
// such as confirming receipt of an order that was never fulfilled.
type StateConflictError struct {
	OrderID OrderID
	From    OrderState
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("order %s: cannot confirm receipt from state %s", e.OrderID, e.From)
}

// Order represents a replenishment order for one product. Orders are
// append-only: the state advances forward and is never rolled back.
type Order struct {
	ID           OrderID
	ProductID    ProductID
	RequestedQty Quantity
	ScheduledAt  time.Time
	State        OrderState
}

// NewOrder creates a validated Order in the initial Requested state
func NewOrder(id OrderID, productID ProductID, qty Quantity, scheduledAt time.Time) (*Order, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if string(productID) == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if qty <= 0 {
		return nil, fmt.Errorf("requested quantity must be positive, got %d", qty)
	}

	return &Order{
		ID:           id,
		ProductID:    productID,
		RequestedQty: qty,
		ScheduledAt:  scheduledAt,
		State:        OrderRequested,
	}, nil
}

// MarkFulfilled advances a requested order to Fulfilled
func (o *Order) MarkFulfilled() error {
	if o.State != OrderRequested {
		return &StateConflictError{OrderID: o.ID, From: o.State}
	}
	o.State = OrderFulfilled
	return nil
}

// ConfirmReceipt advances a fulfilled order to Received. Confirming an
// already received order is a no-op; confirming a requested order is a
// state conflict.
func (o *Order) ConfirmReceipt() error {
	switch o.State {
	case OrderReceived:
		return nil
	case OrderFulfilled:
		o.State = OrderReceived
		return nil
	default:
		return &StateConflictError{OrderID: o.ID, From: o.State}
	}
}

// Newer reports whether o sorts ahead of other when looking for the most
// recent order: scheduled time descending, ties broken by id descending.
func (o *Order) Newer(other *Order) bool {
	if !o.ScheduledAt.Equal(other.ScheduledAt) {
		return o.ScheduledAt.After(other.ScheduledAt)
	}
	return o.ID > other.ID
}
