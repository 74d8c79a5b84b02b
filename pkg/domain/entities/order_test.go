package entities

import (
	"errors"
	"testing"
	"time"
)

func TestNewOrder_StartsRequested(t *testing.T) {
	order, err := NewOrder("ORD-1", "P-1", 3, time.Now())
	if err != nil {
		t.Fatalf("NewOrder failed: %v", err)
	}
	if order.State != OrderRequested {
		t.Errorf("expected state %s, got %s", OrderRequested, order.State)
	}
}

func TestNewOrder_Validation(t *testing.T) {
	now := time.Now()

	if _, err := NewOrder("", "P-1", 1, now); err == nil {
		t.Error("expected error for empty order id")
	}
	if _, err := NewOrder("ORD-1", "", 1, now); err == nil {
		t.Error("expected error for empty product id")
	}
	if _, err := NewOrder("ORD-1", "P-1", 0, now); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := NewOrder("ORD-1", "P-1", -2, now); err == nil {
		t.Error("expected error for negative quantity")
	}
}

func TestOrder_ConfirmReceipt_FromRequested(t *testing.T) {
	order, _ := NewOrder("ORD-1", "P-1", 1, time.Now())

	err := order.ConfirmReceipt()
	if err == nil {
		t.Fatal("expected state conflict confirming a requested order")
	}

	var conflict *StateConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected StateConflictError, got %T", err)
	}
	if conflict.From != OrderRequested {
		t.Errorf("expected conflict from %s, got %s", OrderRequested, conflict.From)
	}
	if order.State != OrderRequested {
		t.Errorf("order state must not change on conflict, got %s", order.State)
	}
}

func TestOrder_ConfirmReceipt_FromFulfilled(t *testing.T) {
	order, _ := NewOrder("ORD-1", "P-1", 1, time.Now())
	if err := order.MarkFulfilled(); err != nil {
		t.Fatalf("MarkFulfilled failed: %v", err)
	}

	if err := order.ConfirmReceipt(); err != nil {
		t.Fatalf("ConfirmReceipt failed: %v", err)
	}
	if order.State != OrderReceived {
		t.Errorf("expected state %s, got %s", OrderReceived, order.State)
	}
}

func TestOrder_ConfirmReceipt_Idempotent(t *testing.T) {
	order, _ := NewOrder("ORD-1", "P-1", 1, time.Now())
	_ = order.MarkFulfilled()
	_ = order.ConfirmReceipt()

	if err := order.ConfirmReceipt(); err != nil {
		t.Fatalf("confirming a received order must be a no-op, got: %v", err)
	}
	if order.State != OrderReceived {
		t.Errorf("expected state %s, got %s", OrderReceived, order.State)
	}
}

func TestOrder_MarkFulfilled_OnlyFromRequested(t *testing.T) {
	order, _ := NewOrder("ORD-1", "P-1", 1, time.Now())
	_ = order.MarkFulfilled()

	if err := order.MarkFulfilled(); err == nil {
		t.Error("expected state conflict fulfilling a fulfilled order")
	}
}

func TestOrder_Newer_TieBrokenByID(t *testing.T) {
	at := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	older, _ := NewOrder("ORD-A", "P-1", 1, at)
	newer, _ := NewOrder("ORD-B", "P-1", 1, at)

	if !newer.Newer(older) {
		t.Error("expected ORD-B to sort ahead of ORD-A at equal times")
	}
	if older.Newer(newer) {
		t.Error("expected ORD-A to sort behind ORD-B at equal times")
	}

	later, _ := NewOrder("ORD-A", "P-1", 1, at.Add(time.Minute))
	if !later.Newer(newer) {
		t.Error("expected the later scheduled order to win regardless of id")
	}
}
