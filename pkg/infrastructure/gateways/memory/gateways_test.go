package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hkim/restock/pkg/domain/entities"

	"github.com/shopspring/decimal"
)

func mustProduct(t *testing.T, id entities.ProductID, category entities.CategoryID, subcategory entities.SubcategoryID) entities.Product {
	t.Helper()
	product, err := entities.NewProduct(id, "Product "+string(id), decimal.NewFromInt(1000), category, subcategory, time.Time{})
	if err != nil {
		t.Fatalf("NewProduct failed: %v", err)
	}
	return *product
}

func mustBatch(t *testing.T, id entities.BatchID, productID entities.ProductID, qty entities.Quantity, expires time.Time) entities.Batch {
	t.Helper()
	batch, err := entities.NewBatch(id, productID, qty, expires, expires.Add(-72*time.Hour))
	if err != nil {
		t.Fatalf("NewBatch failed: %v", err)
	}
	return *batch
}

func TestCatalogGateway_Scoping(t *testing.T) {
	catalog := NewCatalogGateway()
	catalog.AddProduct(mustProduct(t, "P-1", "Food", "Instant"))
	catalog.AddProduct(mustProduct(t, "P-2", "Food", "Noodles"))
	catalog.AddProduct(mustProduct(t, "P-3", "Drinks", "Dairy"))
	ctx := context.Background()

	all, err := catalog.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}

	food, err := catalog.ListProductsByCategory(ctx, "Food")
	if err != nil {
		t.Fatalf("ListProductsByCategory failed: %v", err)
	}
	if len(food) != 2 {
		t.Fatalf("expected 2 food products, got %d", len(food))
	}

	instant, err := catalog.ListProductsBySubcategory(ctx, "Food", "Instant")
	if err != nil {
		t.Fatalf("ListProductsBySubcategory failed: %v", err)
	}
	if len(instant) != 1 || instant[0].ID != "P-1" {
		t.Fatalf("expected only P-1 in Food/Instant, got %v", instant)
	}

	// Callers get copies, not aliases into the store.
	instant[0].Name = "mutated"
	again, _ := catalog.ListProductsBySubcategory(ctx, "Food", "Instant")
	if again[0].Name == "mutated" {
		t.Error("catalog returned an aliased product")
	}
}

func TestInventoryStore_NearExpiration(t *testing.T) {
	now := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	store := NewInventoryStore()
	store.SetClock(func() time.Time { return now })

	store.AddBatch(mustBatch(t, "B-1", "P-1", 4, now.Add(12*time.Hour)))
	store.AddBatch(mustBatch(t, "B-2", "P-1", 3, now.Add(-6*time.Hour)))
	store.AddBatch(mustBatch(t, "B-3", "P-2", 5, now.Add(200*time.Hour)))
	ctx := context.Background()

	expiring, err := store.ListBatchesNearExpiration(ctx, 3)
	if err != nil {
		t.Fatalf("ListBatchesNearExpiration failed: %v", err)
	}
	if len(expiring) != 2 {
		t.Fatalf("expected 2 expiring batches, got %d", len(expiring))
	}
	if expiring[0].ID != "B-2" || expiring[1].ID != "B-1" {
		t.Errorf("expected expired batch first, got %s then %s", expiring[0].ID, expiring[1].ID)
	}

	byProduct, err := store.ListBatchesByProduct(ctx, "P-1")
	if err != nil {
		t.Fatalf("ListBatchesByProduct failed: %v", err)
	}
	if len(byProduct) != 2 {
		t.Errorf("expected 2 batches for P-1, got %d", len(byProduct))
	}
}

func TestSalesHistory_WeeklySamples(t *testing.T) {
	history := NewSalesHistory()
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	// Ten days of history, inserted out of order.
	for _, offset := range []int{3, 0, 7, 1, 9, 2, 5, 4, 8, 6} {
		history.AddSample(entities.SalesSample{
			ProductID: "P-1",
			Day:       base.AddDate(0, 0, offset),
			UnitsSold: entities.Quantity(offset),
		})
	}

	samples, err := history.WeeklySamples(context.Background(), "P-1")
	if err != nil {
		t.Fatalf("WeeklySamples failed: %v", err)
	}
	if len(samples) != 7 {
		t.Fatalf("expected window of 7 samples, got %d", len(samples))
	}
	for i, sample := range samples {
		want := entities.Quantity(9 - i)
		if sample.UnitsSold != want {
			t.Errorf("sample %d: expected %d units, got %d", i, want, sample.UnitsSold)
		}
	}

	empty, err := history.WeeklySamples(context.Background(), "P-9")
	if err != nil {
		t.Fatalf("WeeklySamples failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no samples for unknown product, got %d", len(empty))
	}
}

func TestOrderGateway_LatestAndLifecycle(t *testing.T) {
	gateway := NewOrderGateway()
	base := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	clock := base
	gateway.SetClock(func() time.Time { return clock })
	n := 0
	gateway.SetIDFactory(func() entities.OrderID {
		n++
		return entities.OrderID(fmt.Sprintf("ORD-%d", n))
	})
	ctx := context.Background()

	latest, err := gateway.LatestOrder(ctx, "P-1")
	if err != nil {
		t.Fatalf("LatestOrder failed: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil latest order, got %v", latest)
	}

	first, err := gateway.CreateOrder(ctx, "P-1", 2)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	clock = base.Add(time.Hour)
	second, err := gateway.CreateOrder(ctx, "P-1", 5)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	latest, err = gateway.LatestOrder(ctx, "P-1")
	if err != nil {
		t.Fatalf("LatestOrder failed: %v", err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Fatalf("expected %s as latest, got %v", second.ID, latest)
	}

	// Receipt before fulfillment is a state conflict.
	_, err = gateway.ConfirmReceipt(ctx, first.ID)
	var conflict *entities.StateConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}

	if err := gateway.MarkFulfilled(first.ID); err != nil {
		t.Fatalf("MarkFulfilled failed: %v", err)
	}
	received, err := gateway.ConfirmReceipt(ctx, first.ID)
	if err != nil {
		t.Fatalf("ConfirmReceipt failed: %v", err)
	}
	if received.State != entities.OrderReceived {
		t.Errorf("expected Received, got %s", received.State)
	}

	_, err = gateway.ConfirmReceipt(ctx, "missing")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}

	orders, err := gateway.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	// History hands out copies.
	orders[0].State = entities.OrderRequested
	fresh, _ := gateway.ListOrders(ctx)
	if fresh[0].State != entities.OrderReceived {
		t.Error("order history returned an aliased order")
	}
}
