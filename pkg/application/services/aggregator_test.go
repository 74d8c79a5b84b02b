package services

import (
	"testing"
	"time"

	"github.com/hkim/restock/pkg/domain/entities"

	"github.com/shopspring/decimal"
)

func testBatch(t *testing.T, id entities.BatchID, productID entities.ProductID, qty entities.Quantity) *entities.Batch {
	t.Helper()
	batch, err := entities.NewBatch(id, productID, qty, time.Now().Add(72*time.Hour), time.Now())
	if err != nil {
		t.Fatalf("NewBatch failed: %v", err)
	}
	return batch
}

func testProduct(t *testing.T, id entities.ProductID, name string, price int64) *entities.Product {
	t.Helper()
	product, err := entities.NewProduct(id, name, decimal.NewFromInt(price), "Food", "Snacks", time.Now())
	if err != nil {
		t.Fatalf("NewProduct failed: %v", err)
	}
	return product
}

func TestAggregator_SumsBatchesPerProduct(t *testing.T) {
	agg := NewAggregator(5)

	stocks := agg.Aggregate([]*entities.Batch{
		testBatch(t, "B-1", "P-1", 2),
		testBatch(t, "B-2", "P-1", 2),
		testBatch(t, "B-3", "P-2", 7),
	})

	p1 := stocks["P-1"]
	if p1.TotalQuantity != 4 {
		t.Errorf("expected P-1 total 4, got %d", p1.TotalQuantity)
	}
	if p1.Status != entities.StockLow {
		t.Errorf("expected P-1 low, got %s", p1.Status)
	}

	p2 := stocks["P-2"]
	if p2.TotalQuantity != 7 {
		t.Errorf("expected P-2 total 7, got %d", p2.TotalQuantity)
	}
	if p2.Status != entities.StockNormal {
		t.Errorf("expected P-2 normal, got %s", p2.Status)
	}
}

func TestAggregator_ThresholdBoundary(t *testing.T) {
	agg := NewAggregator(5)

	stocks := agg.Aggregate([]*entities.Batch{
		testBatch(t, "B-1", "P-4", 4),
		testBatch(t, "B-2", "P-5", 5),
	})

	if stocks["P-4"].Status != entities.StockLow {
		t.Errorf("total 4 must be low, got %s", stocks["P-4"].Status)
	}
	if stocks["P-5"].Status != entities.StockNormal {
		t.Errorf("total 5 must be normal, got %s", stocks["P-5"].Status)
	}
}

func TestAggregator_DedupesByBatchID(t *testing.T) {
	agg := NewAggregator(5)

	// The same batch observed through two overlapping scoped fetches.
	byCategory := testBatch(t, "B-1", "P-1", 3)
	bySubcategory := testBatch(t, "B-1", "P-1", 3)

	stocks := agg.Aggregate([]*entities.Batch{byCategory, bySubcategory})

	if got := stocks["P-1"].TotalQuantity; got != 3 {
		t.Errorf("expected duplicate batch counted once (total 3), got %d", got)
	}
}

func TestAggregator_Merge_ProductWithoutBatches(t *testing.T) {
	agg := NewAggregator(5)

	views := agg.Merge(
		[]*entities.Product{
			testProduct(t, "P-1", "Cup Noodles", 1200),
			testProduct(t, "P-2", "Choco Pie", 800),
		},
		[]*entities.Batch{testBatch(t, "B-1", "P-1", 9)},
	)

	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[1].Product.ID != "P-2" {
		t.Fatalf("expected catalog order preserved, got %s second", views[1].Product.ID)
	}
	if views[1].Stock.TotalQuantity != 0 || views[1].Stock.Status != entities.StockLow {
		t.Errorf("batchless product must project 0/low, got %d/%s",
			views[1].Stock.TotalQuantity, views[1].Stock.Status)
	}
}

func TestAggregator_Merge_DropsBatchesOutsideCatalogSet(t *testing.T) {
	agg := NewAggregator(5)

	views := agg.Merge(
		[]*entities.Product{testProduct(t, "P-1", "Cup Noodles", 1200)},
		[]*entities.Batch{
			testBatch(t, "B-1", "P-1", 6),
			testBatch(t, "B-2", "P-99", 10),
		},
	)

	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if views[0].Product.ID != "P-1" {
		t.Errorf("unexpected product %s", views[0].Product.ID)
	}
}
