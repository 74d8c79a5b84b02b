package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hkim/restock/pkg/application/services"
	"github.com/hkim/restock/pkg/config"
	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/infrastructure/events"
	"github.com/hkim/restock/pkg/infrastructure/gateways/memory"
	"github.com/hkim/restock/pkg/obs"
)

func main() {
	ctx := context.Background()

	// Create collaborator gateways
	catalog := memory.NewCatalogGateway()
	inventory := memory.NewInventoryStore()
	sales := memory.NewSalesHistory()
	orders := memory.NewOrderGateway()

	setupCornerStore(catalog, inventory, sales)

	// Assemble the workflow services
	cfg := config.Default()
	logger := obs.NewLogger(slog.LevelWarn)
	aggregator := services.NewAggregator(cfg.LowStockThreshold)
	replenisher := services.NewReplenisher(cfg.VelocityWindowDays, cfg.ReorderHorizonDays)
	composer := services.NewComposer(catalog, inventory, aggregator, logger)
	selection := services.NewSelectionManager(inventory, sales, orders, aggregator, replenisher, logger)
	coordinator := services.NewOrderCoordinator(orders, catalog, events.NewMemoryStore(), logger)

	fmt.Println("Resolving low-stock products...")
	low := entities.StockLow
	views, err := composer.Resolve(ctx, services.Filter{Status: &low})
	if err != nil {
		fmt.Printf("resolve failed: %v\n", err)
		return
	}
	for _, view := range views {
		fmt.Printf("  %s: %d on hand (%s)\n",
			view.Product.Name, view.Stock.TotalQuantity, view.Stock.Status)
	}
	fmt.Println()

	// Select every low-stock product; hints carry the suggested quantity
	fmt.Println("Selecting products to reorder...")
	for _, view := range views {
		if _, err := selection.Toggle(ctx, view.Product.ID); err != nil {
			fmt.Printf("  hint load failed for %s: %v\n", view.Product.ID, err)
		}
		if hint, ok := selection.Hint(view.Product.ID); ok && hint.HasRecommendation {
			if hint.Recommendation.RecommendedQty > 0 {
				_ = selection.SetQuantity(view.Product.ID, hint.Recommendation.RecommendedQty)
			}
			fmt.Printf("  %s: avg %s/day, suggested %d\n",
				view.Product.ID,
				hint.Recommendation.AvgDailyUnits.StringFixed(2),
				hint.Recommendation.RecommendedQty)
		}
	}
	fmt.Println()

	created, err := coordinator.Submit(ctx, selection)
	if err != nil {
		fmt.Printf("submit failed: %v\n", err)
		return
	}
	fmt.Printf("Placed %d replenishment orders.\n\n", len(created))

	// The supplier fulfills; the store confirms receipt in one batch
	ids := make([]entities.OrderID, 0, len(created))
	for _, order := range created {
		_ = orders.MarkFulfilled(order.ID)
		ids = append(ids, order.ID)
	}
	result := coordinator.BatchConfirmReceipt(ctx, ids)
	fmt.Printf("Receipts confirmed: %d of %d\n\n", result.Confirmed, len(ids))

	rows, err := coordinator.ListOrders(ctx, services.OrderQuery{Sort: services.OrderSortDateDesc})
	if err != nil {
		fmt.Printf("list orders failed: %v\n", err)
		return
	}
	fmt.Println("Order history:")
	for _, row := range rows {
		fmt.Printf("  %s x%d -> %s\n", row.ProductName, row.Order.RequestedQty, row.Order.State)
	}
}

func setupCornerStore(catalog *memory.CatalogGateway, inventory *memory.InventoryStore, sales *memory.SalesHistory) {
	now := time.Now()

	addProduct := func(id entities.ProductID, name string, price int64, category entities.CategoryID, subcategory entities.SubcategoryID) {
		product, err := entities.NewProduct(id, name, decimal.NewFromInt(price), category, subcategory, now)
		if err != nil {
			panic(err)
		}
		catalog.AddProduct(*product)
	}
	addBatch := func(id entities.BatchID, productID entities.ProductID, qty entities.Quantity, daysToExpiry int) {
		batch, err := entities.NewBatch(id, productID, qty, now.AddDate(0, 0, daysToExpiry), now)
		if err != nil {
			panic(err)
		}
		inventory.AddBatch(*batch)
	}

	addProduct("P-1", "Cup Noodles", 1200, "Food", "Instant")
	addProduct("P-2", "Shin Ramyun", 900, "Food", "Noodles")
	addProduct("P-3", "Banana Milk", 1500, "Drinks", "Dairy")

	addBatch("B-1", "P-1", 2, 2)
	addBatch("B-2", "P-1", 2, 14)
	addBatch("B-3", "P-2", 9, 30)
	addBatch("B-4", "P-3", 1, 5)

	// A week of sales history per product
	daily := map[entities.ProductID][]int64{
		"P-1": {5, 4, 6, 5, 5, 3, 7},
		"P-2": {2, 1, 2, 2, 3, 1, 2},
		"P-3": {1, 0, 2, 1, 0, 1, 1},
	}
	for productID, units := range daily {
		for i, sold := range units {
			sales.AddSample(entities.SalesSample{
				ProductID: productID,
				Day:       now.AddDate(0, 0, -i),
				UnitsSold: entities.Quantity(sold),
			})
		}
	}
}
