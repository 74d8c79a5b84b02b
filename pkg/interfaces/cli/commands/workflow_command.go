// Package commands wires the workflow services together for the CLI.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hkim/restock/pkg/application/services"
	"github.com/hkim/restock/pkg/config"
	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/domain/gateways"
	"github.com/hkim/restock/pkg/infrastructure/events"
	"github.com/hkim/restock/pkg/infrastructure/gateways/csvseed"
	"github.com/hkim/restock/pkg/infrastructure/gateways/memory"
	"github.com/hkim/restock/pkg/infrastructure/gateways/sqlite"
	"github.com/hkim/restock/pkg/interfaces/cli/output"
	"github.com/hkim/restock/pkg/obs"
)

// Config holds configuration for the workflow command
type Config struct {
	ScenarioDir  string
	ProductsFile string
	BatchesFile  string
	SalesFile    string
	ConfigFile   string
	OrdersDB     string

	Category    string
	Subcategory string
	Status      string
	Search      string
	Sort        string

	OrderLow   bool
	ConfirmIDs string
	Verbose    bool
	Help       bool
}

// WorkflowCommand runs one replenishment workflow session: compose the
// product view, report recommendations and expiring batches, optionally
// place orders for low-stock products and confirm receipts.
type WorkflowCommand struct {
	config Config
}

// NewWorkflowCommand creates a new workflow command with the given configuration
func NewWorkflowCommand(config Config) *WorkflowCommand {
	return &WorkflowCommand{config: config}
}

// Execute runs the workflow command
func (c *WorkflowCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if c.config.Verbose {
		level = slog.LevelDebug
	}
	logger := obs.NewLogger(level)

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	catalog, inventory, sales, err := loadSeedData(files)
	if err != nil {
		return err
	}

	orders, closeOrders, err := c.openOrderGateway()
	if err != nil {
		return err
	}
	defer closeOrders()

	// Assemble services
	aggregator := services.NewAggregator(cfg.LowStockThreshold)
	replenisher := services.NewReplenisher(cfg.VelocityWindowDays, cfg.ReorderHorizonDays)
	composer := services.NewComposer(catalog, inventory, aggregator, logger)
	selection := services.NewSelectionManager(inventory, sales, orders, aggregator, replenisher, logger)
	coordinator := services.NewOrderCoordinator(orders, catalog, events.NewMemoryStore(), logger)
	monitor := services.NewExpiryMonitor(inventory, catalog, cfg.ExpiringHorizonDays)

	filter, err := c.buildFilter()
	if err != nil {
		return err
	}

	views, err := composer.Resolve(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to resolve product view: %w", err)
	}
	output.PrintProjection(views, time.Now())

	recs, err := recommendations(ctx, views, sales, replenisher)
	if err != nil {
		return err
	}
	output.PrintRecommendations(recs)

	expiring, err := monitor.ExpiringBatches(ctx)
	if err != nil {
		return fmt.Errorf("failed to list expiring batches: %w", err)
	}
	output.PrintExpiring(expiring)

	if c.config.OrderLow {
		if err := orderLowStock(ctx, views, recs, selection, coordinator); err != nil {
			return err
		}
	}

	if ids := c.confirmIDs(); len(ids) > 0 {
		result := coordinator.BatchConfirmReceipt(ctx, ids)
		output.PrintBatchResult(result)
	}

	rows, err := coordinator.ListOrders(ctx, services.OrderQuery{Sort: services.OrderSortDateDesc})
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}
	output.PrintOrders(rows)

	return nil
}

// recommendations computes a reorder recommendation for each projected
// product that has one, skipping products with nothing to suggest.
func recommendations(
	ctx context.Context,
	views []entities.MergedProductView,
	sales gateways.SalesHistory,
	replenisher *services.Replenisher,
) ([]entities.Recommendation, error) {
	var recs []entities.Recommendation
	for _, view := range views {
		samples, err := sales.WeeklySamples(ctx, view.Product.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load sales for %s: %w", view.Product.ID, err)
		}
		rec := replenisher.Recommend(view.Product.ID, samples, view.Stock.TotalQuantity)
		if rec.RecommendedQty > 0 {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

// orderLowStock selects every low-stock product at its recommended quantity
// and submits the selection as replenishment orders.
func orderLowStock(
	ctx context.Context,
	views []entities.MergedProductView,
	recs []entities.Recommendation,
	selection *services.SelectionManager,
	coordinator *services.OrderCoordinator,
) error {
	suggested := make(map[entities.ProductID]entities.Quantity, len(recs))
	for _, rec := range recs {
		suggested[rec.ProductID] = rec.RecommendedQty
	}

	var entries []entities.SelectionEntry
	for _, view := range views {
		if view.Stock.Status != entities.StockLow {
			continue
		}
		qty := suggested[view.Product.ID]
		if qty < 1 {
			qty = 1
		}
		entries = append(entries, entities.SelectionEntry{ProductID: view.Product.ID, Quantity: qty})
	}
	if len(entries) == 0 {
		fmt.Println("No low-stock products to order.")
		return nil
	}
	if err := selection.BulkAdd(entries); err != nil {
		return fmt.Errorf("failed to build selection: %w", err)
	}

	created, err := coordinator.Submit(ctx, selection)
	if err != nil {
		return fmt.Errorf("failed to submit selection: %w", err)
	}
	fmt.Printf("Placed %d replenishment orders.\n\n", len(created))
	return nil
}

func loadSeedData(files map[string]string) (*memory.CatalogGateway, *memory.InventoryStore, *memory.SalesHistory, error) {
	loader := csvseed.NewLoader()

	products, err := loader.LoadProducts(files["Products"])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading products: %w", err)
	}
	batches, err := loader.LoadBatches(files["Batches"])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading batches: %w", err)
	}
	samples, err := loader.LoadSamples(files["Sales"])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading sales: %w", err)
	}

	catalog := memory.NewCatalogGateway()
	if err := catalog.LoadProducts(products); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load products into catalog: %w", err)
	}
	inventory := memory.NewInventoryStore()
	if err := inventory.LoadBatches(batches); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load batches into inventory: %w", err)
	}
	sales := memory.NewSalesHistory()
	for i := range samples {
		sales.AddSample(samples[i])
	}

	return catalog, inventory, sales, nil
}

// openOrderGateway returns the configured order gateway. With -orders-db the
// history persists in SQLite; otherwise it lives in memory for the session.
func (c *WorkflowCommand) openOrderGateway() (gateways.OrderGateway, func(), error) {
	if c.config.OrdersDB == "" {
		return memory.NewOrderGateway(), func() {}, nil
	}
	gateway, err := sqlite.NewOrderGateway(c.config.OrdersDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open orders database: %w", err)
	}
	return gateway, func() { _ = gateway.Close() }, nil
}

func (c *WorkflowCommand) loadConfig() (config.Config, error) {
	if c.config.ConfigFile == "" {
		return config.Default(), nil
	}
	return config.Load(c.config.ConfigFile)
}

func (c *WorkflowCommand) buildFilter() (services.Filter, error) {
	filter := services.Filter{
		Category:    entities.CategoryID(c.config.Category),
		Subcategory: entities.SubcategoryID(c.config.Subcategory),
		Search:      c.config.Search,
	}

	switch strings.ToLower(c.config.Status) {
	case "":
	case "normal":
		status := entities.StockNormal
		filter.Status = &status
	case "low":
		status := entities.StockLow
		filter.Status = &status
	default:
		return filter, fmt.Errorf("invalid status: %s (expected: normal or low)", c.config.Status)
	}

	switch strings.ToLower(c.config.Sort) {
	case "", "none":
		filter.Sort = services.SortNone
	case "price-asc":
		filter.Sort = services.SortPriceAsc
	case "price-desc":
		filter.Sort = services.SortPriceDesc
	case "stock-asc":
		filter.Sort = services.SortStockAsc
	case "stock-desc":
		filter.Sort = services.SortStockDesc
	default:
		return filter, fmt.Errorf("invalid sort: %s (expected: price-asc, price-desc, stock-asc, stock-desc)", c.config.Sort)
	}

	return filter, nil
}

func (c *WorkflowCommand) confirmIDs() []entities.OrderID {
	if c.config.ConfirmIDs == "" {
		return nil
	}
	var ids []entities.OrderID
	for _, raw := range strings.Split(c.config.ConfirmIDs, ",") {
		if id := strings.TrimSpace(raw); id != "" {
			ids = append(ids, entities.OrderID(id))
		}
	}
	return ids
}

// validateInputs validates the command configuration
func (c *WorkflowCommand) validateInputs() error {
	if c.config.ScenarioDir == "" &&
		(c.config.ProductsFile == "" || c.config.BatchesFile == "" || c.config.SalesFile == "") {
		return fmt.Errorf("must specify either -scenario directory or individual CSV files")
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use
func (c *WorkflowCommand) resolveInputFiles() (map[string]string, error) {
	var productsPath, batchesPath, salesPath string

	if c.config.ScenarioDir != "" {
		productsPath = filepath.Join(c.config.ScenarioDir, "products.csv")
		batchesPath = filepath.Join(c.config.ScenarioDir, "batches.csv")
		salesPath = filepath.Join(c.config.ScenarioDir, "sales.csv")
	} else {
		productsPath = c.config.ProductsFile
		batchesPath = c.config.BatchesFile
		salesPath = c.config.SalesFile
	}

	files := map[string]string{
		"Products": productsPath,
		"Batches":  batchesPath,
		"Sales":    salesPath,
	}

	for name, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return files, nil
}

// showHelp displays the help message
func (c *WorkflowCommand) showHelp() {
	fmt.Printf(`restock - Inventory Aggregation & Replenishment Workflow

USAGE:
    restock -scenario <directory>               # Use scenario directory with CSV files
    restock -products <file> -batches <file> -sales <file>

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -products <file>    Path to products CSV file
    -batches <file>     Path to batches CSV file
    -sales <file>       Path to sales CSV file
    -config <file>      Path to YAML config overriding thresholds and horizons
    -orders-db <file>   SQLite file for persistent order history (default: in-memory)
    -category <id>      Scope the product view to one category
    -subcategory <id>   Scope the product view to one subcategory (requires -category)
    -status <s>         Filter by stock status: normal, low
    -search <text>      Case-insensitive product name search
    -sort <s>           Sort order: price-asc, price-desc, stock-asc, stock-desc
    -order-low          Place replenishment orders for every low-stock product
    -confirm <ids>      Comma-separated order ids to confirm receipt of
    -verbose            Enable verbose logging
    -help               Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── products.csv    # Catalog products
    ├── batches.csv     # Stock batches with expiration dates
    └── sales.csv       # Daily sales samples

CSV FILE FORMATS:

products.csv:
    product_id,name,unit_price,category,subcategory,discount_rate,discount_ends_at
    P-1,Cup Noodles,1200,Food,Instant,,
    P-2,Banana Milk,1500,Drinks,Dairy,0.2,2025-04-10

batches.csv:
    batch_id,product_id,quantity,expiration_date,last_updated
    B-1,P-1,4,2025-04-05,2025-04-01

sales.csv:
    product_id,day,units_sold
    P-1,2025-04-01,5

EXAMPLES:
    # Full catalog view with recommendations
    restock -scenario examples/corner_store

    # Low-stock drinks, cheapest first
    restock -scenario examples/corner_store -category Drinks -status low -sort price-asc

    # Place orders for low-stock products against a persistent history
    restock -scenario examples/corner_store -orders-db orders.db -order-low

    # Confirm receipt of delivered orders
    restock -scenario examples/corner_store -orders-db orders.db -confirm ORD-1,ORD-2
`)
}
