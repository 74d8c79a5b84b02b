package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hkim/restock/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing CSV files",
		)
		productsFile = flag.String("products", "", "Path to products CSV file")
		batchesFile  = flag.String("batches", "", "Path to batches CSV file")
		salesFile    = flag.String("sales", "", "Path to sales CSV file")
		configFile   = flag.String("config", "", "Path to YAML config file")
		ordersDB     = flag.String("orders-db", "", "SQLite file for persistent order history")
		category     = flag.String("category", "", "Scope the product view to one category")
		subcategory  = flag.String("subcategory", "", "Scope the product view to one subcategory")
		status       = flag.String("status", "", "Filter by stock status: normal, low")
		search       = flag.String("search", "", "Case-insensitive product name search")
		sortOrder    = flag.String("sort", "", "Sort order: price-asc, price-desc, stock-asc, stock-desc")
		orderLow     = flag.Bool("order-low", false, "Place replenishment orders for low-stock products")
		confirmIDs   = flag.String("confirm", "", "Comma-separated order ids to confirm receipt of")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	config := commands.Config{
		ScenarioDir:  *scenarioDir,
		ProductsFile: *productsFile,
		BatchesFile:  *batchesFile,
		SalesFile:    *salesFile,
		ConfigFile:   *configFile,
		OrdersDB:     *ordersDB,
		Category:     *category,
		Subcategory:  *subcategory,
		Status:       *status,
		Search:       *search,
		Sort:         *sortOrder,
		OrderLow:     *orderLow,
		ConfirmIDs:   *confirmIDs,
		Verbose:      *verbose,
		Help:         *help,
	}

	// Create and execute command
	cmd := commands.NewWorkflowCommand(config)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
