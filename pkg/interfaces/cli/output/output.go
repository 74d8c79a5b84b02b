// Package output renders workflow projections as text tables on stdout.
package output

import (
	"fmt"
	"time"

	"github.com/hkim/restock/pkg/application/services"
	"github.com/hkim/restock/pkg/domain/entities"
)

// PrintProjection prints the merged product+stock projection
func PrintProjection(views []entities.MergedProductView, now time.Time) {
	fmt.Printf("Products: %d\n\n", len(views))
	if len(views) == 0 {
		return
	}

	fmt.Printf("%-10s %-24s %-12s %-8s %-8s %-10s\n",
		"Product", "Name", "Price", "Stock", "Status", "Category")
	fmt.Printf("%-10s %-24s %-12s %-8s %-8s %-10s\n",
		"----------", "------------------------", "------------", "--------", "--------", "----------")

	for _, view := range views {
		fmt.Printf("%-10s %-24s %-12s %-8d %-8s %-10s\n",
			view.Product.ID,
			view.Product.Name,
			view.Product.EffectivePrice(now).StringFixed(0),
			view.Stock.TotalQuantity,
			view.Stock.Status,
			view.Product.Category)
	}
	fmt.Println()
}

// PrintRecommendations prints reorder recommendations
func PrintRecommendations(recs []entities.Recommendation) {
	if len(recs) == 0 {
		return
	}

	fmt.Printf("Reorder Recommendations:\n")
	fmt.Printf("%-10s %-12s %-12s %-12s\n",
		"Product", "Avg/Day", "Days Left", "Suggested")
	fmt.Printf("%-10s %-12s %-12s %-12s\n",
		"----------", "------------", "------------", "------------")

	for _, rec := range recs {
		daysLeft := fmt.Sprintf("%d", rec.DaysRemaining)
		if rec.DaysRemaining == entities.UnboundedDays {
			daysLeft = "-"
		}
		fmt.Printf("%-10s %-12s %-12s %-12d\n",
			rec.ProductID,
			rec.AvgDailyUnits.StringFixed(2),
			daysLeft,
			rec.RecommendedQty)
	}
	fmt.Println()
}

// PrintExpiring prints the near-expiration batch listing
func PrintExpiring(items []services.ExpiringItem) {
	if len(items) == 0 {
		return
	}

	fmt.Printf("Expiring Batches:\n")
	fmt.Printf("%-10s %-24s %-8s %-10s %-10s\n",
		"Batch", "Name", "Qty", "Days Left", "Urgency")
	fmt.Printf("%-10s %-24s %-8s %-10s %-10s\n",
		"----------", "------------------------", "--------", "----------", "----------")

	for _, item := range items {
		fmt.Printf("%-10s %-24s %-8d %-10d %-10s\n",
			item.Batch.ID,
			item.ProductName,
			item.Batch.Quantity,
			item.DaysLeft,
			item.Urgency)
	}
	fmt.Println()
}

// PrintOrders prints the order history listing
func PrintOrders(rows []services.OrderRow) {
	fmt.Printf("Orders: %d\n", len(rows))
	if len(rows) == 0 {
		fmt.Println()
		return
	}

	fmt.Printf("%-38s %-24s %-8s %-12s %-10s\n",
		"Order", "Name", "Qty", "Scheduled", "State")
	fmt.Printf("%-38s %-24s %-8s %-12s %-10s\n",
		"--------------------------------------", "------------------------", "--------", "------------", "----------")

	for _, row := range rows {
		fmt.Printf("%-38s %-24s %-8d %-12s %-10s\n",
			row.Order.ID,
			row.ProductName,
			row.Order.RequestedQty,
			row.Order.ScheduledAt.Format("2006-01-02"),
			row.Order.State)
	}
	fmt.Println()
}

// PrintBatchResult prints the outcome of a batch receipt confirmation
func PrintBatchResult(result services.BatchConfirmResult) {
	fmt.Printf("Confirmed: %d, Failed: %d\n", result.Confirmed, len(result.Failures))
	for _, failure := range result.Failures {
		fmt.Printf("  failed   %s: %v\n", failure.OrderID, failure.Err)
	}
	fmt.Println()
}
