package services

import (
	"context"
	"sort"
	"time"

	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/domain/gateways"
)

// ExpiryUrgency buckets a near-expiration batch by how soon it expires.
type ExpiryUrgency int

const (
	// UrgencyImmediate marks batches expiring today or tomorrow.
	UrgencyImmediate ExpiryUrgency = iota
	// UrgencyNear marks batches expiring within three days.
	UrgencyNear
	// UrgencyWatch marks the remaining batches inside the horizon.
	UrgencyWatch
)

// String method for ExpiryUrgency enum
func (u ExpiryUrgency) String() string {
	switch u {
	case UrgencyImmediate:
		return "Immediate"
	case UrgencyNear:
		return "Near"
	case UrgencyWatch:
		return "Watch"
	default:
		return "Unknown"
	}
}

// ExpiringItem is one near-expiration batch joined with its product name.
type ExpiringItem struct {
	Batch       entities.Batch
	ProductName string
	DaysLeft    int
	Urgency     ExpiryUrgency
}

// ExpiryMonitor projects batches nearing their expiration date for the
// urgency list and for "reorder the expiring items" handoffs.
type ExpiryMonitor struct {
	inventory   gateways.InventoryStore
	catalog     gateways.CatalogGateway
	horizonDays int
	now         func() time.Time
}

// NewExpiryMonitor creates a monitor looking horizonDays ahead. A
// non-positive horizon falls back to 3 days.
func NewExpiryMonitor(
	inventory gateways.InventoryStore,
	catalog gateways.CatalogGateway,
	horizonDays int,
) *ExpiryMonitor {
	if horizonDays <= 0 {
		horizonDays = 3
	}
	return &ExpiryMonitor{
		inventory:   inventory,
		catalog:     catalog,
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

// SetClock overrides the wall clock, for tests
func (m *ExpiryMonitor) SetClock(now func() time.Time) {
	m.now = now
}

// ExpiringBatches returns the batches expiring within the horizon, soonest
// first with ties broken by batch id for a stable listing.
func (m *ExpiryMonitor) ExpiringBatches(ctx context.Context) ([]ExpiringItem, error) {
	batches, err := m.inventory.ListBatchesNearExpiration(ctx, m.horizonDays)
	if err != nil {
		return nil, &TransientError{Op: "list expiring batches", Err: err}
	}
	products, err := m.catalog.ListProducts(ctx)
	if err != nil {
		return nil, &TransientError{Op: "list products", Err: err}
	}

	names := make(map[entities.ProductID]string, len(products))
	for _, product := range products {
		names[product.ID] = product.Name
	}

	now := m.now()
	items := make([]ExpiringItem, 0, len(batches))
	for _, batch := range batches {
		daysLeft := batch.DaysUntilExpiration(now)
		items = append(items, ExpiringItem{
			Batch:       *batch,
			ProductName: names[batch.ProductID],
			DaysLeft:    daysLeft,
			Urgency:     urgencyFor(daysLeft),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DaysLeft != items[j].DaysLeft {
			return items[i].DaysLeft < items[j].DaysLeft
		}
		return items[i].Batch.ID < items[j].Batch.ID
	})
	return items, nil
}

// SelectionEntries converts an expiring-items listing into a selection
// handoff: one entry per distinct product at the default quantity, in
// listing order, ready for SelectionManager.BulkAdd.
func SelectionEntries(items []ExpiringItem) []entities.SelectionEntry {
	seen := make(map[entities.ProductID]struct{}, len(items))
	entries := make([]entities.SelectionEntry, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.Batch.ProductID]; dup {
			continue
		}
		seen[item.Batch.ProductID] = struct{}{}
		entries = append(entries, entities.SelectionEntry{
			ProductID: item.Batch.ProductID,
			Quantity:  1,
		})
	}
	return entries
}

func urgencyFor(daysLeft int) ExpiryUrgency {
	switch {
	case daysLeft <= 1:
		return UrgencyImmediate
	case daysLeft <= 3:
		return UrgencyNear
	default:
		return UrgencyWatch
	}
}
