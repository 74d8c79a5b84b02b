package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/domain/gateways"

	"golang.org/x/sync/errgroup"
)

// SortOption selects the ordering of a resolved product projection.
type SortOption int

const (
	SortNone SortOption = iota
	SortPriceAsc
	SortPriceDesc
	SortStockAsc
	SortStockDesc
)

// Filter is the compound product list filter: category scoping, stock
// status, free-text search and sort order.
type Filter struct {
	Category    entities.CategoryID
	Subcategory entities.SubcategoryID
	// Status restricts results to one stock status. Nil matches all.
	Status *entities.StockStatus
	// Search matches the product name case-insensitively.
	Search string
	Sort   SortOption
}

// Composer resolves a compound filter into a projected product+stock list.
// Category scoping is pushed to the catalog gateway; a narrower filter means
// a narrower collaborator call, never a client-side re-filter of a broader
// fetch. The last successfully resolved projection is retained so a failed
// refresh degrades to stale-but-intact data.
type Composer struct {
	catalog    gateways.CatalogGateway
	inventory  gateways.InventoryStore
	aggregator *Aggregator
	logger     *slog.Logger

	generation atomic.Uint64
	mu         sync.Mutex
	last       []entities.MergedProductView
}

// NewComposer creates a filter/query composer.
func NewComposer(
	catalog gateways.CatalogGateway,
	inventory gateways.InventoryStore,
	aggregator *Aggregator,
	logger *slog.Logger,
) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		catalog:    catalog,
		inventory:  inventory,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Resolve fetches the scoped catalog and current batches, joins them into
// merged views and applies the status, search and sort clauses. Each call
// supersedes any still in-flight resolution: a superseded call returns
// ErrStale with the last good projection and commits nothing, so a slow
// stale response can never overwrite a newer filter's result.
func (c *Composer) Resolve(ctx context.Context, filter Filter) ([]entities.MergedProductView, error) {
	generation := c.generation.Add(1)

	var (
		products []*entities.Product
		batches  []*entities.Batch
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		products, err = c.fetchScopedProducts(groupCtx, filter)
		return err
	})
	group.Go(func() error {
		var err error
		batches, err = c.inventory.ListBatches(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		c.logger.Warn("projection refresh failed", "error", err)
		return c.Last(), &TransientError{Op: "resolve product projection", Err: err}
	}

	if c.generation.Load() != generation {
		return c.Last(), ErrStale
	}

	views := c.aggregator.Merge(products, batches)
	views = filter.apply(views)
	filter.sortViews(views)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation.Load() != generation {
		return c.last, ErrStale
	}
	c.last = views
	return views, nil
}

// Last returns the most recent successfully resolved projection.
func (c *Composer) Last() []entities.MergedProductView {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]entities.MergedProductView, len(c.last))
	copy(out, c.last)
	return out
}

func (c *Composer) fetchScopedProducts(ctx context.Context, filter Filter) ([]*entities.Product, error) {
	switch {
	case filter.Category != "" && filter.Subcategory != "":
		return c.catalog.ListProductsBySubcategory(ctx, filter.Category, filter.Subcategory)
	case filter.Category != "":
		return c.catalog.ListProductsByCategory(ctx, filter.Category)
	default:
		return c.catalog.ListProducts(ctx)
	}
}

func (f Filter) apply(views []entities.MergedProductView) []entities.MergedProductView {
	out := views[:0]
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	for _, view := range views {
		if f.Status != nil && view.Stock.Status != *f.Status {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(view.Product.Name), needle) {
			continue
		}
		out = append(out, view)
	}
	return out
}

func (f Filter) sortViews(views []entities.MergedProductView) {
	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].Product.UnitPrice.LessThan(views[j].Product.UnitPrice)
		})
	case SortPriceDesc:
		sort.SliceStable(views, func(i, j int) bool {
			return views[j].Product.UnitPrice.LessThan(views[i].Product.UnitPrice)
		})
	case SortStockAsc:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].Stock.TotalQuantity < views[j].Stock.TotalQuantity
		})
	case SortStockDesc:
		sort.SliceStable(views, func(i, j int) bool {
			return views[j].Stock.TotalQuantity < views[i].Stock.TotalQuantity
		})
	}
}
