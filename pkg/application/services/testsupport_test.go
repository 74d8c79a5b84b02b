package services

import (
	"context"
	"testing"
	"time"

	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/domain/gateways"
	"github.com/hkim/restock/pkg/infrastructure/gateways/memory"
)

// failingCatalog fails every call with the given error.
type failingCatalog struct{ err error }

func (c *failingCatalog) ListProducts(context.Context) ([]*entities.Product, error) {
	return nil, c.err
}

func (c *failingCatalog) ListProductsByCategory(context.Context, entities.CategoryID) ([]*entities.Product, error) {
	return nil, c.err
}

func (c *failingCatalog) ListProductsBySubcategory(context.Context, entities.CategoryID, entities.SubcategoryID) ([]*entities.Product, error) {
	return nil, c.err
}

// failingInventory fails every call with the given error.
type failingInventory struct{ err error }

func (s *failingInventory) ListBatches(context.Context) ([]*entities.Batch, error) {
	return nil, s.err
}

func (s *failingInventory) ListBatchesByProduct(context.Context, entities.ProductID) ([]*entities.Batch, error) {
	return nil, s.err
}

func (s *failingInventory) ListBatchesNearExpiration(context.Context, int) ([]*entities.Batch, error) {
	return nil, s.err
}

// failingSales fails every call with the given error.
type failingSales struct{ err error }

func (h *failingSales) WeeklySamples(context.Context, entities.ProductID) ([]*entities.SalesSample, error) {
	return nil, h.err
}

// recordingCatalog counts which scoped catalog call was issued and can run a
// hook before delegating, to simulate a filter change racing a slow fetch.
type recordingCatalog struct {
	inner         gateways.CatalogGateway
	listCalls     int
	categoryCalls int
	subCalls      int
	onList        func()
}

func (c *recordingCatalog) ListProducts(ctx context.Context) ([]*entities.Product, error) {
	c.listCalls++
	if c.onList != nil {
		hook := c.onList
		c.onList = nil
		hook()
	}
	return c.inner.ListProducts(ctx)
}

func (c *recordingCatalog) ListProductsByCategory(ctx context.Context, category entities.CategoryID) ([]*entities.Product, error) {
	c.categoryCalls++
	return c.inner.ListProductsByCategory(ctx, category)
}

func (c *recordingCatalog) ListProductsBySubcategory(ctx context.Context, category entities.CategoryID, subcategory entities.SubcategoryID) ([]*entities.Product, error) {
	c.subCalls++
	return c.inner.ListProductsBySubcategory(ctx, category, subcategory)
}

// recordingOrders delegates to an inner gateway while recording the sequence
// of receipt confirmations, and can be made to fail create calls after a
// given count.
type recordingOrders struct {
	inner        gateways.OrderGateway
	confirmed    []entities.OrderID
	createCalls  int
	failCreateAt int // 0 = never fail
	createErr    error
}

func (g *recordingOrders) CreateOrder(ctx context.Context, productID entities.ProductID, qty entities.Quantity) (*entities.Order, error) {
	g.createCalls++
	if g.failCreateAt > 0 && g.createCalls >= g.failCreateAt {
		return nil, g.createErr
	}
	return g.inner.CreateOrder(ctx, productID, qty)
}

func (g *recordingOrders) ListOrders(ctx context.Context) ([]*entities.Order, error) {
	return g.inner.ListOrders(ctx)
}

func (g *recordingOrders) LatestOrder(ctx context.Context, productID entities.ProductID) (*entities.Order, error) {
	return g.inner.LatestOrder(ctx, productID)
}

func (g *recordingOrders) ConfirmReceipt(ctx context.Context, orderID entities.OrderID) (*entities.Order, error) {
	g.confirmed = append(g.confirmed, orderID)
	return g.inner.ConfirmReceipt(ctx, orderID)
}

func seedProduct(t *testing.T, catalog *memory.CatalogGateway, id entities.ProductID, name string, price int64, category entities.CategoryID, subcategory entities.SubcategoryID) {
	t.Helper()
	product := testProduct(t, id, name, price)
	product.Category = category
	product.Subcategory = subcategory
	catalog.AddProduct(*product)
}

func seedOrder(t *testing.T, orders *memory.OrderGateway, id entities.OrderID, productID entities.ProductID, qty entities.Quantity, at time.Time, state entities.OrderState) {
	t.Helper()
	order, err := entities.NewOrder(id, productID, qty, at)
	if err != nil {
		t.Fatalf("NewOrder failed: %v", err)
	}
	order.State = state
	if err := orders.LoadOrders([]*entities.Order{order}); err != nil {
		t.Fatalf("LoadOrders failed: %v", err)
	}
}
