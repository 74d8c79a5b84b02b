// Package memory provides in-memory implementations of the collaborator
// gateways, used by tests and the CLI session.
package memory

import (
	"context"

	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/domain/gateways"
)

// CatalogGateway provides in-memory catalog storage
type CatalogGateway struct {
	products []entities.Product
}

// NewCatalogGateway creates a new in-memory catalog gateway
func NewCatalogGateway() *CatalogGateway {
	return &CatalogGateway{}
}

// Verify interface compliance
var _ gateways.CatalogGateway = (*CatalogGateway)(nil)

// AddProduct adds a product to the catalog
func (g *CatalogGateway) AddProduct(product entities.Product) {
	g.products = append(g.products, product)
}

// LoadProducts loads products into the catalog
func (g *CatalogGateway) LoadProducts(products []*entities.Product) error {
	for _, product := range products {
		g.AddProduct(*product)
	}
	return nil
}

// ListProducts returns the full catalog
func (g *CatalogGateway) ListProducts(ctx context.Context) ([]*entities.Product, error) {
	return g.filter(func(entities.Product) bool { return true }), nil
}

// ListProductsByCategory returns products scoped to one category
func (g *CatalogGateway) ListProductsByCategory(
	ctx context.Context,
	category entities.CategoryID,
) ([]*entities.Product, error) {
	return g.filter(func(p entities.Product) bool {
		return p.Category == category
	}), nil
}

// ListProductsBySubcategory returns products scoped to a category and
// subcategory
func (g *CatalogGateway) ListProductsBySubcategory(
	ctx context.Context,
	category entities.CategoryID,
	subcategory entities.SubcategoryID,
) ([]*entities.Product, error) {
	return g.filter(func(p entities.Product) bool {
		return p.Category == category && p.Subcategory == subcategory
	}), nil
}

func (g *CatalogGateway) filter(keep func(entities.Product) bool) []*entities.Product {
	var out []*entities.Product
	for i := range g.products {
		if keep(g.products[i]) {
			product := g.products[i]
			out = append(out, &product)
		}
	}
	return out
}
