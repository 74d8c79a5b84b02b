// Package gateways defines the contracts of the external collaborators the
// replenishment workflow depends on. All durable state lives behind these
// interfaces; the workflow itself is recomputed from their responses.
package gateways

import (
	"context"

	"github.com/hkim/restock/pkg/domain/entities"
)

// CatalogGateway resolves catalog products. Category scoping happens on the
// collaborator side; narrowing a filter means issuing a narrower call, not
// re-filtering a previously fetched broader set.
type CatalogGateway interface {
	ListProducts(ctx context.Context) ([]*entities.Product, error)
	ListProductsByCategory(
		ctx context.Context,
		category entities.CategoryID,
	) ([]*entities.Product, error)
	ListProductsBySubcategory(
		ctx context.Context,
		category entities.CategoryID,
		subcategory entities.SubcategoryID,
	) ([]*entities.Product, error)
}
