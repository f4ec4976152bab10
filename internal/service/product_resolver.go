package service

import (
	"context"

	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/repository"
)

// ProductCatalogResolver resolves SKUs against the products collection.
// Wrap it in a CachedProductResolver to keep kit expansion off the database
// hot path.
type ProductCatalogResolver struct {
	repo repository.ProductsRepositoryInterface
}

// NewProductCatalogResolver creates a resolver over the products repository.
func NewProductCatalogResolver(repo repository.ProductsRepositoryInterface) *ProductCatalogResolver {
	return &ProductCatalogResolver{repo: repo}
}

// Resolve looks up the product for the given SKU.
func (r *ProductCatalogResolver) Resolve(ctx context.Context, sku string) (*model.Product, error) {
	if r.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return r.repo.GetBySKU(ctx, sku)
}
