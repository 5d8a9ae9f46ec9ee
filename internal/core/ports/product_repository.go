package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/product"
)

// ProductRepository exposes the catalog facts orders are built from.
type ProductRepository interface {
	Add(ctx context.Context, p *product.Product) error

	// Get fails with errs.ObjectNotFoundError for unknown products.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)
}
