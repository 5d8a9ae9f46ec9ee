package memory

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/product"
	"marketplace/internal/pkg/errs"
)

type ProductRepository struct {
	store *Store
	uow   *UnitOfWork
}

func (r *ProductRepository) Add(_ context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return r.uow.write(func(tx *txn) error {
		tx.products[p.ID()] = p
		return nil
	})
}

func (r *ProductRepository) Get(_ context.Context, id kernel.UUID) (*product.Product, error) {
	if p, ok := lookupProduct(r.store, r.uow, id); ok {
		return p, nil
	}
	return nil, errs.NewObjectNotFoundError("product", id.String())
}

func lookupProduct(store *Store, uow *UnitOfWork, id kernel.UUID) (*product.Product, bool) {
	if tx := uow.staged(); tx != nil {
		if p, ok := tx.products[id]; ok {
			return p, true
		}
	}
	store.mu.RLock()
	defer store.mu.RUnlock()
	p, ok := store.products[id]
	return p, ok
}
