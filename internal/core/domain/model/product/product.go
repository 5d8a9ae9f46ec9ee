// Package product holds the catalog facts the order lifecycle depends on: who sells a product,
// its current price and the stock it started with. Catalog browsing and editing are out of scope.
package product

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Product is a sellable item. Its available stock is derived from the stock ledger and is
// never stored here.
type Product struct {
	id           kernel.UUID
	sellerID     kernel.UUID
	unitPrice    kernel.Money
	initialStock int
	guard        guard.ConstructorGuard
}

func NewProduct(id, sellerID kernel.UUID, unitPrice kernel.Money, initialStock int) (*Product, error) {
	p := &Product{guard: guard.NewConstructorGuard()}

	var priceErr, stockErr error
	if err := unitPrice.Validate(); err != nil {
		priceErr = errs.NewValueIsRequiredErrorWithCause("unitPrice", err)
	}
	if initialStock < 0 {
		stockErr = errs.NewValueIsInvalidErrorWithCause("initialStock", fmt.Errorf("%d is negative", initialStock))
	}

	if err := errors.Join(
		p.setID(id),
		p.setSellerID(sellerID),
		priceErr,
		stockErr,
	); err != nil {
		return nil, err
	}

	p.unitPrice = unitPrice
	p.initialStock = initialStock
	return p, nil
}

func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

func (p *Product) ID() kernel.UUID {
	return p.id
}

func (p *Product) SellerID() kernel.UUID {
	return p.sellerID
}

func (p *Product) UnitPrice() kernel.Money {
	return p.unitPrice
}

func (p *Product) InitialStock() int {
	return p.initialStock
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	p.id = id
	return nil
}

func (p *Product) setSellerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sellerId", err)
	}
	p.sellerID = id
	return nil
}
