// Package commands contains the operations that change marketplace state.
// Every command follows the same pattern: validate, resolve the principal, authorize, then
// load and save aggregates inside a unit of work.
package commands

import (
	"context"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	PrincipalRepoFactory interface {
		PrincipalRepository() ports.PrincipalRepository
	}

	// LedgerFactory provides the append-only ledgers bound to the transaction.
	LedgerFactory interface {
		StockLedger() ports.StockLedger
		EarningsLedger() ports.EarningsLedger
		ReviewRegistry() ports.ReviewRegistry
	}

	// PlaceOrderUoW is used to build an order from catalog products.
	PlaceOrderUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
	}

	PlaceOrderUoWFactory interface {
		Create() PlaceOrderUoW
	}

	// TransitionUoW is used to move an order and apply its ledger effects.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, id)
	//   // ... authorize, transition, apply effects via uow.StockLedger() etc.
	//
	//   err = uow.Commit(ctx)
	TransitionUoW interface {
		TxManager
		OrderRepoFactory
		LedgerFactory
	}

	TransitionUoWFactory interface {
		Create() TransitionUoW
	}

	// ShipperUoW is used for shipper assignment, which needs the order and the shipper account.
	ShipperUoW interface {
		TxManager
		OrderRepoFactory
		PrincipalRepoFactory
	}

	ShipperUoWFactory interface {
		Create() ShipperUoW
	}

	// PrincipalUoW is used for account administration.
	PrincipalUoW interface {
		TxManager
		PrincipalRepoFactory
	}

	PrincipalUoWFactory interface {
		Create() PrincipalUoW
	}
)

// PrincipalResolver resolves the bearer token of a request.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string, action services.ActionName) (*identity.Principal, error)
}

// orderKey names the exclusive section held for the whole of a request on one order.
func orderKey(id kernel.UUID) string {
	return "order:" + id.String()
}
