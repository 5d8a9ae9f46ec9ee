package memory

import (
	"context"
	"errors"

	"marketplace/internal/core/ports"
)

// ErrNoTransaction is returned by Commit and Rollback without a preceding Begin.
var ErrNoTransaction = errors.New("no active transaction")

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages writes in a txn. Without Begin every write is committed immediately.
type UnitOfWork struct {
	store *Store
	tx    *txn
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	if uow.tx == nil {
		uow.tx = newTxn()
	}
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return ErrNoTransaction
	}
	tx := uow.tx
	uow.tx = nil
	return uow.store.apply(tx)
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return ErrNoTransaction
	}
	uow.tx = nil
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{store: uow.store, uow: uow}
}

func (uow *UnitOfWork) ProductRepository() ports.ProductRepository {
	return &ProductRepository{store: uow.store, uow: uow}
}

func (uow *UnitOfWork) PrincipalRepository() ports.PrincipalRepository {
	return &PrincipalRepository{store: uow.store, uow: uow}
}

func (uow *UnitOfWork) StockLedger() ports.StockLedger {
	return &StockLedger{store: uow.store, uow: uow}
}

func (uow *UnitOfWork) EarningsLedger() ports.EarningsLedger {
	return &EarningsLedger{store: uow.store, uow: uow}
}

func (uow *UnitOfWork) ReviewRegistry() ports.ReviewRegistry {
	return &ReviewRegistry{store: uow.store, uow: uow}
}

// write runs fn against the active txn, or against a one-off txn committed right away.
func (uow *UnitOfWork) write(fn func(tx *txn) error) error {
	if uow.tx != nil {
		return fn(uow.tx)
	}
	tx := newTxn()
	if err := fn(tx); err != nil {
		return err
	}
	return uow.store.apply(tx)
}

// staged returns the active txn or nil.
func (uow *UnitOfWork) staged() *txn {
	return uow.tx
}
