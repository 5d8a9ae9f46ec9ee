package memory

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
	"marketplace/internal/pkg/errs"
)

type StockLedger struct {
	store *Store
	uow   *UnitOfWork
}

// Available sums committed and staged deltas. Callers serialize per product with keylock;
// there is no row lock to take here.
func (l *StockLedger) Available(_ context.Context, productID kernel.UUID) (int, error) {
	p, ok := lookupProduct(l.store, l.uow, productID)
	if !ok {
		return 0, errs.NewObjectNotFoundError("product", productID.String())
	}

	available := p.InitialStock()
	l.store.mu.RLock()
	for _, entry := range l.store.stock {
		if entry.ProductID().IsEqual(productID) {
			available += entry.Delta()
		}
	}
	l.store.mu.RUnlock()

	if tx := l.uow.staged(); tx != nil {
		for _, entry := range tx.stock {
			if entry.ProductID().IsEqual(productID) {
				available += entry.Delta()
			}
		}
	}
	return available, nil
}

func (l *StockLedger) Append(_ context.Context, entries ...ledger.StockEntry) error {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
	}
	return l.uow.write(func(tx *txn) error {
		tx.stock = append(tx.stock, entries...)
		return nil
	})
}

func (l *StockLedger) EntriesForOrder(_ context.Context, orderID kernel.UUID) ([]ledger.StockEntry, error) {
	l.store.mu.RLock()
	all := append([]ledger.StockEntry(nil), l.store.stock...)
	l.store.mu.RUnlock()
	if tx := l.uow.staged(); tx != nil {
		all = append(all, tx.stock...)
	}

	entries := make([]ledger.StockEntry, 0)
	for _, entry := range all {
		if entry.OrderID().IsEqual(orderID) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type EarningsLedger struct {
	store *Store
	uow   *UnitOfWork
}

func (l *EarningsLedger) Append(_ context.Context, entries ...ledger.EarningsEntry) error {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
	}
	return l.uow.write(func(tx *txn) error {
		tx.earnings = append(tx.earnings, entries...)
		return nil
	})
}

func (l *EarningsLedger) EntriesForOrder(_ context.Context, orderID kernel.UUID) ([]ledger.EarningsEntry, error) {
	l.store.mu.RLock()
	all := append([]ledger.EarningsEntry(nil), l.store.earnings...)
	l.store.mu.RUnlock()
	if tx := l.uow.staged(); tx != nil {
		all = append(all, tx.earnings...)
	}

	entries := make([]ledger.EarningsEntry, 0)
	for _, entry := range all {
		if entry.OrderID().IsEqual(orderID) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type ReviewRegistry struct {
	store *Store
	uow   *UnitOfWork
}

func (r *ReviewRegistry) Grant(_ context.Context, grants ...ledger.ReviewGrant) error {
	return r.uow.write(func(tx *txn) error {
		tx.reviews = append(tx.reviews, grants...)
		return nil
	})
}

func (r *ReviewRegistry) IsEligible(_ context.Context, customerID, productID kernel.UUID) (bool, error) {
	key := reviewKey{customerID: customerID, productID: productID}

	r.store.mu.RLock()
	_, ok := r.store.reviews[key]
	r.store.mu.RUnlock()
	if ok {
		return true, nil
	}

	if tx := r.uow.staged(); tx != nil {
		for _, grant := range tx.reviews {
			if grant.CustomerID.IsEqual(customerID) && grant.ProductID.IsEqual(productID) {
				return true, nil
			}
		}
	}
	return false, nil
}
