// Package memory is an in-process implementation of every persistence port. Writes made inside
// a unit of work are staged and become visible to others only on Commit, where order versions
// are checked; Rollback drops them. It backs STORAGE=memory and the scenario tests.
package memory

import (
	"sync"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/product"
	"marketplace/internal/pkg/errs"
)

type orderRecord struct {
	snapshot order.Snapshot
	total    kernel.Money
}

type principalRecord struct {
	role   identity.Role
	locked bool
}

type reviewKey struct {
	customerID kernel.UUID
	productID  kernel.UUID
}

// Store holds the committed state.
type Store struct {
	mu         sync.RWMutex
	orders     map[kernel.UUID]orderRecord
	products   map[kernel.UUID]*product.Product
	principals map[kernel.UUID]principalRecord
	stock      []ledger.StockEntry
	earnings   []ledger.EarningsEntry
	reviews    map[reviewKey]ledger.ReviewGrant
}

func NewStore() *Store {
	return &Store{
		orders:     make(map[kernel.UUID]orderRecord),
		products:   make(map[kernel.UUID]*product.Product),
		principals: make(map[kernel.UUID]principalRecord),
		reviews:    make(map[reviewKey]ledger.ReviewGrant),
	}
}

// stagedOrder is an order write waiting for Commit.
type stagedOrder struct {
	record          orderRecord
	expectedVersion int64
	isNew           bool
}

// txn collects the writes of one unit of work.
type txn struct {
	orders     map[kernel.UUID]stagedOrder
	orderSeq   []kernel.UUID
	products   map[kernel.UUID]*product.Product
	principals map[kernel.UUID]principalRecord
	stock      []ledger.StockEntry
	earnings   []ledger.EarningsEntry
	reviews    []ledger.ReviewGrant
}

func newTxn() *txn {
	return &txn{
		orders:     make(map[kernel.UUID]stagedOrder),
		products:   make(map[kernel.UUID]*product.Product),
		principals: make(map[kernel.UUID]principalRecord),
	}
}

// apply checks every staged order version and then makes all writes visible at once.
func (s *Store) apply(t *txn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range t.orderSeq {
		staged := t.orders[id]
		current, exists := s.orders[id]
		switch {
		case staged.isNew && exists:
			return errs.NewConflictError("order", id.String(), 0)
		case !staged.isNew && !exists:
			return errs.NewObjectNotFoundError("order", id.String())
		case !staged.isNew && current.snapshot.Version != staged.expectedVersion:
			return errs.NewConflictError("order", id.String(), staged.expectedVersion)
		}
	}

	for _, id := range t.orderSeq {
		s.orders[id] = t.orders[id].record
	}
	for id, p := range t.products {
		s.products[id] = p
	}
	for id, p := range t.principals {
		s.principals[id] = p
	}
	s.stock = append(s.stock, t.stock...)
	s.earnings = append(s.earnings, t.earnings...)
	for _, grant := range t.reviews {
		key := reviewKey{customerID: grant.CustomerID, productID: grant.ProductID}
		if _, ok := s.reviews[key]; !ok {
			s.reviews[key] = grant
		}
	}
	return nil
}
