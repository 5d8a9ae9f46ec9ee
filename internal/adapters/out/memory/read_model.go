package memory

import (
	"context"
	"sort"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

// LedgerReader answers the read-model questions over committed state only.
type LedgerReader struct {
	store *Store
}

func NewLedgerReader(store *Store) *LedgerReader {
	return &LedgerReader{store: store}
}

func (r *LedgerReader) SellerEarnings(_ context.Context, sellerID kernel.UUID) (ports.SellerEarnings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	summary := ports.SellerEarnings{SellerID: sellerID, Total: kernel.ZeroMoney()}
	for _, entry := range r.store.earnings {
		if entry.SellerID().IsEqual(sellerID) {
			summary.Total = summary.Total.Add(entry.Amount())
			summary.Entries++
		}
	}
	return summary, nil
}

func (r *LedgerReader) NegativeStockBalances(_ context.Context) ([]ports.StockBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	deltas := make(map[kernel.UUID]int)
	for _, entry := range r.store.stock {
		deltas[entry.ProductID()] += entry.Delta()
	}

	balances := make([]ports.StockBalance, 0)
	for id, p := range r.store.products {
		available := p.InitialStock() + deltas[id]
		if available < 0 {
			balances = append(balances, ports.StockBalance{ProductID: id, Initial: p.InitialStock(), Available: available})
		}
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].ProductID.String() < balances[j].ProductID.String()
	})
	return balances, nil
}

func (r *LedgerReader) OrderTotalMismatches(_ context.Context) ([]ports.TotalMismatch, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	mismatches := make([]ports.TotalMismatch, 0)
	for id, record := range r.store.orders {
		derived := kernel.ZeroMoney()
		for _, item := range record.snapshot.Items {
			derived = derived.Add(item.Subtotal())
		}
		if !derived.IsEqual(record.total) {
			mismatches = append(mismatches, ports.TotalMismatch{OrderID: id, Stored: record.total, Derived: derived})
		}
	}
	sort.Slice(mismatches, func(i, j int) bool {
		return mismatches[i].OrderID.String() < mismatches[j].OrderID.String()
	})
	return mismatches, nil
}
