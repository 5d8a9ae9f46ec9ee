package ledger

import (
	"sort"

	"marketplace/internal/core/domain/model/kernel"
)

// Effects are the ledger records produced by a single order transition.
type Effects struct {
	Stock    []StockEntry
	Earnings []EarningsEntry
	Reviews  []ReviewGrant
}

func (e Effects) IsEmpty() bool {
	return len(e.Stock) == 0 && len(e.Earnings) == 0 && len(e.Reviews) == 0
}

// Reservations sums the requested quantity per product over the reserve entries.
func (e Effects) Reservations() map[kernel.UUID]int {
	requested := make(map[kernel.UUID]int)
	for _, entry := range e.Stock {
		if entry.Kind() == Reserve {
			requested[entry.ProductID()] -= entry.Delta()
		}
	}
	return requested
}

// LockKeys returns the sorted, deduplicated keys of every product and seller touched.
// Products are prefixed "product:" and sellers "seller:".
func (e Effects) LockKeys() []string {
	seen := make(map[string]struct{})
	for _, entry := range e.Stock {
		seen["product:"+entry.ProductID().String()] = struct{}{}
	}
	for _, entry := range e.Earnings {
		seen["seller:"+entry.SellerID().String()] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
