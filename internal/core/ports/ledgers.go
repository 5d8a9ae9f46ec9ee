package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
)

// StockLedger is the append-only record of stock movements. There is no way to change or
// remove an entry.
type StockLedger interface {
	// Available returns initial stock plus the sum of all deltas for the product. Adapters that
	// support it lock the product for the rest of the unit of work.
	Available(ctx context.Context, productID kernel.UUID) (int, error)

	Append(ctx context.Context, entries ...ledger.StockEntry) error

	EntriesForOrder(ctx context.Context, orderID kernel.UUID) ([]ledger.StockEntry, error)
}

// EarningsLedger is the append-only record of realized seller revenue.
type EarningsLedger interface {
	Append(ctx context.Context, entries ...ledger.EarningsEntry) error

	EntriesForOrder(ctx context.Context, orderID kernel.UUID) ([]ledger.EarningsEntry, error)
}

// ReviewRegistry records which customers may review which products.
type ReviewRegistry interface {
	// Grant makes the pairs eligible; granting an eligible pair again changes nothing.
	Grant(ctx context.Context, grants ...ledger.ReviewGrant) error

	IsEligible(ctx context.Context, customerID, productID kernel.UUID) (bool, error)
}
