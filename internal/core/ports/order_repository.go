// Package ports defines the contracts between the order lifecycle core and its infrastructure:
// repositories, append-only ledgers, identity lookup, event publication and read models.
// Every repository and ledger is bound to the UnitOfWork that created it.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order at version 1.
	Add(ctx context.Context, aggregate *order.Order) error

	// Save persists a changed order if the stored version still equals expectedVersion and
	// advances the aggregate to the next version. A stale write fails with errs.ConflictError.
	Save(ctx context.Context, aggregate *order.Order, expectedVersion int64) error

	// Get retrieves an order with its line items. Unknown ids fail with errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetOldestUnassignedPreparing returns the preparing order without a shipper that entered
	// preparing first, or errs.ObjectNotFoundError.
	GetOldestUnassignedPreparing(ctx context.Context) (*order.Order, error)

	// CountInTransitByShipper returns the number of in_transit orders per assigned shipper.
	CountInTransitByShipper(ctx context.Context) (map[kernel.UUID]int, error)
}
