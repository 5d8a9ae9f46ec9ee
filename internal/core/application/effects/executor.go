// Package effects applies the ledger effects of an order transition as a unit.
//
// The Executor is the only writer of stock movements, earnings and review grants. It enters the
// exclusive sections of every product and seller involved, checks all reservations against the
// derived stock, appends the records and then runs the caller's finalizer (save the order and
// commit) before leaving the sections. Any failure aborts the whole application: nothing is
// appended before every check has passed, and whatever the unit of work already holds is
// discarded by its rollback.
package effects

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/keylock"
)

// Ledgers are the append-only stores bound to the caller's unit of work.
type Ledgers interface {
	StockLedger() ports.StockLedger
	EarningsLedger() ports.EarningsLedger
	ReviewRegistry() ports.ReviewRegistry
}

// Finalizer completes the transaction while the executor still holds the sections.
type Finalizer func(ctx context.Context) error

type Executor struct {
	locks  *keylock.Locker
	logger *slog.Logger
}

func NewExecutor(locks *keylock.Locker, logger *slog.Logger) *Executor {
	return &Executor{
		locks:  locks,
		logger: logger.With("component", "effects-executor"),
	}
}

// Apply applies effects for orderID and then runs finalize.
//
// It returns nil once finalize succeeded. If ctx is done before the sections are entered the
// context error is returned as is; every other failure is an *errs.AbortedError wrapping the
// reason (errs.BusyError, errs.InsufficientStockError, errs.ConflictError, errs.StorageError).
// After the sections are entered the work runs to completion even if ctx is cancelled.
func (e *Executor) Apply(
	ctx context.Context,
	ledgers Ledgers,
	orderID kernel.UUID,
	effects ledger.Effects,
	finalize Finalizer,
) error {
	release, err := e.locks.AcquireAll(ctx, effects.LockKeys())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return e.abort(ctx, orderID, err)
	}
	defer release()

	ctx = context.WithoutCancel(ctx)

	if err = e.checkReservations(ctx, ledgers.StockLedger(), effects); err != nil {
		return e.abort(ctx, orderID, err)
	}

	if err = e.append(ctx, ledgers, effects); err != nil {
		return e.abort(ctx, orderID, err)
	}

	if finalize != nil {
		if err = finalize(ctx); err != nil {
			return e.abort(ctx, orderID, err)
		}
	}

	return nil
}

func (e *Executor) checkReservations(ctx context.Context, stock ports.StockLedger, effects ledger.Effects) error {
	reservations := effects.Reservations()

	products := make([]kernel.UUID, 0, len(reservations))
	for productID := range reservations {
		products = append(products, productID)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].String() < products[j].String()
	})

	for _, productID := range products {
		available, err := stock.Available(ctx, productID)
		if err != nil {
			return err
		}
		if requested := reservations[productID]; requested > available {
			return errs.NewInsufficientStockError(productID.String(), requested, available)
		}
	}
	return nil
}

func (e *Executor) append(ctx context.Context, ledgers Ledgers, effects ledger.Effects) error {
	if len(effects.Stock) > 0 {
		if err := ledgers.StockLedger().Append(ctx, effects.Stock...); err != nil {
			return err
		}
	}
	if len(effects.Earnings) > 0 {
		if err := ledgers.EarningsLedger().Append(ctx, effects.Earnings...); err != nil {
			return err
		}
	}
	if len(effects.Reviews) > 0 {
		if err := ledgers.ReviewRegistry().Grant(ctx, effects.Reviews...); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) abort(ctx context.Context, orderID kernel.UUID, reason error) error {
	e.logger.WarnContext(ctx, "side effects aborted",
		"orderId", orderID.String(),
		"reason", reason.Error(),
	)
	return errs.NewAbortedError(orderID.String(), reason)
}
