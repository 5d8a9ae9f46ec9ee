package ledger

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrStockEntryIsNotConstructed is returned when a StockEntry bypassed its constructors.
var ErrStockEntryIsNotConstructed = errors.New("StockEntry must be created via NewStockEntry or RestoreStockEntry")

// StockKind tells why stock moved.
type StockKind int

const (
	UnknownStockKind StockKind = iota

	// Reserve takes stock off the shelf for an order being prepared (negative delta).
	Reserve

	// Release puts reserved stock back (positive delta).
	Release

	// Commit marks a reservation as sold for good (zero delta).
	Commit
)

func getStockKindStrings() map[StockKind]string {
	return map[StockKind]string{
		UnknownStockKind: "unknown",
		Reserve:          "reserve",
		Release:          "release",
		Commit:           "commit",
	}
}

func StockKindFromString(s string) (StockKind, error) {
	for kind, str := range getStockKindStrings() {
		if kind != UnknownStockKind && str == s {
			return kind, nil
		}
	}
	return UnknownStockKind, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a stock entry kind", s))
}

func (k StockKind) String() string {
	if str, ok := getStockKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

// StockEntry is one movement of a product's stock caused by an order.
type StockEntry struct {
	id        kernel.UUID
	productID kernel.UUID
	orderID   kernel.UUID
	delta     int
	kind      StockKind
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewStockEntry creates an entry with a fresh id. The sign of delta must match kind:
// reserve is negative, release is positive and commit is zero.
func NewStockEntry(productID, orderID kernel.UUID, delta int, kind StockKind, at time.Time) (StockEntry, error) {
	return RestoreStockEntry(kernel.NewUUID(), productID, orderID, delta, kind, at)
}

// RestoreStockEntry rebuilds a persisted entry.
func RestoreStockEntry(
	id, productID, orderID kernel.UUID,
	delta int,
	kind StockKind,
	at time.Time,
) (StockEntry, error) {
	entry := StockEntry{
		id:        id,
		productID: productID,
		orderID:   orderID,
		delta:     delta,
		kind:      kind,
		createdAt: at.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("id", id),
		requireID("productId", productID),
		requireID("orderId", orderID),
		validateDelta(kind, delta),
	); err != nil {
		return StockEntry{}, err
	}

	return entry, nil
}

func (e StockEntry) Validate() error {
	return e.guard.Validate(ErrStockEntryIsNotConstructed)
}

func (e StockEntry) ID() kernel.UUID {
	return e.id
}

func (e StockEntry) ProductID() kernel.UUID {
	return e.productID
}

func (e StockEntry) OrderID() kernel.UUID {
	return e.orderID
}

func (e StockEntry) Delta() int {
	return e.delta
}

func (e StockEntry) Kind() StockKind {
	return e.kind
}

func (e StockEntry) CreatedAt() time.Time {
	return e.createdAt
}

func validateDelta(kind StockKind, delta int) error {
	switch kind {
	case Reserve:
		if delta >= 0 {
			return errs.NewValueIsInvalidErrorWithCause("delta", fmt.Errorf("reserve delta %d is not negative", delta))
		}
	case Release:
		if delta <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("delta", fmt.Errorf("release delta %d is not positive", delta))
		}
	case Commit:
		if delta != 0 {
			return errs.NewValueIsInvalidErrorWithCause("delta", fmt.Errorf("commit delta %d is not zero", delta))
		}
	default:
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a stock entry kind", kind))
	}
	return nil
}

func requireID(param string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(param, err)
	}
	return nil
}
