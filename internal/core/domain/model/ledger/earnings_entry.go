package ledger

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrEarningsEntryIsNotConstructed is returned when an EarningsEntry bypassed its constructors.
var ErrEarningsEntryIsNotConstructed = errors.New("EarningsEntry must be created via NewEarningsEntry or RestoreEarningsEntry")

// EarningsEntry is the revenue a seller realized for one line item of a delivered order.
type EarningsEntry struct {
	id        kernel.UUID
	sellerID  kernel.UUID
	orderID   kernel.UUID
	productID kernel.UUID
	amount    kernel.Money
	createdAt time.Time
	guard     guard.ConstructorGuard
}

func NewEarningsEntry(sellerID, orderID, productID kernel.UUID, amount kernel.Money, at time.Time) (EarningsEntry, error) {
	return RestoreEarningsEntry(kernel.NewUUID(), sellerID, orderID, productID, amount, at)
}

func RestoreEarningsEntry(
	id, sellerID, orderID, productID kernel.UUID,
	amount kernel.Money,
	at time.Time,
) (EarningsEntry, error) {
	entry := EarningsEntry{
		id:        id,
		sellerID:  sellerID,
		orderID:   orderID,
		productID: productID,
		amount:    amount,
		createdAt: at.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	var amountErr error
	if err := amount.Validate(); err != nil {
		amountErr = errs.NewValueIsRequiredErrorWithCause("amount", err)
	}

	if err := errors.Join(
		requireID("id", id),
		requireID("sellerId", sellerID),
		requireID("orderId", orderID),
		requireID("productId", productID),
		amountErr,
	); err != nil {
		return EarningsEntry{}, err
	}

	return entry, nil
}

func (e EarningsEntry) Validate() error {
	return e.guard.Validate(ErrEarningsEntryIsNotConstructed)
}

func (e EarningsEntry) ID() kernel.UUID {
	return e.id
}

func (e EarningsEntry) SellerID() kernel.UUID {
	return e.sellerID
}

func (e EarningsEntry) OrderID() kernel.UUID {
	return e.orderID
}

func (e EarningsEntry) ProductID() kernel.UUID {
	return e.productID
}

func (e EarningsEntry) Amount() kernel.Money {
	return e.amount
}

func (e EarningsEntry) CreatedAt() time.Time {
	return e.createdAt
}
