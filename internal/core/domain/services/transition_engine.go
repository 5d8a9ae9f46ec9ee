package services

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
	"marketplace/internal/core/domain/model/order"
)

// Outcome is the result of applying a transition to an order in memory.
type Outcome struct {
	From    order.Status
	To      order.Status
	Effects ledger.Effects

	// NoOp is set when the order already was in the requested status.
	NoOp bool
}

// TransitionEngine moves an order along its status graph and derives the ledger effects of the
// edge taken:
//
//	placed    -> preparing   reserve every line item (negative stock delta)
//	placed    -> cancelled   nothing, no stock is reserved yet
//	preparing -> in_transit  nothing beyond status, timestamp and tracking
//	preparing -> cancelled   release every line item
//	in_transit -> delivered  commit every line item, one earnings entry per line item,
//	                         one review grant per distinct product
//	in_transit -> returned   release every line item
//
// The engine does not check stock; reservations are checked against the ledger by the
// side-effect executor, which applies Effects or nothing.
type TransitionEngine struct{}

func NewTransitionEngine() TransitionEngine {
	return TransitionEngine{}
}

// Apply transitions o to the target status at the given time. Requesting the current status
// returns a NoOp outcome with no effects and leaves o untouched.
func (TransitionEngine) Apply(o *order.Order, to order.Status, at time.Time, tracking order.Tracking) (Outcome, error) {
	if err := o.Validate(); err != nil {
		return Outcome{}, err
	}

	from := o.Status()
	if to == from {
		return Outcome{From: from, To: to, NoOp: true}, nil
	}

	if err := o.TransitionTo(to, at, tracking); err != nil {
		return Outcome{}, err
	}

	effects, err := effectsOf(o, from, to, at)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{From: from, To: to, Effects: effects}, nil
}

func effectsOf(o *order.Order, from, to order.Status, at time.Time) (ledger.Effects, error) {
	switch {
	case from == order.Placed && to == order.Preparing:
		return stockEffects(o, ledger.Reserve, at)
	case to == order.Cancelled && from.HoldsReservation(),
		to == order.Returned:
		return stockEffects(o, ledger.Release, at)
	case to == order.Delivered:
		return deliveryEffects(o, at)
	default:
		return ledger.Effects{}, nil
	}
}

func stockEffects(o *order.Order, kind ledger.StockKind, at time.Time) (ledger.Effects, error) {
	var effects ledger.Effects
	for _, item := range o.Items() {
		entry, err := ledger.NewStockEntry(item.ProductID(), o.ID(), stockDelta(kind, item.Quantity()), kind, at)
		if err != nil {
			return ledger.Effects{}, err
		}
		effects.Stock = append(effects.Stock, entry)
	}
	return effects, nil
}

func deliveryEffects(o *order.Order, at time.Time) (ledger.Effects, error) {
	effects, err := stockEffects(o, ledger.Commit, at)
	if err != nil {
		return ledger.Effects{}, err
	}

	granted := make(map[kernel.UUID]struct{})
	for _, item := range o.Items() {
		earnings, err := ledger.NewEarningsEntry(item.SellerID(), o.ID(), item.ProductID(), item.Subtotal(), at)
		if err != nil {
			return ledger.Effects{}, err
		}
		effects.Earnings = append(effects.Earnings, earnings)

		if _, ok := granted[item.ProductID()]; ok {
			continue
		}
		granted[item.ProductID()] = struct{}{}

		grant, err := ledger.NewReviewGrant(o.CustomerID(), item.ProductID(), o.ID(), at)
		if err != nil {
			return ledger.Effects{}, err
		}
		effects.Reviews = append(effects.Reviews, grant)
	}
	return effects, nil
}

func stockDelta(kind ledger.StockKind, quantity int) int {
	switch kind {
	case ledger.Reserve:
		return -quantity
	case ledger.Release:
		return quantity
	default:
		return 0
	}
}
