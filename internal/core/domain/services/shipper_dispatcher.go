package services

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/order"
)

// ErrShipperNotFound is returned when no active shipper can take the order.
var ErrShipperNotFound = errors.New("shipper not found")

// ShipperLoad is a shipper together with the number of orders it currently has in transit.
type ShipperLoad struct {
	Shipper   *identity.Principal
	InTransit int
}

// ShipperDispatcher picks a shipper for an order the seller is preparing.
//
// Selection rules:
//   - only unlocked principals with role shipper are considered
//   - the shipper with the fewest orders in transit wins
//   - ties go to the first candidate in the given order
//
// Example usage:
//
//	dispatcher := services.NewShipperDispatcher()
//	shipper, err := dispatcher.Dispatch(o, loads, time.Now())
//	if errors.Is(err, services.ErrShipperNotFound) {
//	    // try again on the next tick
//	}
type ShipperDispatcher struct{}

func NewShipperDispatcher() ShipperDispatcher {
	return ShipperDispatcher{}
}

// Dispatch assigns the best candidate to o and returns it.
func (d ShipperDispatcher) Dispatch(o *order.Order, candidates []ShipperLoad, at time.Time) (*identity.Principal, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	best, err := d.findBestShipper(candidates)
	if err != nil {
		return nil, err
	}

	if err = o.AssignShipper(best.ID(), at); err != nil {
		return nil, err
	}

	return best, nil
}

func (d ShipperDispatcher) findBestShipper(candidates []ShipperLoad) (*identity.Principal, error) {
	var (
		best     *identity.Principal
		bestLoad int
	)

	for _, c := range candidates {
		if err := c.Shipper.Validate(); err != nil {
			return nil, err
		}
		if !c.Shipper.Is(identity.Shipper) || c.Shipper.IsLocked() {
			continue
		}
		if best == nil || c.InTransit < bestLoad {
			best = c.Shipper
			bestLoad = c.InTransit
		}
	}

	if best == nil {
		return nil, ErrShipperNotFound
	}
	return best, nil
}
