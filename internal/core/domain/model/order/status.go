package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Placed is the unique initial status: paid, waiting for the seller.
	Placed

	// Preparing means the seller confirmed and stock is reserved.
	Preparing

	// InTransit means the assigned shipper picked the order up.
	InTransit

	// Delivered is terminal; reserved stock is committed and earnings are realized.
	Delivered

	// Returned is terminal; reserved stock went back on the shelf.
	Returned

	// Cancelled is terminal; any reservation was released.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Placed:    "placed",
		Preparing: "preparing",
		InTransit: "in_transit",
		Delivered: "delivered",
		Returned:  "returned",
		Cancelled: "cancelled",
	}
}

// getTransitions lists the outgoing edges of every non-terminal status.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal statuses have no outgoing edges
	return map[Status][]Status{
		Placed:    {Preparing, Cancelled},
		Preparing: {InTransit, Cancelled},
		InTransit: {Delivered, Returned},
	}
}

// StatusFromString parses the persisted and wire form ("in_transit", ...).
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects Unknown and values outside the enum.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether the status has no outgoing edges.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Returned || s == Cancelled
}

// Targets returns the statuses directly reachable from s.
func (s Status) Targets() []Status {
	targets := getTransitions()[s]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// CanTransitionTo reports whether s -> to is an edge of the graph.
func (s Status) CanTransitionTo(to Status) bool {
	for _, target := range getTransitions()[s] {
		if target == to {
			return true
		}
	}
	return false
}

// Transition returns to if s -> to is an edge, errs.InvalidTransitionError otherwise.
func (s Status) Transition(to Status) (Status, error) {
	if !s.CanTransitionTo(to) {
		return Unknown, errs.NewInvalidTransitionError(s.String(), to.String())
	}
	return to, nil
}

// HoldsReservation reports whether stock for the order's line items is currently reserved.
func (s Status) HoldsReservation() bool {
	return s == Preparing || s == InTransit
}
