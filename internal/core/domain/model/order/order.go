package order

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// maxTrackingNumberLength bounds the carrier reference stored with an in_transit order.
const maxTrackingNumberLength = 64

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Tracking is the carrier information recorded when the order leaves the seller.
type Tracking struct {
	Number            string
	EstimatedDelivery *time.Time
}

// IsEmpty reports whether no tracking information was supplied.
func (t Tracking) IsEmpty() bool {
	return t.Number == "" && t.EstimatedDelivery == nil
}

// Order is the aggregate root of the purchase lifecycle.
//
// Order follows these invariants:
//   - Has a valid id and customer id and at least one line item
//   - Status only moves along the edges returned by Status.Targets
//   - A shipper is assigned before the order can enter in_transit
//   - Every status the order has been in carries the time it was entered
//
// Version is the optimistic concurrency token: repositories save an order only if the stored
// version still equals the one it was loaded with.
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	items      []LineItem
	status     Status

	// shipperID is nil until a shipper is assigned
	shipperID         *kernel.UUID
	shipperAssignedAt *time.Time
	tracking          Tracking

	// enteredAt holds the time each visited status was entered
	enteredAt map[Status]time.Time

	version int64
	guard   guard.ConstructorGuard
}

// Snapshot is the full persisted state of an order, used by repositories to restore it.
type Snapshot struct {
	ID                kernel.UUID
	CustomerID        kernel.UUID
	Items             []LineItem
	Status            Status
	ShipperID         *kernel.UUID
	ShipperAssignedAt *time.Time
	Tracking          Tracking
	EnteredAt         map[Status]time.Time
	Version           int64
}

// NewOrder creates an order in status placed. Payment is already authorized at this point,
// so no other state is required.
//
// Example:
//
//	item, _ := order.NewLineItem(productID, sellerID, 2, price)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, []order.LineItem{item}, time.Now())
func NewOrder(id, customerID kernel.UUID, items []LineItem, placedAt time.Time) (*Order, error) {
	o := &Order{
		status:    Placed,
		enteredAt: map[Status]time.Time{Placed: placedAt.UTC()},
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence. The same structural invariants as
// NewOrder are checked, plus a valid status that has an entry time.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		shipperAssignedAt: s.ShipperAssignedAt,
		tracking:          s.Tracking,
		enteredAt:         make(map[Status]time.Time, len(s.EnteredAt)),
		version:           s.Version,
		guard:             guard.NewConstructorGuard(),
	}
	for status, at := range s.EnteredAt {
		o.enteredAt[status] = at
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomerID(s.CustomerID),
		o.setItems(s.Items),
		o.restoreStatus(s.Status),
		o.restoreShipper(s.ShipperID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by id.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Items returns a copy of the line items in purchase order.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) Status() Status {
	return o.status
}

// Shipper returns the assigned shipper or nil.
func (o *Order) Shipper() *kernel.UUID {
	return o.shipperID
}

func (o *Order) ShipperAssignedAt() *time.Time {
	return o.shipperAssignedAt
}

func (o *Order) Tracking() Tracking {
	return o.tracking
}

// EnteredAt returns when the order entered status, if it ever did.
func (o *Order) EnteredAt(status Status) (time.Time, bool) {
	at, ok := o.enteredAt[status]
	return at, ok
}

// Timeline returns a copy of all status entry times.
func (o *Order) Timeline() map[Status]time.Time {
	timeline := make(map[Status]time.Time, len(o.enteredAt))
	for status, at := range o.enteredAt {
		timeline[status] = at
	}
	return timeline
}

func (o *Order) Version() int64 {
	return o.version
}

// Total is the sum of the line item subtotals. It is always derived, never stored on the aggregate.
func (o *Order) Total() kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// HasSeller reports whether at least one line item belongs to sellerID.
func (o *Order) HasSeller(sellerID kernel.UUID) bool {
	for _, item := range o.items {
		if item.SellerID().IsEqual(sellerID) {
			return true
		}
	}
	return false
}

// IsAssignedTo reports whether shipperID is the assigned shipper.
func (o *Order) IsAssignedTo(shipperID kernel.UUID) bool {
	return o.shipperID != nil && o.shipperID.IsEqual(shipperID)
}

// AssignShipper sets or replaces the shipper. Assignment is only possible while the seller
// is preparing the order; once it is in transit the shipper is fixed.
func (o *Order) AssignShipper(shipperID kernel.UUID, at time.Time) error {
	if err := shipperID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shipper", err)
	}
	if o.status != Preparing {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("shipper can only be assigned while %s, order is %s", Preparing, o.status),
		)
	}

	assignedAt := at.UTC()
	o.shipperID = &shipperID
	o.shipperAssignedAt = &assignedAt
	return nil
}

// TransitionTo moves the order along one edge of the status graph and records the entry time.
//
// This method enforces:
//   - to must be a direct target of the current status (errs.InvalidTransitionError otherwise)
//   - entering in_transit requires an assigned shipper
//   - tracking is only recorded when entering in_transit; its number is at most 64 characters
//
// TransitionTo does not handle retries; callers detect to == Status() before calling it.
func (o *Order) TransitionTo(to Status, at time.Time, tracking Tracking) error {
	next, err := o.status.Transition(to)
	if err != nil {
		return err
	}

	if next == InTransit {
		if o.shipperID == nil {
			return errs.NewValueIsRequiredError("shipper")
		}
		if n := utf8.RuneCountInString(tracking.Number); n > maxTrackingNumberLength {
			return errs.NewValueIsOutOfRangeError("trackingNumber", n, 0, maxTrackingNumberLength)
		}
		o.tracking = tracking
	}

	o.status = next
	o.enteredAt[next] = at.UTC()
	return nil
}

// Snapshot returns a copy of the full state, for repositories.
func (o *Order) Snapshot() Snapshot {
	s := Snapshot{
		ID:         o.id,
		CustomerID: o.customerID,
		Items:      o.Items(),
		Status:     o.status,
		Tracking:   o.tracking,
		EnteredAt:  o.Timeline(),
		Version:    o.version,
	}
	if o.shipperID != nil {
		id := *o.shipperID
		s.ShipperID = &id
	}
	if o.shipperAssignedAt != nil {
		at := *o.shipperAssignedAt
		s.ShipperAssignedAt = &at
	}
	return s
}

// MarkSaved records the version written by a repository.
func (o *Order) MarkSaved(version int64) {
	o.version = version
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) restoreStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if _, ok := o.enteredAt[status]; !ok {
		return errs.NewValueIsRequiredErrorWithCause(
			"enteredAt",
			fmt.Errorf("no entry time for status %s", status),
		)
	}
	o.status = status
	return nil
}

func (o *Order) restoreShipper(shipperID *kernel.UUID) error {
	if shipperID == nil {
		return nil
	}
	if err := shipperID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("shipperId", err)
	}
	id := *shipperID
	o.shipperID = &id
	return nil
}
