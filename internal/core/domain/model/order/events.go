package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// StatusChanged is published after a transition has been committed.
type StatusChanged struct {
	OrderID kernel.UUID
	From    Status
	To      Status
	At      time.Time
}

// NewStatusChanged builds the event for the status the order has just entered.
func NewStatusChanged(o *Order, from Status) StatusChanged {
	at, _ := o.EnteredAt(o.Status())
	return StatusChanged{OrderID: o.ID(), From: from, To: o.Status(), At: at}
}
