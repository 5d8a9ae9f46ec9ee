// Package notify publishes order status changes to a message broker. Publishing is best
// effort: callers log failures and never roll back a committed transition because of them.
package notify

import (
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/order"
)

// StatusChangedMessage is the wire form of order.StatusChanged.
type StatusChangedMessage struct {
	OrderID string    `json:"orderId"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}

func newStatusChangedMessage(event order.StatusChanged) StatusChangedMessage {
	return StatusChangedMessage{
		OrderID: event.OrderID.String(),
		From:    event.From.String(),
		To:      event.To.String(),
		At:      event.At.UTC(),
	}
}

func encode(event order.StatusChanged) ([]byte, error) {
	return json.Marshal(newStatusChangedMessage(event))
}
