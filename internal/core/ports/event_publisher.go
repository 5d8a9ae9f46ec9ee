package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// EventPublisher delivers committed status changes to the notification channel. Delivery is
// best effort: a failed publish never affects the transition that caused it.
type EventPublisher interface {
	Publish(ctx context.Context, event order.StatusChanged) error
}
