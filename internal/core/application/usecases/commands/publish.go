package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// publishTimeout bounds how long a committed request waits on the notification channel.
const publishTimeout = 2 * time.Second

// publish hands event to the notification channel. Failures are logged and never returned:
// the transition is already committed.
func publish(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, event order.StatusChanged) {
	if publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "failed to publish status change",
			"orderId", event.OrderID.String(),
			"to", event.To.String(),
			"error", err,
		)
	}
}
