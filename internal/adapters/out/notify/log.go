package notify

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/order"
)

// LogPublisher writes status changes to the log. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "log-publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, event order.StatusChanged) error {
	p.logger.InfoContext(ctx, "order status changed",
		"orderId", event.OrderID.String(),
		"from", event.From.String(),
		"to", event.To.String(),
		"at", event.At,
	)
	return nil
}
