package notify

import (
	"context"
	"fmt"

	"marketplace/internal/core/domain/model/order"

	"github.com/rabbitmq/amqp091-go"
)

type channel interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp091.Publishing,
	) error
	Close() error
}

// RabbitPublisher publishes status changes to a topic exchange with routing key
// "order.<target status>", so consumers can bind to the transitions they care about.
type RabbitPublisher struct {
	ch       channel
	exchange string
}

// NewRabbitPublisher opens a channel on conn and declares the durable topic exchange.
func NewRabbitPublisher(conn *amqp091.Connection, exchange string) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp091.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &RabbitPublisher{ch: ch, exchange: exchange}, nil
}

func newRabbitPublisherWithChannel(ch channel, exchange string) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, exchange: exchange}
}

func (p *RabbitPublisher) Publish(ctx context.Context, event order.StatusChanged) error {
	body, err := encode(event)
	if err != nil {
		return fmt.Errorf("encode status change: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey(event), false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    event.OrderID.String() + ":" + event.To.String(),
		Timestamp:    event.At,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish status change to rabbitmq: %w", err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func routingKey(event order.StatusChanged) string {
	return "order." + event.To.String()
}
