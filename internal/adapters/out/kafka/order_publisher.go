// Package kafka publishes order lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"shipbook/internal/core/domain/model/order"

	skafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of segmentio's kafka.Writer the publisher needs.
// Narrowing the dependency keeps the publisher testable without a broker.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// orderChangedEvent is the wire shape of an order state change. Consumers
// key on OrderID, so all events for one order land in the same partition.
type orderChangedEvent struct {
	OrderID      string    `json:"orderId"`
	BookingID    string    `json:"bookingId"`
	Status       string    `json:"status"`
	Amount       float64   `json:"amount"`
	CancelReason string    `json:"cancelReason,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// OrderPublisher emits order-changed events. Implements
// ports.OrderEventPublisher.
type OrderPublisher struct {
	writer Writer
}

// NewOrderPublisher creates a publisher writing to the given broker and topic.
func NewOrderPublisher(brokerAddr, topic string) *OrderPublisher {
	return &OrderPublisher{
		writer: &skafka.Writer{
			Addr:     skafka.TCP(brokerAddr),
			Topic:    topic,
			Balancer: &skafka.LeastBytes{},
		},
	}
}

// NewOrderPublisherWithWriter allows injecting a writer, used in tests.
func NewOrderPublisherWithWriter(writer Writer) *OrderPublisher {
	return &OrderPublisher{writer: writer}
}

// PublishOrderChanged serializes the order's current state and writes it
// keyed by order id.
func (p *OrderPublisher) PublishOrderChanged(ctx context.Context, aggregate *order.Order) error {
	event := orderChangedEvent{
		OrderID:      aggregate.ID().String(),
		BookingID:    aggregate.BookingID().String(),
		Status:       aggregate.Status().String(),
		Amount:       aggregate.Amount(),
		CancelReason: aggregate.CancelReason(),
		OccurredAt:   time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, skafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
}

// Close flushes and releases the underlying writer.
func (p *OrderPublisher) Close() error {
	return p.writer.Close()
}
