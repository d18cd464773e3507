package ports

import (
	"context"

	"shipbook/internal/core/domain/model/order"
)

// OrderEventPublisher announces order lifecycle changes to interested
// consumers. Publishing is best-effort from the caller's point of view:
// command handlers log a failed publish and carry on, they never fail the
// business operation over it.
type OrderEventPublisher interface {
	// PublishOrderChanged emits the order's current state.
	PublishOrderChanged(ctx context.Context, aggregate *order.Order) error

	// Close flushes and releases the underlying transport.
	Close() error
}
