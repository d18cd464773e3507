// Package ports defines the outbound contracts of the booking core.
// These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying orders by status
// and age.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no order has that id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetPendingOlderThan retrieves pending orders created before the cutoff.
	// Used by the reaper sweep to cancel orders abandoned mid-payment.
	GetPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
