package queries

import (
	"errors"
	"time"

	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/guard"
)

var ErrGetPendingOrdersQueryIsNotConstructed = errors.New(
	"GetPendingOrdersQuery must be created via NewGetPendingOrdersQuery constructor",
)

// GetPendingOrdersQuery retrieves all orders still awaiting a payment
// outcome, oldest first. Used by support tooling to spot bookings stuck
// mid-payment.
type GetPendingOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingOrdersQuery creates the parameterless pending-orders query.
func NewGetPendingOrdersQuery() GetPendingOrdersQuery {
	return GetPendingOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOrdersQueryIsNotConstructed)
}

// GetPendingOrdersQueryResponse is one pending order row.
type GetPendingOrdersQueryResponse struct {
	ID           kernel.UUID
	Amount       float64
	CreatedAt    time.Time
	PickupCity   string
	DeliveryCity string
}
