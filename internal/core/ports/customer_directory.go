package ports

import (
	"context"

	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/kernel"
)

// CustomerDirectory is a read-only view of a customer's saved addresses.
// Address search surfaces matching saved entries ahead of remote geocoder
// results.
type CustomerDirectory interface {
	// SavedAddresses returns the customer's stored addresses, most recently
	// used first. An unknown customer yields an empty slice, not an error.
	SavedAddresses(ctx context.Context, customerID kernel.UUID) ([]address.Address, error)
}
