package ports

import (
	"context"

	"shipbook/internal/core/domain/model/kernel"
)

// AddressCandidate is a single geocoder result: a human-readable display
// line plus the structured fields needed to prefill an address form.
type AddressCandidate struct {
	DisplayName string
	City        string
	State       string
	Pincode     string
	Position    kernel.GeoPoint
}

// Geocoder resolves free-text queries and map positions to address
// candidates via a remote provider. Implementations must honor ctx
// cancellation; callers treat any error as a degraded-results condition,
// never a fatal one.
type Geocoder interface {
	// ForwardSearch returns up to limit candidates matching the query,
	// best match first.
	ForwardSearch(ctx context.Context, query string, limit int) ([]AddressCandidate, error)

	// ReverseLookup resolves a geographic position to the nearest address.
	ReverseLookup(ctx context.Context, position kernel.GeoPoint) (AddressCandidate, error)
}
