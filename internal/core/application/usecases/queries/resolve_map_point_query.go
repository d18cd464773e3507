package queries

import (
	"errors"

	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/guard"
)

var ErrResolveMapPointQueryIsNotConstructed = errors.New(
	"ResolveMapPointQuery must be created via NewResolveMapPointQuery constructor",
)

// ResolveMapPointQuery asks for the address at a point the customer picked
// on a map. Unlike text search there is no ambiguity: one point, one
// lookup, one answer.
type ResolveMapPointQuery struct { //nolint:recvcheck //using for validation
	point kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewResolveMapPointQuery creates a map-pick query from raw coordinates.
// Coordinates outside valid latitude/longitude ranges are rejected.
func NewResolveMapPointQuery(lat, lng float64) (ResolveMapPointQuery, error) {
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return ResolveMapPointQuery{}, err
	}

	return ResolveMapPointQuery{
		point: point,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ResolveMapPointQuery) Validate() error {
	return q.guard.Validate(ErrResolveMapPointQueryIsNotConstructed)
}

// Point returns the picked map position.
func (q ResolveMapPointQuery) Point() kernel.GeoPoint {
	return q.point
}

// ResolveMapPointQueryResponse carries the address resolved for the picked
// point.
type ResolveMapPointQueryResponse struct {
	Address address.Address
}
