package queries

import (
	"errors"

	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/pkg/guard"
)

var ErrResolveDeviceLocationQueryIsNotConstructed = errors.New(
	"ResolveDeviceLocationQuery must be created via NewResolveDeviceLocationQuery constructor",
)

// DefaultPreciseAccuracyThresholdM is the accuracy radius below which a
// device fix counts as precise. An approximate fix tells the caller to
// prompt for manual refinement.
const DefaultPreciseAccuracyThresholdM = 1000.0

// ResolveDeviceLocationQuery asks for the device's current position resolved
// to a canonical address.
type ResolveDeviceLocationQuery struct {
	guard guard.ConstructorGuard
}

// NewResolveDeviceLocationQuery creates the parameterless device resolution
// query.
func NewResolveDeviceLocationQuery() ResolveDeviceLocationQuery {
	return ResolveDeviceLocationQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q ResolveDeviceLocationQuery) Validate() error {
	return q.guard.Validate(ErrResolveDeviceLocationQueryIsNotConstructed)
}

// ResolveDeviceLocationQueryResponse carries the resolved address together
// with the accuracy classification of the underlying fix.
type ResolveDeviceLocationQueryResponse struct {
	Address   address.Address
	AccuracyM float64
	Precise   bool
}
