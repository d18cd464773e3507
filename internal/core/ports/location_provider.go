package ports

import (
	"context"
	"errors"

	"shipbook/internal/core/domain/model/kernel"
)

// Location provider failure reasons. Each one calls for different caller
// guidance, so they are distinct sentinels rather than one opaque error.
var (
	ErrLocationPermissionDenied = errors.New("location permission denied")
	ErrLocationUnavailable      = errors.New("location provider unavailable")
	ErrLocationTimeout          = errors.New("location fix timed out")
)

// PositionFix is a device position estimate with its reported accuracy
// radius in meters.
type PositionFix struct {
	Position  kernel.GeoPoint
	AccuracyM float64
}

// LocationProvider obtains the device's current position.
type LocationProvider interface {
	// GetPosition returns the current position fix, or one of the
	// sentinel errors above describing why no fix could be obtained.
	GetPosition(ctx context.Context) (PositionFix, error)
}
