package queries

import (
	"context"

	"shipbook/internal/core/ports"
)

// ResolveDeviceLocationQueryHandler turns a device position fix into a
// best-effort address. Provider failures pass through untouched so callers
// can tell permission denial, missing capability, and timeout apart via the
// ports sentinels.
type ResolveDeviceLocationQueryHandler struct {
	provider          ports.LocationProvider
	geocoder          ports.Geocoder
	preciseThresholdM float64
}

// NewResolveDeviceLocationQueryHandler creates a device resolution handler
// with the default precise-accuracy threshold.
func NewResolveDeviceLocationQueryHandler(
	provider ports.LocationProvider,
	geocoder ports.Geocoder,
) ResolveDeviceLocationQueryHandler {
	return ResolveDeviceLocationQueryHandler{
		provider:          provider,
		geocoder:          geocoder,
		preciseThresholdM: DefaultPreciseAccuracyThresholdM,
	}
}

// Handle acquires a position fix, reverse-geocodes it, and classifies the
// fix accuracy against the precise threshold.
func (h ResolveDeviceLocationQueryHandler) Handle(
	ctx context.Context,
	query ResolveDeviceLocationQuery,
) (ResolveDeviceLocationQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ResolveDeviceLocationQueryResponse{}, err
	}

	fix, err := h.provider.GetPosition(ctx)
	if err != nil {
		return ResolveDeviceLocationQueryResponse{}, err
	}

	candidate, err := h.geocoder.ReverseLookup(ctx, fix.Position)
	if err != nil {
		return ResolveDeviceLocationQueryResponse{}, err
	}

	resolved, err := candidateToAddress(candidate, fix.Position)
	if err != nil {
		return ResolveDeviceLocationQueryResponse{}, err
	}

	return ResolveDeviceLocationQueryResponse{
		Address:   resolved,
		AccuracyM: fix.AccuracyM,
		Precise:   fix.AccuracyM <= h.preciseThresholdM,
	}, nil
}
