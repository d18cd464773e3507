package queries

import (
	"context"

	"shipbook/internal/core/ports"
)

// ResolveMapPointQueryHandler reverse-geocodes a single map pick. It fails
// only on transport errors from the geocoder.
type ResolveMapPointQueryHandler struct {
	geocoder ports.Geocoder
}

// NewResolveMapPointQueryHandler creates a map-pick resolution handler.
func NewResolveMapPointQueryHandler(geocoder ports.Geocoder) ResolveMapPointQueryHandler {
	return ResolveMapPointQueryHandler{geocoder: geocoder}
}

// Handle resolves the picked point to an address anchored at that point.
func (h ResolveMapPointQueryHandler) Handle(
	ctx context.Context,
	query ResolveMapPointQuery,
) (ResolveMapPointQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ResolveMapPointQueryResponse{}, err
	}

	candidate, err := h.geocoder.ReverseLookup(ctx, query.Point())
	if err != nil {
		return ResolveMapPointQueryResponse{}, err
	}

	resolved, err := candidateToAddress(candidate, query.Point())
	if err != nil {
		return ResolveMapPointQueryResponse{}, err
	}

	return ResolveMapPointQueryResponse{Address: resolved}, nil
}
