package commands

import (
	"context"

	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/services"
	"shipbook/internal/core/ports"
)

// SelectRateCommandHandler applies a rate selection to a draft and derives
// the quote for it. Handle returns the freshly computed quote so the caller
// can render the review stage without a second round trip.
type SelectRateCommandHandler struct {
	sessions ports.SessionStore
	pricing  services.PricingEngine
}

// NewSelectRateCommandHandler creates a rate selection handler.
func NewSelectRateCommandHandler(
	sessions ports.SessionStore,
	pricing services.PricingEngine,
) SelectRateCommandHandler {
	return SelectRateCommandHandler{
		sessions: sessions,
		pricing:  pricing,
	}
}

// Handle recomputes the quote for the draft's current details and the given
// selection, then stores both on the draft under the session lock.
func (h SelectRateCommandHandler) Handle(
	ctx context.Context,
	cmd SelectRateCommand,
) (booking.RouteQuote, error) {
	if err := cmd.Validate(); err != nil {
		return booking.RouteQuote{}, err
	}

	var quote booking.RouteQuote
	err := h.sessions.Mutate(ctx, cmd.BookingID(), func(draft *booking.Draft) error {
		q, err := h.pricing.BuildQuote(
			draft.Pickup(),
			draft.Delivery(),
			draft.Parcel().WeightKg(),
			cmd.Selection(),
		)
		if err != nil {
			return err
		}

		if err = draft.Select(cmd.Selection(), q); err != nil {
			return err
		}

		quote = q
		return nil
	})
	if err != nil {
		return booking.RouteQuote{}, err
	}

	return quote, nil
}
