package commands

import (
	"context"

	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/ports"
)

// SubmitDetailsCommandHandler applies booking details to a draft. The draft
// enforces the stage gate and the per-field completeness rules; any previous
// selection and quote are discarded wholesale.
type SubmitDetailsCommandHandler struct {
	sessions ports.SessionStore
}

// NewSubmitDetailsCommandHandler creates a details submission handler.
func NewSubmitDetailsCommandHandler(sessions ports.SessionStore) SubmitDetailsCommandHandler {
	return SubmitDetailsCommandHandler{sessions: sessions}
}

// Handle mutates the draft under the session lock.
func (h SubmitDetailsCommandHandler) Handle(ctx context.Context, cmd SubmitDetailsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.sessions.Mutate(ctx, cmd.BookingID(), func(draft *booking.Draft) error {
		return draft.SubmitDetails(cmd.Pickup(), cmd.Delivery(), cmd.Parcel())
	})
}
