package commands

import (
	"context"

	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/ports"
)

// StartBookingCommandHandler opens booking sessions. A fresh draft starts
// in the collecting stage with no details, selection, or quote.
type StartBookingCommandHandler struct {
	sessions ports.SessionStore
}

// NewStartBookingCommandHandler creates a handler for opening booking
// sessions.
func NewStartBookingCommandHandler(sessions ports.SessionStore) StartBookingCommandHandler {
	return StartBookingCommandHandler{sessions: sessions}
}

// Handle creates the draft and stores it in the session store.
func (h StartBookingCommandHandler) Handle(ctx context.Context, cmd StartBookingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	draft, err := booking.NewDraft(cmd.BookingID())
	if err != nil {
		return err
	}

	return h.sessions.Add(ctx, draft)
}
