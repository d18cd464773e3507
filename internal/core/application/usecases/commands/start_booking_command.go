package commands

import (
	"errors"

	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/guard"
)

var ErrStartBookingCommandIsNotConstructed = errors.New(
	"StartBookingCommand must be created via NewStartBookingCommand constructor",
)

// StartBookingCommand opens a new booking session. The caller supplies the
// booking id so retried requests stay idempotent at the session store.
type StartBookingCommand struct { //nolint:recvcheck //using for validation
	bookingID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartBookingCommand creates a command to open a booking session.
func NewStartBookingCommand(bookingID kernel.UUID) (StartBookingCommand, error) {
	if err := bookingID.Validate(); err != nil {
		return StartBookingCommand{}, err
	}

	return StartBookingCommand{
		bookingID: bookingID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c StartBookingCommand) Validate() error {
	return c.guard.Validate(ErrStartBookingCommandIsNotConstructed)
}

// BookingID returns the identifier of the new booking session.
func (c StartBookingCommand) BookingID() kernel.UUID {
	return c.bookingID
}
