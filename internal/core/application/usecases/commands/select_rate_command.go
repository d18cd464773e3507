package commands

import (
	"errors"

	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/guard"
)

var ErrSelectRateCommandIsNotConstructed = errors.New(
	"SelectRateCommand must be created via NewSelectRateCommand constructor",
)

// SelectRateCommand picks a carrier or group-shipment rate for a booking
// session. The quote is recomputed from scratch for the current details and
// this selection; nothing from a previous quote survives.
type SelectRateCommand struct { //nolint:recvcheck //using for validation
	bookingID kernel.UUID
	selection booking.RateSelection

	guard guard.ConstructorGuard
}

// NewSelectRateCommand creates a rate selection command.
func NewSelectRateCommand(bookingID kernel.UUID, selection booking.RateSelection) (SelectRateCommand, error) {
	if err := errors.Join(
		bookingID.Validate(),
		selection.Validate(),
	); err != nil {
		return SelectRateCommand{}, err
	}

	return SelectRateCommand{
		bookingID: bookingID,
		selection: selection,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SelectRateCommand) Validate() error {
	return c.guard.Validate(ErrSelectRateCommandIsNotConstructed)
}

// BookingID returns the target booking session.
func (c SelectRateCommand) BookingID() kernel.UUID {
	return c.bookingID
}

// Selection returns the chosen carrier or group rate.
func (c SelectRateCommand) Selection() booking.RateSelection {
	return c.selection
}
