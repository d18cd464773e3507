package commands

import (
	"errors"

	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/guard"
)

var ErrSubmitDetailsCommandIsNotConstructed = errors.New(
	"SubmitDetailsCommand must be created via NewSubmitDetailsCommand constructor",
)

// SubmitDetailsCommand carries the pickup/delivery endpoints and the parcel
// profile for a booking session. Submitting details again replaces the
// previous set and invalidates any quote derived from it.
type SubmitDetailsCommand struct { //nolint:recvcheck //using for validation
	bookingID kernel.UUID
	pickup    address.Address
	delivery  address.Address
	parcel    booking.Parcel

	guard guard.ConstructorGuard
}

// NewSubmitDetailsCommand creates a details submission. Field-level booking
// completeness (contact phone, pincode and so on) is checked by the draft at
// submit time; here only structural validity is required.
func NewSubmitDetailsCommand(
	bookingID kernel.UUID,
	pickup, delivery address.Address,
	parcel booking.Parcel,
) (SubmitDetailsCommand, error) {
	if err := errors.Join(
		bookingID.Validate(),
		pickup.Validate(),
		delivery.Validate(),
		parcel.Validate(),
	); err != nil {
		return SubmitDetailsCommand{}, err
	}

	return SubmitDetailsCommand{
		bookingID: bookingID,
		pickup:    pickup,
		delivery:  delivery,
		parcel:    parcel,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitDetailsCommand) Validate() error {
	return c.guard.Validate(ErrSubmitDetailsCommandIsNotConstructed)
}

// BookingID returns the target booking session.
func (c SubmitDetailsCommand) BookingID() kernel.UUID {
	return c.bookingID
}

// Pickup returns the pickup endpoint.
func (c SubmitDetailsCommand) Pickup() address.Address {
	return c.pickup
}

// Delivery returns the delivery endpoint.
func (c SubmitDetailsCommand) Delivery() address.Address {
	return c.delivery
}

// Parcel returns the parcel profile.
func (c SubmitDetailsCommand) Parcel() booking.Parcel {
	return c.parcel
}
