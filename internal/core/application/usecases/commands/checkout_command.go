package commands

import (
	"errors"

	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/guard"
)

var ErrCheckoutCommandIsNotConstructed = errors.New(
	"CheckoutCommand must be created via NewCheckoutCommand constructor",
)

// Checkout outcomes as reported to the caller.
const (
	CheckoutOutcomeConfirmed          = "confirmed"
	CheckoutOutcomeCancelled          = "cancelled"
	CheckoutOutcomeAwaitingSettlement = "awaiting_settlement"
)

// CheckoutCommand starts the payment stage of a booking session.
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	bookingID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCheckoutCommand creates a checkout command for a booking session.
func NewCheckoutCommand(bookingID kernel.UUID) (CheckoutCommand, error) {
	if err := bookingID.Validate(); err != nil {
		return CheckoutCommand{}, err
	}

	return CheckoutCommand{
		bookingID: bookingID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

// BookingID returns the booking session to check out.
func (c CheckoutCommand) BookingID() kernel.UUID {
	return c.bookingID
}

// CheckoutCommandResponse reports how the payment stage ended. CancelReason
// is set only when the outcome is cancelled.
type CheckoutCommandResponse struct {
	OrderID      kernel.UUID
	Outcome      string
	CancelReason string
}
