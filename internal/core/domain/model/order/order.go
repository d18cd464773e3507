package order

import (
	"errors"
	"strings"
	"time"

	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the durable record of a shipment booking. It is created in
// Pending status at the moment payment begins, never earlier, so browsing
// quotes leaves no trace. It snapshots the full booking draft including
// the quote, fixing the charged amount at creation time.
//
// Invariants:
//   - the snapshot (endpoints, parcel, quote) never changes after creation
//   - status follows the Pending → Confirmed | Cancelled machine
//   - a terminal order is immutable; re-applying its own terminal
//     transition is an idempotent no-op
type Order struct {
	id        kernel.UUID
	bookingID kernel.UUID

	pickup   address.Address
	delivery address.Address
	parcel   booking.Parcel
	quote    booking.RouteQuote

	status          Status
	paymentIntentID string
	cancelReason    string
	createdAt       time.Time

	isConstructed bool
}

// NewOrder creates a Pending order from a booking draft snapshot. Both
// endpoints must satisfy the booking completeness rules and the quote must
// be constructed; the order's amount is the quote's total.
func NewOrder(
	id kernel.UUID,
	bookingID kernel.UUID,
	pickup, delivery address.Address,
	parcel booking.Parcel,
	quote booking.RouteQuote,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		bookingID.Validate(),
		pickup.ValidateForBooking(),
		delivery.ValidateForBooking(),
		parcel.Validate(),
		quote.Validate(),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		bookingID:     bookingID,
		pickup:        pickup,
		delivery:      delivery,
		parcel:        parcel,
		quote:         quote,
		status:        Pending,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-running the
// creation-time business rules. The status must still be a defined one.
func RestoreOrder(
	id kernel.UUID,
	bookingID kernel.UUID,
	pickup, delivery address.Address,
	parcel booking.Parcel,
	quote booking.RouteQuote,
	status Status,
	paymentIntentID string,
	cancelReason string,
	createdAt time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), bookingID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Order{
		id:              id,
		bookingID:       bookingID,
		pickup:          pickup,
		delivery:        delivery,
		parcel:          parcel,
		quote:           quote,
		status:          status,
		paymentIntentID: paymentIntentID,
		cancelReason:    cancelReason,
		createdAt:       createdAt,
		isConstructed:   true,
	}, nil
}

// Validate ensures the order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// BookingID returns the identifier of the booking session that created the
// order.
func (o *Order) BookingID() kernel.UUID {
	return o.bookingID
}

// Pickup returns the snapshotted pickup endpoint.
func (o *Order) Pickup() address.Address {
	return o.pickup
}

// Delivery returns the snapshotted delivery endpoint.
func (o *Order) Delivery() address.Address {
	return o.delivery
}

// Parcel returns the snapshotted package profile.
func (o *Order) Parcel() booking.Parcel {
	return o.parcel
}

// Quote returns the snapshotted quote. Post-creation this is the single
// source of truth for the charged amount; it is never recomputed from
// session state.
func (o *Order) Quote() booking.RouteQuote {
	return o.quote
}

// Amount returns the amount payable, fixed at creation time.
func (o *Order) Amount() float64 {
	return o.quote.Total()
}

// Status returns the current payment lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

// PaymentIntentID returns the gateway intent identifier, empty until one is
// attached.
func (o *Order) PaymentIntentID() string {
	return o.paymentIntentID
}

// CancelReason returns why the order was cancelled, empty otherwise.
func (o *Order) CancelReason() string {
	return o.cancelReason
}

// CreatedAt returns when the order entered Pending.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AttachPaymentIntent records the gateway intent the order is being paid
// through. Only a pending order may take an intent.
func (o *Order) AttachPaymentIntent(intentID string) error {
	if err := o.Validate(); err != nil {
		return err
	}

	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return errs.NewValueIsRequiredError("paymentIntentId")
	}
	if o.status != Pending {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			errors.New("payment intent can only be attached to a pending order"))
	}

	o.paymentIntentID = intentID
	return nil
}

// Confirm marks the order paid after successful verification. Calling it on
// an already-confirmed order is an idempotent no-op; on a cancelled order it
// fails.
func (o *Order) Confirm() error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Cancel compensates the pending order, recording why. Calling it on an
// already-cancelled order is an idempotent no-op that preserves the original
// reason; on a confirmed order it fails.
func (o *Order) Cancel(reason string) error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	if o.status != Cancelled {
		o.cancelReason = strings.TrimSpace(reason)
	}
	o.status = newStatus
	return nil
}
