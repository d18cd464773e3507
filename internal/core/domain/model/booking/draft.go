package booking

import (
	"errors"
	"fmt"

	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/kernel"
)

// ErrDraftIsNotConstructed is returned when a Draft was not created through
// NewDraft.
var ErrDraftIsNotConstructed = errors.New("Draft must be created via NewDraft constructor")

// Draft is the in-progress booking under construction: pickup and delivery
// endpoints, the package profile, the carrier/group choice, and the current
// quote, all gated by the Stage machine. A draft belongs to exactly one
// booking session and is mutated only through orchestrator commands; there
// is no shared ambient state.
//
// Invariants:
//   - stage transitions follow the Stage machine; no stage is skipped
//   - the quote is replaced wholesale whenever pickup, delivery, parcel, or
//     selection changes, never patched
//   - entering Paying requires a valid selection and quote
type Draft struct {
	id       kernel.UUID
	pickup   address.Address
	delivery address.Address
	parcel   Parcel

	selection    RateSelection
	hasSelection bool
	quote        RouteQuote
	hasQuote     bool

	stage Stage

	isConstructed bool
}

// NewDraft opens a booking session draft in the Collecting stage.
func NewDraft(id kernel.UUID) (*Draft, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Draft{
		id:            id,
		stage:         StageCollecting,
		isConstructed: true,
	}, nil
}

// Validate ensures the draft was created through NewDraft.
func (d *Draft) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDraftIsNotConstructed
	}
	return nil
}

// ID returns the booking session identifier.
func (d *Draft) ID() kernel.UUID {
	return d.id
}

// Stage returns the draft's current lifecycle stage.
func (d *Draft) Stage() Stage {
	return d.stage
}

// Pickup returns the pickup endpoint.
func (d *Draft) Pickup() address.Address {
	return d.pickup
}

// Delivery returns the delivery endpoint.
func (d *Draft) Delivery() address.Address {
	return d.delivery
}

// Parcel returns the package profile.
func (d *Draft) Parcel() Parcel {
	return d.parcel
}

// Selection returns the carrier/group choice and whether one was made.
func (d *Draft) Selection() (RateSelection, bool) {
	return d.selection, d.hasSelection
}

// Quote returns the current quote and whether one exists.
func (d *Draft) Quote() (RouteQuote, bool) {
	return d.quote, d.hasQuote
}

// SubmitDetails records validated pickup/delivery endpoints and the package
// profile and moves the draft to Quoting. Completeness violations are
// reported per field, prefixed with the endpoint they belong to, so every
// offending input surfaces at once. Any existing selection and quote are
// discarded because the pricing inputs changed.
func (d *Draft) SubmitDetails(pickup, delivery address.Address, parcel Parcel) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if err := errors.Join(
		prefixFields("pickup", pickup.ValidateForBooking()),
		prefixFields("delivery", delivery.ValidateForBooking()),
		parcel.Validate(),
	); err != nil {
		return err
	}

	newStage, err := d.stage.SubmitDetails()
	if err != nil {
		return err
	}

	d.pickup = pickup
	d.delivery = delivery
	d.parcel = parcel
	d.selection = RateSelection{}
	d.hasSelection = false
	d.quote = RouteQuote{}
	d.hasQuote = false
	d.stage = newStage
	return nil
}

// Select records the carrier/group choice together with the quote computed
// for it and moves the draft to Review. The previous quote, if any, is
// replaced wholesale.
func (d *Draft) Select(selection RateSelection, quote RouteQuote) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if err := errors.Join(selection.Validate(), quote.Validate()); err != nil {
		return err
	}

	newStage, err := d.stage.Select()
	if err != nil {
		return err
	}

	d.selection = selection
	d.hasSelection = true
	d.quote = quote
	d.hasQuote = true
	d.stage = newStage
	return nil
}

// BeginPayment moves the draft from Review to Paying. The caller creates the
// pending order from the draft snapshot before initiating payment, so the
// charged amount is fixed here and never recomputed from mutable state.
func (d *Draft) BeginPayment() error {
	if err := d.Validate(); err != nil {
		return err
	}

	if !d.hasSelection || !d.hasQuote {
		return ErrRouteQuoteIsNotConstructed
	}

	newStage, err := d.stage.BeginPayment()
	if err != nil {
		return err
	}

	d.stage = newStage
	return nil
}

// MarkConfirmed moves the draft to its terminal Confirmed stage after
// payment verification succeeded.
func (d *Draft) MarkConfirmed() error {
	if err := d.Validate(); err != nil {
		return err
	}

	newStage, err := d.stage.Confirm()
	if err != nil {
		return err
	}

	d.stage = newStage
	return nil
}

// MarkCancelling moves the draft to Cancelling while the pending order is
// being compensated.
func (d *Draft) MarkCancelling() error {
	if err := d.Validate(); err != nil {
		return err
	}

	newStage, err := d.stage.Cancel()
	if err != nil {
		return err
	}

	d.stage = newStage
	return nil
}

// ResumeCollecting returns a cancelled-payment draft to Collecting. All
// collected inputs are retained so the user can retry without re-entering
// them.
func (d *Draft) ResumeCollecting() error {
	if err := d.Validate(); err != nil {
		return err
	}

	newStage, err := d.stage.ResumeCollecting()
	if err != nil {
		return err
	}

	d.stage = newStage
	return nil
}

// prefixFields wraps a joined field-error with the endpoint it belongs to,
// keeping errors.Is/As classification intact.
func prefixFields(endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", endpoint, err)
}
