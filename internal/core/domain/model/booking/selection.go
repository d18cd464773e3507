package booking

import (
	"errors"
	"strings"

	"shipbook/internal/pkg/errs"
	"shipbook/internal/pkg/guard"
)

// SelectionKind distinguishes a dedicated-carrier booking from a
// group-shipment booking.
type SelectionKind int

const (
	// SelectionUnknown is the invalid zero value.
	SelectionUnknown SelectionKind = iota
	// SelectionCarrier books a dedicated courier.
	SelectionCarrier
	// SelectionGroup joins a group shipment and earns the group discount.
	SelectionGroup
)

// ErrRateSelectionIsNotConstructed is returned when validating a zero-value
// RateSelection.
var ErrRateSelectionIsNotConstructed = errs.NewValueIsRequiredError(
	"rate selection must be created via NewCarrierSelection or NewGroupSelection")

// Rate is the per-km / per-kg tariff of a carrier or shipment group.
type Rate struct {
	PerKm float64
	PerKg float64
}

// RateSelection is the user's carrier-or-group choice together with the
// tariff it prices at. A group selection additionally carries the group
// discount percentage; a carrier selection never discounts.
type RateSelection struct { //nolint:recvcheck //using for validation
	kind            SelectionKind
	refID           string
	rate            Rate
	discountPercent float64

	guard guard.ConstructorGuard
}

// NewCarrierSelection creates a dedicated-carrier selection.
func NewCarrierSelection(carrierID string, rate Rate) (RateSelection, error) {
	return newSelection(SelectionCarrier, carrierID, rate, 0)
}

// NewGroupSelection creates a group-shipment selection with its discount.
// discountPercent must lie in [0, 100].
func NewGroupSelection(groupID string, rate Rate, discountPercent float64) (RateSelection, error) {
	return newSelection(SelectionGroup, groupID, rate, discountPercent)
}

func newSelection(kind SelectionKind, refID string, rate Rate, discountPercent float64) (RateSelection, error) {
	s := RateSelection{
		kind:  kind,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setRefID(refID),
		s.setRate(rate),
		s.setDiscountPercent(discountPercent),
	); err != nil {
		return RateSelection{}, err
	}

	return s, nil
}

// Validate checks the selection was built through a constructor.
func (s RateSelection) Validate() error {
	return s.guard.Validate(ErrRateSelectionIsNotConstructed)
}

// Kind returns whether the selection is a carrier or group booking.
func (s RateSelection) Kind() SelectionKind {
	return s.kind
}

// RefID returns the selected carrier or group identifier.
func (s RateSelection) RefID() string {
	return s.refID
}

// Rate returns the tariff the selection prices at.
func (s RateSelection) Rate() Rate {
	return s.rate
}

// DiscountPercent returns the group discount; zero for carrier selections.
func (s RateSelection) DiscountPercent() float64 {
	return s.discountPercent
}

// Label renders the selection for display and event payloads, e.g.
// "carrier:bluedart" or "group:grp-42".
func (s RateSelection) Label() string {
	if s.kind == SelectionGroup {
		return "group:" + s.refID
	}
	return "carrier:" + s.refID
}

func (s *RateSelection) setRefID(refID string) error {
	refID = strings.TrimSpace(refID)
	if refID == "" {
		return errs.NewValueIsRequiredError("carrierOrGroupId")
	}

	s.refID = refID
	return nil
}

func (s *RateSelection) setRate(rate Rate) error {
	if rate.PerKm < 0 || rate.PerKg < 0 {
		return errs.NewValueIsInvalidError("rate")
	}

	s.rate = rate
	return nil
}

func (s *RateSelection) setDiscountPercent(discountPercent float64) error {
	if discountPercent < 0 || discountPercent > 100 {
		return errs.NewValueIsOutOfRangeError("discountPercent", discountPercent, 0, 100)
	}

	s.discountPercent = discountPercent
	return nil
}
