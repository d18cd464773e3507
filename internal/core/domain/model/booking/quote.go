package booking

import (
	"math"

	"shipbook/internal/pkg/errs"
	"shipbook/internal/pkg/guard"
)

// ErrRouteQuoteIsNotConstructed is returned when validating a zero-value
// RouteQuote.
var ErrRouteQuoteIsNotConstructed = errs.NewValueIsRequiredError(
	"route quote must be created via NewRouteQuote constructor")

// PriceBreakdown is the itemized price of a candidate shipment. Values keep
// full float precision; rounding happens only at presentation via Rounded,
// so recomputing a quote from the same inputs always reproduces the same
// breakdown bit for bit.
type PriceBreakdown struct {
	DistanceCharge float64
	WeightCharge   float64
	GroupDiscount  float64
	Tax            float64
	Total          float64
}

// Rounded returns a copy with every amount rounded to 2 decimal places for
// display. Never feed a rounded breakdown back into computation.
func (b PriceBreakdown) Rounded() PriceBreakdown {
	return PriceBreakdown{
		DistanceCharge: round2(b.DistanceCharge),
		WeightCharge:   round2(b.WeightCharge),
		GroupDiscount:  round2(b.GroupDiscount),
		Tax:            round2(b.Tax),
		Total:          round2(b.Total),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RouteQuote is the derived price/ETA for one pickup-delivery-parcel-rate
// combination. It is replaced wholesale whenever any pricing input changes
// and never mutated in place.
type RouteQuote struct {
	distanceKm float64
	etaDays    string
	selection  string
	breakdown  PriceBreakdown

	guard guard.ConstructorGuard
}

// NewRouteQuote assembles a quote. distanceKm must be non-negative, etaDays
// and selection non-empty, and the breakdown total non-negative.
func NewRouteQuote(distanceKm float64, etaDays, selection string, breakdown PriceBreakdown) (RouteQuote, error) {
	if distanceKm < 0 {
		return RouteQuote{}, errs.NewValueIsInvalidError("distanceKm")
	}
	if etaDays == "" {
		return RouteQuote{}, errs.NewValueIsRequiredError("etaDays")
	}
	if selection == "" {
		return RouteQuote{}, errs.NewValueIsRequiredError("carrierOrGroup")
	}
	if breakdown.Total < 0 {
		return RouteQuote{}, errs.NewValueIsInvalidError("total")
	}

	return RouteQuote{
		distanceKm: distanceKm,
		etaDays:    etaDays,
		selection:  selection,
		breakdown:  breakdown,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the quote was built through NewRouteQuote.
func (q RouteQuote) Validate() error {
	return q.guard.Validate(ErrRouteQuoteIsNotConstructed)
}

// DistanceKm returns the quoted route distance.
func (q RouteQuote) DistanceKm() float64 {
	return q.distanceKm
}

// EtaDays returns the delivery estimate bucket, e.g. "1-2".
func (q RouteQuote) EtaDays() string {
	return q.etaDays
}

// Selection returns the carrier-or-group label the quote was priced for.
func (q RouteQuote) Selection() string {
	return q.selection
}

// Breakdown returns the full-precision price breakdown.
func (q RouteQuote) Breakdown() PriceBreakdown {
	return q.breakdown
}

// Total returns the full-precision amount payable.
func (q RouteQuote) Total() float64 {
	return q.breakdown.Total
}
