package services

import (
	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/booking"
)

const (
	// DefaultTaxRatePercent is the tax applied to the discounted base.
	DefaultTaxRatePercent = 18.0

	// DefaultFallbackDistanceKm is quoted when either endpoint has no
	// resolved coordinates yet. Routes may be priced before geocoding
	// completes; a quote must not fail for that.
	DefaultFallbackDistanceKm = 50.0
)

// PricingEngine computes distances, ETA buckets, and price breakdowns for
// candidate shipments. All methods are pure: identical inputs always yield
// identical outputs, so a quote recomputed at payment time reproduces the
// value shown at quote time exactly.
//
// Example:
//
//	engine := services.NewPricingEngine()
//	sel, _ := booking.NewCarrierSelection("bluedart", booking.Rate{PerKm: 10, PerKg: 40})
//	quote, err := engine.BuildQuote(pickup, delivery, 2, sel)
type PricingEngine struct {
	taxRatePercent     float64
	fallbackDistanceKm float64
}

// NewPricingEngine creates an engine with the standard tax rate and fallback
// distance.
func NewPricingEngine() PricingEngine {
	return PricingEngine{
		taxRatePercent:     DefaultTaxRatePercent,
		fallbackDistanceKm: DefaultFallbackDistanceKm,
	}
}

// NewPricingEngineWithRates creates an engine with explicit tax and fallback
// parameters, for deployments with different tax regimes.
func NewPricingEngineWithRates(taxRatePercent, fallbackDistanceKm float64) PricingEngine {
	return PricingEngine{
		taxRatePercent:     taxRatePercent,
		fallbackDistanceKm: fallbackDistanceKm,
	}
}

// DistanceKm returns the great-circle distance between the two endpoints.
// When either endpoint lacks resolved coordinates the fixed fallback
// distance is returned instead of an error.
func (e PricingEngine) DistanceKm(pickup, delivery address.Address) float64 {
	from, okFrom := pickup.Geo()
	to, okTo := delivery.Geo()
	if !okFrom || !okTo {
		return e.fallbackDistanceKm
	}

	d, err := from.DistanceKm(to)
	if err != nil {
		return e.fallbackDistanceKm
	}
	return d
}

// EstimateEtaDays buckets a distance into a delivery estimate. Step function
// over fixed breakpoints; deterministic.
func (e PricingEngine) EstimateEtaDays(distanceKm float64) string {
	switch {
	case distanceKm < 100:
		return "1"
	case distanceKm < 300:
		return "1-2"
	case distanceKm < 500:
		return "2-3"
	default:
		return "3-5"
	}
}

// Quote computes the price breakdown for a distance, weight, and tariff:
//
//	distanceCharge = perKm * distanceKm
//	weightCharge   = perKg * weightKg
//	subtotal       = distanceCharge + weightCharge
//	groupDiscount  = subtotal * discountPercent / 100
//	taxableBase    = subtotal - groupDiscount
//	tax            = taxableBase * taxRate / 100
//	total          = taxableBase + tax
//
// No intermediate rounding: amounts keep full precision until a caller
// renders them via PriceBreakdown.Rounded.
func (e PricingEngine) Quote(
	distanceKm, weightKg float64, rate booking.Rate, discountPercent float64,
) booking.PriceBreakdown {
	distanceCharge := rate.PerKm * distanceKm
	weightCharge := rate.PerKg * weightKg
	subtotal := distanceCharge + weightCharge
	groupDiscount := subtotal * discountPercent / 100
	taxableBase := subtotal - groupDiscount
	tax := taxableBase * e.taxRatePercent / 100

	return booking.PriceBreakdown{
		DistanceCharge: distanceCharge,
		WeightCharge:   weightCharge,
		GroupDiscount:  groupDiscount,
		Tax:            tax,
		Total:          taxableBase + tax,
	}
}

// BuildQuote assembles the complete RouteQuote for a draft's endpoints,
// weight, and selection. This is what the orchestrator stores on the draft
// and later snapshots onto the order.
func (e PricingEngine) BuildQuote(
	pickup, delivery address.Address,
	weightKg float64,
	selection booking.RateSelection,
) (booking.RouteQuote, error) {
	if err := selection.Validate(); err != nil {
		return booking.RouteQuote{}, err
	}

	distanceKm := e.DistanceKm(pickup, delivery)
	breakdown := e.Quote(distanceKm, weightKg, selection.Rate(), selection.DiscountPercent())

	return booking.NewRouteQuote(distanceKm, e.EstimateEtaDays(distanceKm), selection.Label(), breakdown)
}
