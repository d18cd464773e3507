package services_test

import (
	"testing"

	"shipbook/internal/core/domain/model/address"
	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addressAt(t *testing.T, city string, lat, lng float64) address.Address {
	t.Helper()
	a, err := address.NewAddress("1 Main St", city, "", "600001")
	require.NoError(t, err)
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	a, err = a.WithGeo(p)
	require.NoError(t, err)
	return a
}

func TestPricingEngine_DistanceKm(t *testing.T) {
	engine := services.NewPricingEngine()

	t.Run("chennai_to_bangalore", func(t *testing.T) {
		pickup := addressAt(t, "Chennai", 13.08, 80.27)
		delivery := addressAt(t, "Bangalore", 12.97, 77.59)

		d := engine.DistanceKm(pickup, delivery)
		assert.InDelta(t, 290, d, 5)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := addressAt(t, "Chennai", 13.08, 80.27)
		b := addressAt(t, "Bangalore", 12.97, 77.59)

		assert.InDelta(t, engine.DistanceKm(a, b), engine.DistanceKm(b, a), 1e-9)
	})

	t.Run("missing_coordinates_fall_back", func(t *testing.T) {
		located := addressAt(t, "Chennai", 13.08, 80.27)
		unlocated, err := address.NewAddress("1 Main St", "Bangalore", "", "560001")
		require.NoError(t, err)

		assert.InDelta(t, services.DefaultFallbackDistanceKm, engine.DistanceKm(located, unlocated), 1e-9)
		assert.InDelta(t, services.DefaultFallbackDistanceKm, engine.DistanceKm(unlocated, located), 1e-9)
	})
}

func TestPricingEngine_EstimateEtaDays(t *testing.T) {
	engine := services.NewPricingEngine()

	tests := []struct {
		distanceKm float64
		want       string
	}{
		{0, "1"},
		{99.9, "1"},
		{100, "1-2"},
		{290, "1-2"},
		{300, "2-3"},
		{499, "2-3"},
		{500, "3-5"},
		{1200, "3-5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.EstimateEtaDays(tt.distanceKm), "distance %v", tt.distanceKm)
	}
}

func TestPricingEngine_Quote_ChennaiBangaloreScenario(t *testing.T) {
	engine := services.NewPricingEngine()
	rate := booking.Rate{PerKm: 10, PerKg: 40}

	t.Run("no_discount", func(t *testing.T) {
		b := engine.Quote(290, 2, rate, 0)

		assert.InDelta(t, 2900, b.DistanceCharge, 1e-9)
		assert.InDelta(t, 80, b.WeightCharge, 1e-9)
		assert.InDelta(t, 0, b.GroupDiscount, 1e-9)
		assert.InDelta(t, 536.4, b.Tax, 1e-9)
		assert.InDelta(t, 3516.4, b.Total, 1e-9)
	})

	t.Run("twenty_percent_group_discount", func(t *testing.T) {
		b := engine.Quote(290, 2, rate, 20)

		assert.InDelta(t, 596, b.GroupDiscount, 1e-9)
		assert.InDelta(t, 429.12, b.Tax, 1e-9)
		assert.InDelta(t, 2813.12, b.Total, 1e-9)
	})
}

func TestPricingEngine_Quote_Properties(t *testing.T) {
	engine := services.NewPricingEngine()
	rate := booking.Rate{PerKm: 10, PerKg: 40}

	t.Run("total_never_negative", func(t *testing.T) {
		for _, distance := range []float64{0, 1, 50, 290, 2000} {
			for _, weight := range []float64{0.1, 2, 100} {
				for _, discount := range []float64{0, 20, 100} {
					b := engine.Quote(distance, weight, rate, discount)
					assert.GreaterOrEqual(t, b.Total, 0.0)
				}
			}
		}
	})

	t.Run("total_monotonic_in_distance", func(t *testing.T) {
		prev := engine.Quote(0, 2, rate, 10).Total
		for _, distance := range []float64{10, 50, 290, 600, 1500} {
			cur := engine.Quote(distance, 2, rate, 10).Total
			assert.GreaterOrEqual(t, cur, prev)
			prev = cur
		}
	})

	t.Run("total_monotonic_in_weight", func(t *testing.T) {
		prev := engine.Quote(290, 0.1, rate, 10).Total
		for _, weight := range []float64{1, 2, 10, 100} {
			cur := engine.Quote(290, weight, rate, 10).Total
			assert.GreaterOrEqual(t, cur, prev)
			prev = cur
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		first := engine.Quote(290.1234, 2.5, rate, 15)
		second := engine.Quote(290.1234, 2.5, rate, 15)
		assert.Equal(t, first, second)
	})
}

func TestPriceBreakdown_Rounded(t *testing.T) {
	b := booking.PriceBreakdown{
		DistanceCharge: 2901.2345,
		WeightCharge:   80.005,
		GroupDiscount:  596.126,
		Tax:            429.1249,
		Total:          2813.1151,
	}.Rounded()

	assert.InDelta(t, 2901.23, b.DistanceCharge, 1e-9)
	assert.InDelta(t, 596.13, b.GroupDiscount, 1e-9)
	assert.InDelta(t, 429.12, b.Tax, 1e-9)
	assert.InDelta(t, 2813.12, b.Total, 1e-9)
}

func TestPricingEngine_BuildQuote(t *testing.T) {
	engine := services.NewPricingEngine()
	pickup := addressAt(t, "Chennai", 13.08, 80.27)
	delivery := addressAt(t, "Bangalore", 12.97, 77.59)

	sel, err := booking.NewGroupSelection("grp-42", booking.Rate{PerKm: 10, PerKg: 40}, 20)
	require.NoError(t, err)

	quote, err := engine.BuildQuote(pickup, delivery, 2, sel)
	require.NoError(t, err)

	assert.Equal(t, "1-2", quote.EtaDays())
	assert.Equal(t, "group:grp-42", quote.Selection())
	assert.InDelta(t, 290, quote.DistanceKm(), 5)
	assert.Positive(t, quote.Total())

	t.Run("unconstructed_selection_rejected", func(t *testing.T) {
		var sel booking.RateSelection
		_, err := engine.BuildQuote(pickup, delivery, 2, sel)
		require.Error(t, err)
	})
}
