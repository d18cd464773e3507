package booking_test

import (
	"testing"

	"shipbook/internal/core/domain/model/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarrierSelection(t *testing.T) {
	sel, err := booking.NewCarrierSelection("bluedart", booking.Rate{PerKm: 10, PerKg: 40})
	require.NoError(t, err)

	assert.Equal(t, booking.SelectionCarrier, sel.Kind())
	assert.Equal(t, "bluedart", sel.RefID())
	assert.Zero(t, sel.DiscountPercent())
	assert.Equal(t, "carrier:bluedart", sel.Label())
	require.NoError(t, sel.Validate())
}

func TestNewGroupSelection(t *testing.T) {
	sel, err := booking.NewGroupSelection("grp-42", booking.Rate{PerKm: 10, PerKg: 40}, 20)
	require.NoError(t, err)

	assert.Equal(t, booking.SelectionGroup, sel.Kind())
	assert.InEpsilon(t, 20.0, sel.DiscountPercent(), 1e-9)
	assert.Equal(t, "group:grp-42", sel.Label())
}

func TestNewSelection_Invalid(t *testing.T) {
	t.Run("empty_ref_id", func(t *testing.T) {
		_, err := booking.NewCarrierSelection("", booking.Rate{PerKm: 10, PerKg: 40})
		require.Error(t, err)
	})

	t.Run("negative_rate", func(t *testing.T) {
		_, err := booking.NewCarrierSelection("bluedart", booking.Rate{PerKm: -1, PerKg: 40})
		require.Error(t, err)
	})

	t.Run("discount_over_100", func(t *testing.T) {
		_, err := booking.NewGroupSelection("grp-42", booking.Rate{PerKm: 10, PerKg: 40}, 120)
		require.Error(t, err)
	})

	t.Run("negative_discount", func(t *testing.T) {
		_, err := booking.NewGroupSelection("grp-42", booking.Rate{PerKm: 10, PerKg: 40}, -5)
		require.Error(t, err)
	})
}

func TestRateSelection_ZeroValueFailsValidation(t *testing.T) {
	var sel booking.RateSelection
	require.Error(t, sel.Validate())
}
