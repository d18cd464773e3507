package order_test

import (
	"testing"

	"shipbook/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Pending", order.Pending.String())
	assert.Equal(t, "Confirmed", order.Confirmed.String())
	assert.Equal(t, "Cancelled", order.Cancelled.String())
	assert.Equal(t, "Unknown", order.Unknown.String())
	assert.Equal(t, "Unknown", order.Status(42).String())
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, order.Pending.Validate())
	require.NoError(t, order.Confirmed.Validate())
	require.NoError(t, order.Cancelled.Validate())
	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(42).Validate())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, order.Pending.IsTerminal())
	assert.True(t, order.Confirmed.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
}

func TestStatus_Confirm(t *testing.T) {
	t.Run("pending_confirms", func(t *testing.T) {
		next, err := order.Pending.Confirm()
		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, next)
	})

	t.Run("confirmed_reconfirms_as_noop", func(t *testing.T) {
		next, err := order.Confirmed.Confirm()
		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, next)
	})

	t.Run("cancelled_cannot_confirm", func(t *testing.T) {
		_, err := order.Cancelled.Confirm()
		require.Error(t, err)
	})
}

func TestStatus_Cancel(t *testing.T) {
	t.Run("pending_cancels", func(t *testing.T) {
		next, err := order.Pending.Cancel()
		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, next)
	})

	t.Run("cancelled_recancels_as_noop", func(t *testing.T) {
		next, err := order.Cancelled.Cancel()
		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, next)
	})

	t.Run("confirmed_cannot_cancel", func(t *testing.T) {
		_, err := order.Confirmed.Cancel()
		require.Error(t, err)
	})
}
