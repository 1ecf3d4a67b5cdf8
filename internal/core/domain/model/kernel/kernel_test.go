package kernel_test

import (
	"testing"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderID(t *testing.T) {
	t.Run("should trim and accept opaque ids", func(t *testing.T) {
		id, err := kernel.NewOrderID("  order_01J9ZK  ")

		require.NoError(t, err)
		assert.Equal(t, "order_01J9ZK", id.String())
		require.NoError(t, id.Validate())
	})

	t.Run("should reject blank ids", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "\t"} {
			_, err := kernel.NewOrderID(raw)
			require.ErrorIs(t, err, errs.ErrValueIsRequired)
		}
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var id kernel.OrderID
		require.ErrorIs(t, id.Validate(), errs.ErrValueIsRequired)
	})
}

func TestParseOrderIDs(t *testing.T) {
	t.Run("should keep order and drop duplicates", func(t *testing.T) {
		ids, err := kernel.ParseOrderIDs([]string{"b", "a", "b", " a ", "c"})

		require.NoError(t, err)
		require.Len(t, ids, 3)
		assert.Equal(t, "b", ids[0].String())
		assert.Equal(t, "a", ids[1].String())
		assert.Equal(t, "c", ids[2].String())
	})

	t.Run("should fail on any blank id", func(t *testing.T) {
		_, err := kernel.ParseOrderIDs([]string{"a", ""})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("empty input gives empty selection", func(t *testing.T) {
		ids, err := kernel.ParseOrderIDs(nil)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestNewSelection(t *testing.T) {
	t.Run("should drop duplicates keeping order", func(t *testing.T) {
		a, b := kernel.MustOrderID("a"), kernel.MustOrderID("b")

		ids, err := kernel.NewSelection([]kernel.OrderID{b, a, b})

		require.NoError(t, err)
		assert.Equal(t, []kernel.OrderID{b, a}, ids)
	})

	t.Run("should reject empty selection", func(t *testing.T) {
		_, err := kernel.NewSelection(nil)
		require.ErrorIs(t, err, kernel.ErrEmptySelection)
	})

	t.Run("should reject zero ids", func(t *testing.T) {
		_, err := kernel.NewSelection([]kernel.OrderID{{}})
		require.Error(t, err)
	})
}

func TestNewMoney(t *testing.T) {
	t.Run("should normalise currency and format", func(t *testing.T) {
		m, err := kernel.NewMoney(decimal.RequireFromString("42.5"), "eur")

		require.NoError(t, err)
		assert.Equal(t, "EUR", m.Currency())
		assert.Equal(t, "42.50 EUR", m.String())
		assert.False(t, m.IsZero())
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(decimal.NewFromInt(-1), "EUR")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject malformed currency", func(t *testing.T) {
		_, err := kernel.NewMoney(decimal.NewFromInt(1), "EURO")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestUUID(t *testing.T) {
	t.Run("new ids are valid and distinct", func(t *testing.T) {
		a, b := kernel.NewUUID(), kernel.NewUUID()

		require.NoError(t, a.Validate())
		assert.False(t, a.IsEqual(b))
	})

	t.Run("round trips through string", func(t *testing.T) {
		a := kernel.NewUUID()
		b, err := kernel.UUIDFromString(a.String())

		require.NoError(t, err)
		assert.True(t, a.IsEqual(b))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var u kernel.UUID
		require.ErrorIs(t, u.Validate(), kernel.ErrUUIDIsNotConstructed)
	})
}
