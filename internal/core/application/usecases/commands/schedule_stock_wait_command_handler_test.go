package commands_test

import (
	"testing"
	"time"

	"orderops/internal/core/application/usecases/commands"
	"orderops/internal/core/domain/model/notification"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockWaitHandler(factory commands.UoWFactory) commands.ScheduleStockWaitCommandHandler {
	return commands.NewScheduleStockWaitCommandHandler(
		factory,
		services.NewStockDateResolver(time.UTC),
		testClock,
		commands.TransitionOptions{},
		nil,
	)
}

func TestScheduleStockWaitCommandHandler_Handle(t *testing.T) {
	t.Run("should set stock wait and schedule a notification", func(t *testing.T) {
		// Given
		store := newMemStore(t,
			newSnapshot(t, "A", order.NotFulfilled, "a@example.com"),
			newSnapshot(t, "B", order.Fulfilled, "b@example.com"),
		)
		cmd, err := commands.NewScheduleStockWaitCommand(orderIDs("A", "B"), 15, 1)
		require.NoError(t, err)

		// When
		result, err := newStockWaitHandler(store).Handle(t.Context(), cmd)

		// Then
		require.NoError(t, err)
		assert.Equal(t, orderIDs("A", "B"), result.Succeeded)

		a := store.order(t, "A")
		assert.Equal(t, order.StockWait, a.ProductionStatus())
		assert.Equal(t, "2026-01-15", a.Metadata()[order.MetaStockAvailableDate])
		assert.Equal(t, "Espera de Stock", a.ProductionStatusDisplay())

		require.Len(t, store.notifications, 2)
		n := store.notifications[0]
		assert.Equal(t, notification.Pending, n.Status())
		assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), n.AvailableOn())
		assert.Contains(t, []string{"a@example.com", "b@example.com"}, n.Recipient())
		assert.Equal(t, "Lucía García", n.CustomerName())
	})

	t.Run("invalid date fails every id without mutation", func(t *testing.T) {
		factory := new(MockUoWFactory)
		cmd, _ := commands.NewScheduleStockWaitCommand(orderIDs("A", "B"), 31, 2)

		result, err := newStockWaitHandler(factory).Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Empty(t, result.Succeeded)
		require.Len(t, result.Failed, 2)
		for _, f := range result.Failed {
			assert.Equal(t, commands.ReasonInvalidDate, f.Reason)
		}
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("out of range month is an invalid date", func(t *testing.T) {
		factory := new(MockUoWFactory)
		cmd, _ := commands.NewScheduleStockWaitCommand(orderIDs("A"), 1, 13)

		result, err := newStockWaitHandler(factory).Handle(t.Context(), cmd)

		require.NoError(t, err)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, commands.ReasonInvalidDate, result.Failed[0].Reason)
	})

	t.Run("orders without email still succeed", func(t *testing.T) {
		store := newMemStore(t, newSnapshot(t, "A", order.NotFulfilled, ""))
		cmd, _ := commands.NewScheduleStockWaitCommand(orderIDs("A"), 15, 1)

		result, err := newStockWaitHandler(store).Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, orderIDs("A"), result.Succeeded)
		require.Len(t, store.notifications, 1)
		assert.Equal(t, notification.Failed, store.notifications[0].Status())
		assert.Equal(t, notification.ReasonNoRecipient, store.notifications[0].LastError())
	})

	t.Run("unknown ids fail with not-found", func(t *testing.T) {
		store := newMemStore(t)
		cmd, _ := commands.NewScheduleStockWaitCommand(orderIDs("missing"), 15, 1)

		result, err := newStockWaitHandler(store).Handle(t.Context(), cmd)

		require.NoError(t, err)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, commands.ReasonNotFound, result.Failed[0].Reason)
		assert.Empty(t, store.notifications)
	})

	t.Run("should reject unconstructed command", func(t *testing.T) {
		_, err := newStockWaitHandler(new(MockUoWFactory)).Handle(t.Context(), commands.ScheduleStockWaitCommand{})
		require.ErrorIs(t, err, commands.ErrScheduleStockWaitCommandIsNotConstructed)
	})
}

func TestScheduleStockWaitCommandHandler_RescheduleReplacesPendingEmail(t *testing.T) {
	// Given
	store := newMemStore(t, newSnapshot(t, "A", order.NotFulfilled, "a@example.com"))
	first, err := commands.NewScheduleStockWaitCommand(orderIDs("A"), 15, 1)
	require.NoError(t, err)
	_, err = newStockWaitHandler(store).Handle(t.Context(), first)
	require.NoError(t, err)

	second, err := commands.NewScheduleStockWaitCommand(orderIDs("A"), 20, 2)
	require.NoError(t, err)

	// When
	result, err := newStockWaitHandler(store).Handle(t.Context(), second)

	// Then
	require.NoError(t, err)
	assert.Equal(t, orderIDs("A"), result.Succeeded)
	require.Len(t, store.notifications, 2)
	assert.Equal(t, notification.Cancelled, store.notifications[0].Status())
	assert.Equal(t, notification.ReasonRescheduled, store.notifications[0].LastError())
	assert.Equal(t, notification.Pending, store.notifications[1].Status())
	assert.Equal(t, time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), store.notifications[1].AvailableOn())
}
