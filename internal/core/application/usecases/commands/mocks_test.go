package commands_test

import (
	"context"
	"testing"
	"time"

	"orderops/internal/core/application/usecases/commands"
	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/notification"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetMany(
	ctx context.Context,
	ids []kernel.OrderID,
) ([]*order.Order, []ports.UnreadableOrder, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), nil, args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.StockWaitNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.StockWaitNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetDue(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*notification.StockWaitNotification, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.StockWaitNotification), args.Error(1)
}

func (m *MockNotificationRepository) GetPendingByOrder(
	ctx context.Context,
	orderID kernel.OrderID,
) ([]*notification.StockWaitNotification, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.StockWaitNotification), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, changes ...order.StatusChange) error {
	args := m.Called(ctx, changes)
	return args.Error(0)
}

func (m *MockOutboxRepository) FetchPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) MarkSent(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	args := m.Called(ctx, ids, at)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}

func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockNotificationUoWFactory struct{ mock.Mock }

func (m *MockNotificationUoWFactory) Create() commands.NotificationUoW {
	args := m.Called()
	return args.Get(0).(commands.NotificationUoW)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	args := m.Called()
	return args.Get(0).(commands.OutboxUoW)
}

type MockEmailSender struct{ mock.Mock }

func (m *MockEmailSender) SendStockWaitEmail(ctx context.Context, email ports.StockWaitEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, messages []ports.OutboxMessage) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

var testClock = ports.ClockFunc(func() time.Time { return testNow })

func orderIDs(raw ...string) []kernel.OrderID {
	ids := make([]kernel.OrderID, 0, len(raw))
	for _, r := range raw {
		ids = append(ids, kernel.MustOrderID(r))
	}
	return ids
}

func newSnapshot(t *testing.T, id string, fulfillment order.FulfillmentStatus, email string) order.Snapshot {
	t.Helper()
	total, err := kernel.NewMoney(decimal.RequireFromString("25.00"), "EUR")
	require.NoError(t, err)
	customer := order.NewCustomer("Lucía", "García", email)
	return order.Snapshot{
		ID:                kernel.MustOrderID(id),
		Customer:          &customer,
		OrderedAt:         testNow.Add(-48 * time.Hour),
		Total:             total,
		PaymentStatus:     order.PaymentCaptured,
		FulfillmentStatus: fulfillment,
		Version:           1,
	}
}

func newTestOrder(t *testing.T, id string, fulfillment order.FulfillmentStatus) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(newSnapshot(t, id, fulfillment, "lucia@example.com"))
	require.NoError(t, err)
	return o
}
