package commands_test

import (
	"errors"
	"testing"

	"orderops/internal/core/application/usecases/commands"
	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOutboxMessage(orderID string) ports.OutboxMessage {
	return ports.OutboxMessage{
		ID: kernel.NewUUID(),
		Change: order.StatusChange{
			OrderID:   kernel.MustOrderID(orderID),
			Kind:      "fulfillment",
			From:      "not_fulfilled",
			To:        "fulfilled",
			ChangedAt: testNow,
		},
		CreatedAt: testNow,
	}
}

func TestRelayOutboxCommandHandler_Handle_Success(t *testing.T) {
	// Given
	ctx := t.Context()
	messages := []ports.OutboxMessage{newOutboxMessage("A"), newOutboxMessage("B")}
	cmd, err := commands.NewRelayOutboxCommand(100)
	require.NoError(t, err)

	outbox := new(MockOutboxRepository)
	uow := new(MockUoW)
	factory := new(MockOutboxUoWFactory)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OutboxRepository").Return(outbox).Once(),
		outbox.On("FetchPending", ctx, 100).Return(messages, nil).Once(),
		publisher.On("Publish", ctx, messages).Return(nil).Once(),
		outbox.On("MarkSent", ctx, []kernel.UUID{messages[0].ID, messages[1].ID}, testNow).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	// When
	published, err := commands.NewRelayOutboxCommandHandler(factory, publisher, testClock).Handle(ctx, cmd)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 2, published)
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	outbox.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRelayOutboxCommandHandler_Handle_NothingPending(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewRelayOutboxCommand(100)

	outbox := new(MockOutboxRepository)
	uow := new(MockUoW)
	factory := new(MockOutboxUoWFactory)
	publisher := new(MockEventPublisher)
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OutboxRepository").Return(outbox).Once()
	outbox.On("FetchPending", ctx, 100).Return([]ports.OutboxMessage{}, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	published, err := commands.NewRelayOutboxCommandHandler(factory, publisher, testClock).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, published)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRelayOutboxCommandHandler_Handle_PublishError(t *testing.T) {
	ctx := t.Context()
	messages := []ports.OutboxMessage{newOutboxMessage("A")}
	cmd, _ := commands.NewRelayOutboxCommand(100)

	outbox := new(MockOutboxRepository)
	uow := new(MockUoW)
	factory := new(MockOutboxUoWFactory)
	publisher := new(MockEventPublisher)
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OutboxRepository").Return(outbox).Once()
	outbox.On("FetchPending", ctx, 100).Return(messages, nil).Once()
	publisher.On("Publish", ctx, messages).Return(errors.New("leader not available")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	_, err := commands.NewRelayOutboxCommandHandler(factory, publisher, testClock).Handle(ctx, cmd)

	require.Error(t, err)
	outbox.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestNewRelayOutboxCommand_InvalidBatch(t *testing.T) {
	_, err := commands.NewRelayOutboxCommand(-1)
	require.Error(t, err)

	cmd := commands.RelayOutboxCommand{}
	require.ErrorIs(t, cmd.Validate(), commands.ErrRelayOutboxCommandIsNotConstructed)
}
