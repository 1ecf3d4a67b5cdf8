package queries_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"orderops/internal/core/application/usecases/queries"
	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"
	"orderops/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) GetMany(
	ctx context.Context,
	ids []kernel.OrderID,
) ([]*order.Order, []ports.UnreadableOrder, error) {
	args := m.Called(ctx, ids)
	var unreadable []ports.UnreadableOrder
	if v, ok := args.Get(1).([]ports.UnreadableOrder); ok {
		unreadable = v
	}
	if args.Get(0) == nil {
		return nil, unreadable, args.Error(2)
	}
	return args.Get(0).([]*order.Order), unreadable, args.Error(2)
}

// idRenderer writes one line per order id.
type idRenderer struct {
	rendered []*order.Order
	err      error
}

func (r *idRenderer) Render(w io.Writer, orders []*order.Order) error {
	if r.err != nil {
		return r.err
	}
	r.rendered = orders
	for _, o := range orders {
		if _, err := fmt.Fprintln(w, o.ID().String()); err != nil {
			return err
		}
	}
	return nil
}

var fixedClock = ports.ClockFunc(func() time.Time {
	return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
})

func newOrder(t *testing.T, id string) *order.Order {
	t.Helper()
	total, err := kernel.NewMoney(decimal.NewFromInt(10), "EUR")
	require.NoError(t, err)
	o, err := order.RestoreOrder(order.Snapshot{
		ID:                kernel.MustOrderID(id),
		Total:             total,
		FulfillmentStatus: order.NotFulfilled,
	})
	require.NoError(t, err)
	return o
}

func ids(raw ...string) []kernel.OrderID {
	out := make([]kernel.OrderID, 0, len(raw))
	for _, r := range raw {
		out = append(out, kernel.MustOrderID(r))
	}
	return out
}

func TestNewExportTabularQuery(t *testing.T) {
	t.Run("should reject empty selection", func(t *testing.T) {
		_, err := queries.NewExportTabularQuery(nil)
		require.ErrorIs(t, err, kernel.ErrEmptySelection)
	})

	t.Run("should drop duplicates", func(t *testing.T) {
		q, err := queries.NewExportTabularQuery(ids("A", "B", "A"))
		require.NoError(t, err)
		assert.Equal(t, ids("A", "B"), q.IDs())
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		q := queries.ExportTabularQuery{}
		require.ErrorIs(t, q.Validate(), queries.ErrExportTabularQueryIsNotConstructed)
	})
}

func TestExportTabularQueryHandler_Handle(t *testing.T) {
	t.Run("should keep supplied order and warn about missing ids", func(t *testing.T) {
		// Given
		ctx := t.Context()
		selection := ids("A", "B", "missing")
		reader := new(MockOrderReader)
		// The store returns rows in its own order.
		reader.On("GetMany", ctx, selection).Return([]*order.Order{newOrder(t, "B"), newOrder(t, "A")}, nil, nil).Once()
		renderer := &idRenderer{}
		handler := queries.NewExportTabularQueryHandler(reader, renderer, fixedClock, 500)
		query, err := queries.NewExportTabularQuery(selection)
		require.NoError(t, err)

		// When
		resp, err := handler.Handle(ctx, query)

		// Then
		require.NoError(t, err)
		assert.Equal(t, "A\nB\n", string(resp.Body))
		assert.Equal(t, 2, resp.Orders)
		require.Len(t, resp.Warnings, 1)
		assert.Contains(t, resp.Warnings[0], "missing")
		assert.Equal(t, queries.ContentTypeCSV, resp.ContentType)
		assert.Equal(t, "orders-20250301-100000.csv", resp.Filename)
		reader.AssertExpectations(t)
	})

	t.Run("should fail when no id resolves", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("GetMany", ctx, ids("missing")).Return([]*order.Order{}, nil, nil).Once()
		renderer := &idRenderer{}
		handler := queries.NewExportTabularQueryHandler(reader, renderer, fixedClock, 500)
		query, _ := queries.NewExportTabularQuery(ids("missing"))

		_, err := handler.Handle(ctx, query)

		require.ErrorIs(t, err, queries.ErrNoValidOrders)
		assert.Nil(t, renderer.rendered)
	})

	t.Run("should skip unreadable orders with a warning and export the rest", func(t *testing.T) {
		// Given
		ctx := t.Context()
		selection := ids("A", "BAD")
		reader := new(MockOrderReader)
		reader.On("GetMany", ctx, selection).Return(
			[]*order.Order{newOrder(t, "A")},
			[]ports.UnreadableOrder{{ID: "BAD", Err: errors.New("unknown fulfillment status")}},
			nil,
		).Once()
		renderer := &idRenderer{}
		handler := queries.NewExportTabularQueryHandler(reader, renderer, fixedClock, 500)
		query, _ := queries.NewExportTabularQuery(selection)

		// When
		resp, err := handler.Handle(ctx, query)

		// Then
		require.NoError(t, err)
		assert.Equal(t, "A\n", string(resp.Body))
		assert.Equal(t, 1, resp.Orders)
		require.Len(t, resp.Warnings, 1)
		assert.Contains(t, resp.Warnings[0], "BAD")
		assert.Contains(t, resp.Warnings[0], "could not be read")
		assert.Contains(t, resp.Warnings[0], "unknown fulfillment status")
	})

	t.Run("should fail when every order is unreadable", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("GetMany", ctx, ids("BAD")).Return(
			[]*order.Order{},
			[]ports.UnreadableOrder{{ID: "BAD", Err: errors.New("quantity must be positive")}},
			nil,
		).Once()
		renderer := &idRenderer{}
		handler := queries.NewExportTabularQueryHandler(reader, renderer, fixedClock, 500)
		query, _ := queries.NewExportTabularQuery(ids("BAD"))

		_, err := handler.Handle(ctx, query)

		require.ErrorIs(t, err, queries.ErrNoValidOrders)
		assert.Nil(t, renderer.rendered)
	})

	t.Run("should reject oversized batches before reading", func(t *testing.T) {
		reader := new(MockOrderReader)
		handler := queries.NewExportTabularQueryHandler(reader, &idRenderer{}, fixedClock, 2)
		query, _ := queries.NewExportTabularQuery(ids("A", "B", "C"))

		_, err := handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, queries.ErrBatchTooLarge)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		reader.AssertNotCalled(t, "GetMany", mock.Anything, mock.Anything)
	})

	t.Run("should propagate store errors", func(t *testing.T) {
		ctx := t.Context()
		storeErr := errors.New("connection refused")
		reader := new(MockOrderReader)
		reader.On("GetMany", ctx, ids("A")).Return(nil, nil, storeErr).Once()
		handler := queries.NewExportTabularQueryHandler(reader, &idRenderer{}, fixedClock, 500)
		query, _ := queries.NewExportTabularQuery(ids("A"))

		_, err := handler.Handle(ctx, query)

		require.ErrorIs(t, err, storeErr)
	})

	t.Run("should reject unconstructed query", func(t *testing.T) {
		reader := new(MockOrderReader)
		handler := queries.NewExportTabularQueryHandler(reader, &idRenderer{}, fixedClock, 500)

		_, err := handler.Handle(t.Context(), queries.ExportTabularQuery{})

		require.ErrorIs(t, err, queries.ErrExportTabularQueryIsNotConstructed)
		reader.AssertNotCalled(t, "GetMany", mock.Anything, mock.Anything)
	})
}

func TestExportPackingDocumentsQueryHandler_Handle(t *testing.T) {
	t.Run("should render every resolved order", func(t *testing.T) {
		ctx := t.Context()
		selection := ids("A", "B")
		reader := new(MockOrderReader)
		reader.On("GetMany", ctx, selection).Return([]*order.Order{newOrder(t, "A"), newOrder(t, "B")}, nil, nil).Once()
		renderer := &idRenderer{}
		handler := queries.NewExportPackingDocumentsQueryHandler(reader, renderer, fixedClock, 0)
		query, err := queries.NewExportPackingDocumentsQuery(selection)
		require.NoError(t, err)

		resp, err := handler.Handle(ctx, query)

		require.NoError(t, err)
		assert.Equal(t, queries.ContentTypePDF, resp.ContentType)
		assert.True(t, strings.HasSuffix(resp.Filename, ".pdf"))
		assert.Empty(t, resp.Warnings)
		require.Len(t, renderer.rendered, 2)
	})

	t.Run("default cap applies when none is configured", func(t *testing.T) {
		raw := make([]string, queries.DefaultMaxExportBatch+1)
		for i := range raw {
			raw[i] = fmt.Sprintf("order_%d", i)
		}
		reader := new(MockOrderReader)
		handler := queries.NewExportPackingDocumentsQueryHandler(reader, &idRenderer{}, fixedClock, 0)
		query, err := queries.NewExportPackingDocumentsQuery(ids(raw...))
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, queries.ErrBatchTooLarge)
	})

	t.Run("renderer failure is returned", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("GetMany", ctx, ids("A")).Return([]*order.Order{newOrder(t, "A")}, nil, nil).Once()
		handler := queries.NewExportPackingDocumentsQueryHandler(reader, &idRenderer{err: errors.New("font missing")}, fixedClock, 500)
		query, _ := queries.NewExportPackingDocumentsQuery(ids("A"))

		_, err := handler.Handle(ctx, query)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "font missing")
	})
}
