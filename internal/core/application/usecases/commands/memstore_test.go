package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"orderops/internal/core/application/usecases/commands"
	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/notification"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"
	"orderops/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory order store whose Update is a compare-and-set on
// the version, like the postgres repository. Writes are applied immediately;
// Rollback does not undo them.
type memStore struct {
	mu            sync.Mutex
	orders        map[string]order.Snapshot
	outbox        []order.StatusChange
	notifications []*notification.StockWaitNotification
	// beforeUpdate, when set, runs before each compare-and-set.
	beforeUpdate func()
}

func newMemStore(t *testing.T, snapshots ...order.Snapshot) *memStore {
	t.Helper()
	s := &memStore{orders: make(map[string]order.Snapshot)}
	for _, snap := range snapshots {
		s.orders[snap.ID.String()] = snap
	}
	return s
}

func (s *memStore) Create() commands.UoW {
	return &memUoW{store: s}
}

func (s *memStore) order(t *testing.T, id string) *order.Order {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := order.RestoreOrder(s.orders[id])
	require.NoError(t, err)
	return o
}

func (s *memStore) setBeforeUpdate(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeUpdate = hook
}

func (s *memStore) outboxLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outbox)
}

type memUoW struct {
	store *memStore
}

// Begin and Commit fail on a done context, as a database transaction does.
func (u *memUoW) Begin(ctx context.Context) error  { return ctx.Err() }
func (u *memUoW) Commit(ctx context.Context) error { return ctx.Err() }
func (u *memUoW) Rollback(context.Context) error   { return nil }

func (u *memUoW) OrderRepository() ports.OrderRepository {
	return memOrders{store: u.store}
}

func (u *memUoW) NotificationRepository() ports.NotificationRepository {
	return memNotifications{store: u.store}
}

func (u *memUoW) OutboxRepository() ports.OutboxRepository {
	return memOutbox{store: u.store}
}

type memOrders struct{ store *memStore }

func (r memOrders) Get(_ context.Context, id kernel.OrderID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(snap)
}

func (r memOrders) GetMany(ctx context.Context, ids []kernel.OrderID) ([]*order.Order, []ports.UnreadableOrder, error) {
	var out []*order.Order
	for _, id := range ids {
		if o, err := r.Get(ctx, id); err == nil {
			out = append(out, o)
		}
	}
	return out, nil, nil
}

func (r memOrders) Update(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	hook := r.store.beforeUpdate
	r.store.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.orders[o.ID().String()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID().String())
	}
	if stored.Version != o.Version() {
		return errs.NewVersionConflictError("order", o.ID().String(), o.Version())
	}
	r.store.orders[o.ID().String()] = order.Snapshot{
		ID:                o.ID(),
		Customer:          o.Customer(),
		OrderedAt:         o.OrderedAt(),
		Total:             o.Total(),
		PaymentStatus:     o.PaymentStatus(),
		FulfillmentStatus: o.FulfillmentStatus(),
		Metadata:          o.Metadata(),
		Items:             o.Items(),
		Version:           o.Version() + 1,
	}
	return nil
}

type memNotifications struct{ store *memStore }

func (r memNotifications) Add(_ context.Context, n *notification.StockWaitNotification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications = append(r.store.notifications, n)
	return nil
}

// Update is a no-op: the store keeps the notification pointers it was given.
func (r memNotifications) Update(context.Context, *notification.StockWaitNotification) error {
	return nil
}

func (r memNotifications) GetDue(context.Context, time.Time, int) ([]*notification.StockWaitNotification, error) {
	return nil, nil
}

func (r memNotifications) GetPendingByOrder(
	_ context.Context,
	orderID kernel.OrderID,
) ([]*notification.StockWaitNotification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*notification.StockWaitNotification
	for _, n := range r.store.notifications {
		if n.OrderID() == orderID && n.Status() == notification.Pending {
			out = append(out, n)
		}
	}
	return out, nil
}

type memOutbox struct{ store *memStore }

func (r memOutbox) Add(_ context.Context, changes ...order.StatusChange) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.outbox = append(r.store.outbox, changes...)
	return nil
}

func (r memOutbox) FetchPending(context.Context, int) ([]ports.OutboxMessage, error) {
	return nil, nil
}

func (r memOutbox) MarkSent(context.Context, []kernel.UUID, time.Time) error {
	return nil
}
