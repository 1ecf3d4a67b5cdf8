package order

import (
	"errors"
	"time"

	"orderops/internal/core/domain/model/kernel"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via RestoreOrder")
)

// Order metadata keys written by the workflow.
const (
	MetaProductionStatus           = "production_status"
	MetaProductionStatusDisplay    = "production_status_display"
	MetaProductionStatusChangedAt  = "production_status_changed_at"
	MetaFulfillmentStatusChangedAt = "fulfillment_status_changed_at"
	MetaStockAvailableDate         = "stock_available_date"

	// StockAvailableDateLayout is the format of MetaStockAvailableDate.
	StockAvailableDateLayout = "2006-01-02"
)

const (
	metaTimestampLayout   = time.RFC3339
	statusKindProduction  = "production"
	statusKindFulfillment = "fulfillment"
)

// StatusChange records one applied status mutation. The workflow stores them
// in the outbox so downstream consumers see every change.
type StatusChange struct {
	OrderID   kernel.OrderID
	Kind      string
	From      string
	To        string
	ChangedAt time.Time
}

// Order is the aggregate the workflow mutates. Orders are created and owned by
// the external store; this service only rebuilds them with RestoreOrder and
// changes their status fields and metadata.
//
// Invariants:
//   - fulfillment status only moves forward (see FulfillmentStatus)
//   - production status mirrors metadata["production_status"]
//   - every applied change stamps the matching *_changed_at metadata field
//   - version identifies the stored revision for compare-and-set updates
type Order struct {
	id                kernel.OrderID
	customer          *Customer
	orderedAt         time.Time
	total             kernel.Money
	paymentStatus     PaymentStatus
	fulfillmentStatus FulfillmentStatus
	productionStatus  ProductionStatus
	metadata          map[string]any
	items             []Item
	version           int64

	changes       []StatusChange
	isConstructed bool
}

// Snapshot carries the stored state of an order into RestoreOrder.
type Snapshot struct {
	ID                kernel.OrderID
	Customer          *Customer
	OrderedAt         time.Time
	Total             kernel.Money
	PaymentStatus     PaymentStatus
	FulfillmentStatus FulfillmentStatus
	Metadata          map[string]any
	Items             []Item
	Version           int64
}

// RestoreOrder rebuilds an aggregate from persistence. The production status
// is read from metadata.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.FulfillmentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	metadata := copyMetadata(s.Metadata)
	production := ProductionStatus(metadataString(metadata, MetaProductionStatus))

	var customer *Customer
	if s.Customer != nil {
		c := *s.Customer
		customer = &c
	}

	items := make([]Item, len(s.Items))
	copy(items, s.Items)

	payment := s.PaymentStatus
	if payment == "" {
		payment = PaymentUnknown
	}

	return &Order{
		id:                s.ID,
		customer:          customer,
		orderedAt:         s.OrderedAt,
		total:             s.Total,
		paymentStatus:     payment,
		fulfillmentStatus: s.FulfillmentStatus,
		productionStatus:  production,
		metadata:          metadata,
		items:             items,
		version:           s.Version,
		isConstructed:     true,
	}, nil
}

// Validate ensures the Order was built through RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.OrderID {
	return o.id
}

// Customer returns the buyer snapshot, or nil for guest orders without one.
func (o *Order) Customer() *Customer {
	if o.customer == nil {
		return nil
	}
	c := *o.customer
	return &c
}

func (o *Order) OrderedAt() time.Time {
	return o.orderedAt
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *Order) FulfillmentStatus() FulfillmentStatus {
	return o.fulfillmentStatus
}

func (o *Order) ProductionStatus() ProductionStatus {
	return o.productionStatus
}

// ProductionStatusDisplay returns the stored display label, falling back to
// the label derived from the production status.
func (o *Order) ProductionStatusDisplay() string {
	if label := metadataString(o.metadata, MetaProductionStatusDisplay); label != "" {
		return label
	}
	return o.productionStatus.DisplayLabel()
}

// Metadata returns a copy of the order metadata.
func (o *Order) Metadata() map[string]any {
	return copyMetadata(o.metadata)
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) Version() int64 {
	return o.version
}

// StockAvailableDate returns the scheduled stock date, if one was recorded.
func (o *Order) StockAvailableDate() (time.Time, bool) {
	raw := metadataString(o.metadata, MetaStockAvailableDate)
	if raw == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(StockAvailableDateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ChangeFulfillmentStatus moves the order forward to target. It reports
// whether anything changed; re-applying the current status is a no-op.
// Backward moves fail with a cause matching ErrInvalidTransition and leave
// the order untouched.
func (o *Order) ChangeFulfillmentStatus(target FulfillmentStatus, at time.Time) (bool, error) {
	next, changed, err := o.fulfillmentStatus.TransitionTo(target)
	if err != nil || !changed {
		return false, err
	}

	from := o.fulfillmentStatus
	o.fulfillmentStatus = next
	o.metadata[MetaFulfillmentStatusChangedAt] = at.UTC().Format(metaTimestampLayout)
	o.record(statusKindFulfillment, from.String(), next.String(), at)
	return true, nil
}

// ChangeProductionStatus sets the production label. Any known label, or
// ProductionNone, is accepted from any current label. Setting the current
// label again is a no-op. Leaving StockWait drops the stock date.
func (o *Order) ChangeProductionStatus(target ProductionStatus, at time.Time) (bool, error) {
	if err := target.Validate(); err != nil {
		return false, err
	}
	if target == o.productionStatus {
		return false, nil
	}

	from := o.productionStatus
	o.productionStatus = target
	if target.IsNone() {
		delete(o.metadata, MetaProductionStatus)
	} else {
		o.metadata[MetaProductionStatus] = target.String()
	}
	if target != StockWait {
		delete(o.metadata, MetaStockAvailableDate)
	}
	o.metadata[MetaProductionStatusDisplay] = target.DisplayLabel()
	o.metadata[MetaProductionStatusChangedAt] = at.UTC().Format(metaTimestampLayout)
	o.record(statusKindProduction, from.String(), target.String(), at)
	return true, nil
}

// ScheduleStockWait records the date stock is expected and moves the order to
// StockWait. Rescheduling an order already waiting updates the date.
func (o *Order) ScheduleStockWait(availableOn time.Time, at time.Time) error {
	changed, err := o.ChangeProductionStatus(StockWait, at)
	if err != nil {
		return err
	}

	date := availableOn.Format(StockAvailableDateLayout)
	if !changed && metadataString(o.metadata, MetaStockAvailableDate) != date {
		o.metadata[MetaProductionStatusChangedAt] = at.UTC().Format(metaTimestampLayout)
	}
	o.metadata[MetaStockAvailableDate] = date
	return nil
}

// PullChanges returns the status changes applied since the last call and
// clears them.
func (o *Order) PullChanges() []StatusChange {
	changes := o.changes
	o.changes = nil
	return changes
}

func (o *Order) record(kind, from, to string, at time.Time) {
	o.changes = append(o.changes, StatusChange{
		OrderID:   o.id,
		Kind:      kind,
		From:      from,
		To:        to,
		ChangedAt: at.UTC(),
	})
}
