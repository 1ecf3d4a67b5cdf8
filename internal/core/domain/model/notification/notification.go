// Package notification provides the StockWaitNotification aggregate: the
// customer email promised when an order is put on backorder.
//
// A notification references its order by id only. Delivery is retried with
// exponential backoff until it is sent or runs out of attempts:
//
//	Pending ──> Sent
//	   │
//	   ├──> Failed (no recipient, or attempts exhausted)
//	   │
//	   └──> Cancelled (order left stock wait or was rescheduled)
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/pkg/errs"
)

var (
	ErrNotificationIsNotConstructed = errors.New("StockWaitNotification must be created via NewStockWaitNotification")
	ErrNotificationIsNotPending     = errors.New("notification is not pending")
)

// ReasonNoRecipient is the last error recorded for orders without a customer email.
const ReasonNoRecipient = "no-recipient"

// Cancellation reasons recorded as the last error.
const (
	ReasonLeftStockWait = "order-left-stock-wait"
	ReasonRescheduled   = "rescheduled"
)

// MaxBackoff caps the delay between two delivery attempts.
const MaxBackoff = 24 * time.Hour

// Status is the delivery state of a notification.
type Status string

const (
	Pending   Status = "pending"
	Sent      Status = "sent"
	Failed    Status = "failed"
	Cancelled Status = "cancelled"
)

func (s Status) Validate() error {
	switch s {
	case Pending, Sent, Failed, Cancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("notification status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}

// StockWaitNotification tells a customer when a backordered order's stock is expected.
type StockWaitNotification struct {
	id            kernel.UUID
	orderID       kernel.OrderID
	recipient     string
	customerName  string
	availableOn   time.Time
	status        Status
	attempts      int
	nextAttemptAt time.Time
	lastError     string
	createdAt     time.Time
	sentAt        *time.Time

	isConstructed bool
}

// NewStockWaitNotification creates a pending notification due immediately.
// Without a recipient the notification is created already Failed with
// ReasonNoRecipient so the order still carries an auditable record.
func NewStockWaitNotification(
	orderID kernel.OrderID,
	recipient, customerName string,
	availableOn, now time.Time,
) (*StockWaitNotification, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if availableOn.IsZero() {
		return nil, errs.NewValueIsRequiredError("stock available date")
	}

	n := &StockWaitNotification{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		recipient:     strings.TrimSpace(recipient),
		customerName:  strings.TrimSpace(customerName),
		availableOn:   availableOn,
		status:        Pending,
		nextAttemptAt: now,
		createdAt:     now,
		isConstructed: true,
	}
	if n.recipient == "" {
		n.status = Failed
		n.lastError = ReasonNoRecipient
	}
	return n, nil
}

// Snapshot carries stored state into Restore.
type Snapshot struct {
	ID            kernel.UUID
	OrderID       kernel.OrderID
	Recipient     string
	CustomerName  string
	AvailableOn   time.Time
	Status        Status
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
	SentAt        *time.Time
}

// Restore rebuilds a notification from persistence.
func Restore(s Snapshot) (*StockWaitNotification, error) {
	if err := errors.Join(s.ID.Validate(), s.OrderID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	return &StockWaitNotification{
		id:            s.ID,
		orderID:       s.OrderID,
		recipient:     s.Recipient,
		customerName:  s.CustomerName,
		availableOn:   s.AvailableOn,
		status:        s.Status,
		attempts:      s.Attempts,
		nextAttemptAt: s.NextAttemptAt,
		lastError:     s.LastError,
		createdAt:     s.CreatedAt,
		sentAt:        s.SentAt,
		isConstructed: true,
	}, nil
}

func (n *StockWaitNotification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *StockWaitNotification) ID() kernel.UUID { return n.id }
func (n *StockWaitNotification) OrderID() kernel.OrderID { return n.orderID }
func (n *StockWaitNotification) Recipient() string { return n.recipient }
func (n *StockWaitNotification) CustomerName() string { return n.customerName }
func (n *StockWaitNotification) AvailableOn() time.Time { return n.availableOn }
func (n *StockWaitNotification) Status() Status { return n.status }
func (n *StockWaitNotification) Attempts() int { return n.attempts }
func (n *StockWaitNotification) NextAttemptAt() time.Time { return n.nextAttemptAt }
func (n *StockWaitNotification) LastError() string { return n.lastError }
func (n *StockWaitNotification) CreatedAt() time.Time { return n.createdAt }
func (n *StockWaitNotification) SentAt() *time.Time { return n.sentAt }

// IsDue reports whether a pending notification may be attempted at now.
func (n *StockWaitNotification) IsDue(now time.Time) bool {
	return n.status == Pending && !now.Before(n.nextAttemptAt)
}

// Cancel withdraws a pending notification so it is never sent. reason is
// kept as the last error.
func (n *StockWaitNotification) Cancel(reason string) error {
	if n.status != Pending {
		return ErrNotificationIsNotPending
	}
	n.status = Cancelled
	n.lastError = reason
	return nil
}

// MarkSent records a successful delivery.
func (n *StockWaitNotification) MarkSent(now time.Time) error {
	if n.status != Pending {
		return ErrNotificationIsNotPending
	}
	n.status = Sent
	n.attempts++
	n.lastError = ""
	n.sentAt = &now
	return nil
}

// MarkAttemptFailed records a failed delivery. The next attempt is scheduled
// after base * 2^(attempts-1), capped at MaxBackoff; once maxAttempts is
// reached the notification becomes Failed.
func (n *StockWaitNotification) MarkAttemptFailed(cause error, now time.Time, base time.Duration, maxAttempts int) error {
	if n.status != Pending {
		return ErrNotificationIsNotPending
	}

	n.attempts++
	if cause != nil {
		n.lastError = cause.Error()
	}
	if n.attempts >= maxAttempts {
		n.status = Failed
		return nil
	}

	n.nextAttemptAt = now.Add(backoffDelay(base, n.attempts))
	return nil
}

func backoffDelay(base time.Duration, attempts int) time.Duration {
	delay := base
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= MaxBackoff {
			return MaxBackoff
		}
	}
	if delay > MaxBackoff {
		return MaxBackoff
	}
	return delay
}
