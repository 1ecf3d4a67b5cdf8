package order

import (
	"errors"
	"fmt"
	"strings"

	"orderops/internal/pkg/errs"
)

// ErrInvalidTransition is the cause carried by errors for transitions the
// fulfillment state machine forbids.
var ErrInvalidTransition = errors.New("invalid transition")

// FulfillmentStatus is the shipment stage of an order. Values are totally
// ordered and may only move forward:
//
//	NotFulfilled ──> Fulfilled ──> Delivered
//	      └──────────────────────────┘
//	        (skipping a stage is allowed)
//
// Re-applying the current value is an accepted no-op.
type FulfillmentStatus int

const (
	// FulfillmentUnknown is the zero value and never valid.
	FulfillmentUnknown FulfillmentStatus = iota
	NotFulfilled
	Fulfilled
	Delivered
)

func getFulfillmentStatusStrings() map[FulfillmentStatus]string {
	return map[FulfillmentStatus]string{
		NotFulfilled: "not_fulfilled",
		Fulfilled:    "fulfilled",
		Delivered:    "delivered",
	}
}

func getFulfillmentStatusLabels() map[FulfillmentStatus]string {
	return map[FulfillmentStatus]string{
		NotFulfilled: "Pendiente",
		Fulfilled:    "Enviado",
		Delivered:    "Entregado",
	}
}

// ParseFulfillmentStatus maps the store representation to a status.
func ParseFulfillmentStatus(s string) (FulfillmentStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for status, str := range getFulfillmentStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return FulfillmentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"fulfillment status",
		fmt.Errorf("%q is not a valid fulfillment status", s),
	)
}

// Validate rejects FulfillmentUnknown and out-of-range values.
func (s FulfillmentStatus) Validate() error {
	if _, ok := getFulfillmentStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"fulfillment status",
			fmt.Errorf("%d is not a valid fulfillment status", s),
		)
	}
	return nil
}

// String returns the store representation, or "unknown".
func (s FulfillmentStatus) String() string {
	if str, ok := getFulfillmentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Label returns the operator-facing label.
func (s FulfillmentStatus) Label() string {
	if label, ok := getFulfillmentStatusLabels()[s]; ok {
		return label
	}
	return "Desconocido"
}

// TransitionTo checks a move from s to target. It returns the resulting
// status and whether it differs from s.
//
// Rules:
//   - target must be a valid status
//   - target == s is a no-op and succeeds
//   - target < s fails with a cause matching ErrInvalidTransition
func (s FulfillmentStatus) TransitionTo(target FulfillmentStatus) (FulfillmentStatus, bool, error) {
	if err := target.Validate(); err != nil {
		return s, false, err
	}
	if err := s.Validate(); err != nil {
		return s, false, err
	}

	switch {
	case target == s:
		return s, false, nil
	case target < s:
		return s, false, errs.NewValueIsInvalidErrorWithCause(
			"fulfillment status",
			fmt.Errorf("%w: %s cannot move back to %s", ErrInvalidTransition, s, target),
		)
	default:
		return target, true, nil
	}
}
