package kernel

import (
	"errors"
	"strings"

	"orderops/internal/pkg/errs"
)

// ErrEmptySelection is returned when a bulk operation is given no order ids.
var ErrEmptySelection = errors.New("selection must contain at least one order id")

// OrderID is the opaque identifier assigned to an order by the external
// order store (e.g. "order_01J9ZK..."). The service never mints order ids;
// it only parses the ones callers send.
type OrderID struct {
	value string
}

// NewOrderID trims surrounding whitespace and rejects empty identifiers.
func NewOrderID(value string) (OrderID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return OrderID{}, errs.NewValueIsRequiredError("order id")
	}
	return OrderID{value: value}, nil
}

// MustOrderID is NewOrderID for literals known to be valid. It panics otherwise.
func MustOrderID(value string) OrderID {
	id, err := NewOrderID(value)
	if err != nil {
		panic(err)
	}
	return id
}

// ParseOrderIDs converts raw ids in order. Duplicates are dropped keeping
// the first occurrence so a selection is always a set.
func ParseOrderIDs(raw []string) ([]OrderID, error) {
	ids := make([]OrderID, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		id, err := NewOrderID(r)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id.value]; ok {
			continue
		}
		seen[id.value] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// NewSelection validates the ids of a bulk operation. Duplicates are dropped
// keeping the first occurrence; an empty selection fails with ErrEmptySelection.
func NewSelection(ids []OrderID) ([]OrderID, error) {
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	selection := make([]OrderID, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[id.value]; ok {
			continue
		}
		seen[id.value] = struct{}{}
		selection = append(selection, id)
	}
	return selection, nil
}

func (id OrderID) String() string {
	return id.value
}

func (id OrderID) IsEqual(other OrderID) bool {
	return id.value == other.value
}

// Validate rejects the zero value.
func (id OrderID) Validate() error {
	if id.value == "" {
		return errs.NewValueIsRequiredError("order id")
	}
	return nil
}
