package order

import (
	"fmt"
	"strings"

	"orderops/internal/pkg/errs"
)

// Item metadata keys for customer personalization.
const (
	ItemMetaCustomName   = "custom_name"
	ItemMetaCustomNumber = "custom_number"
)

// Item is an order line. Personalization fields live in its metadata.
type Item struct {
	title     string
	quantity  int
	thumbnail string
	metadata  map[string]any
}

// NewItem validates a line: title is required and quantity must be positive.
func NewItem(title string, quantity int, thumbnail string, metadata map[string]any) (Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Item{}, errs.NewValueIsRequiredError("item title")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"item quantity",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}

	return Item{
		title:     title,
		quantity:  quantity,
		thumbnail: thumbnail,
		metadata:  copyMetadata(metadata),
	}, nil
}

func (i Item) Title() string {
	return i.title
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) Thumbnail() string {
	return i.thumbnail
}

// Metadata returns a copy of the item metadata.
func (i Item) Metadata() map[string]any {
	return copyMetadata(i.metadata)
}

// CustomName returns the personalization name, or "" when absent.
func (i Item) CustomName() string {
	return metadataString(i.metadata, ItemMetaCustomName)
}

// CustomNumber returns the personalization number, or "" when absent.
// Numbers stored as JSON numbers are rendered without a fraction when whole.
func (i Item) CustomNumber() string {
	return metadataString(i.metadata, ItemMetaCustomNumber)
}

func metadataString(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func copyMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
