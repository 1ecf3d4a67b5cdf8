// Package csvexport renders orders as a spreadsheet-friendly CSV document.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"orderops/internal/core/domain/model/order"
)

const (
	// utf8BOM makes spreadsheet applications detect the encoding of names
	// with accents.
	utf8BOM = "\ufeff"

	itemSeparator = " | "
	emptyCell     = "-"
	dateLayout    = "2006-01-02 15:04"
)

func getHeader() []string {
	return []string{
		"order_id",
		"ordered_at",
		"customer",
		"email",
		"items",
		"custom_names",
		"custom_numbers",
		"total",
		"currency",
		"payment_status",
		"fulfillment_status",
		"production_status",
		"production_status_display",
		"stock_available_date",
	}
}

// Renderer implements ports.OrderRenderer with one row per order. Item lines
// are flattened into one cell; the personalization cells hold one entry per
// item, in the same order, so they line up with the items cell.
type Renderer struct {
	location *time.Location
	bom      bool
}

// NewRenderer formats order dates in loc (UTC when nil).
func NewRenderer(loc *time.Location) Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return Renderer{location: loc, bom: true}
}

func (r Renderer) Render(w io.Writer, orders []*order.Order) error {
	if r.bom {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(getHeader()); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write(r.row(o)); err != nil {
			return fmt.Errorf("order %s: %w", o.ID().String(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r Renderer) row(o *order.Order) []string {
	var name, email string
	if c := o.Customer(); c != nil {
		name = c.FullName()
		email = c.Email()
	}

	var stockDate string
	if d, ok := o.StockAvailableDate(); ok {
		stockDate = d.Format(order.StockAvailableDateLayout)
	}

	var total, currency string
	if !o.Total().IsZero() {
		total = o.Total().Amount().StringFixed(2)
		currency = o.Total().Currency()
	}

	var orderedAt string
	if !o.OrderedAt().IsZero() {
		orderedAt = o.OrderedAt().In(r.location).Format(dateLayout)
	}

	items, names, numbers := flattenItems(o.Items())

	return []string{
		o.ID().String(),
		orderedAt,
		name,
		email,
		items,
		names,
		numbers,
		total,
		currency,
		o.PaymentStatus().Label(),
		o.FulfillmentStatus().Label(),
		o.ProductionStatus().String(),
		o.ProductionStatusDisplay(),
		stockDate,
	}
}

// flattenItems returns "title (qty)" entries and the aligned personalization
// entries. A personalization cell stays empty when no item has a value.
func flattenItems(items []order.Item) (string, string, string) {
	lines := make([]string, 0, len(items))
	names := make([]string, 0, len(items))
	numbers := make([]string, 0, len(items))
	var anyName, anyNumber bool

	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s (%d)", item.Title(), item.Quantity()))

		n := item.CustomName()
		anyName = anyName || n != ""
		names = append(names, orEmptyCell(n))

		num := item.CustomNumber()
		anyNumber = anyNumber || num != ""
		numbers = append(numbers, orEmptyCell(num))
	}

	joinedNames, joinedNumbers := "", ""
	if anyName {
		joinedNames = strings.Join(names, itemSeparator)
	}
	if anyNumber {
		joinedNumbers = strings.Join(numbers, itemSeparator)
	}
	return strings.Join(lines, itemSeparator), joinedNames, joinedNumbers
}

func orEmptyCell(s string) string {
	if s == "" {
		return emptyCell
	}
	return s
}
