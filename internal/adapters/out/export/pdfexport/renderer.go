// Package pdfexport renders packing slips, one page per order.
package pdfexport

import (
	"fmt"
	"io"
	"time"

	"orderops/internal/core/domain/model/order"

	"github.com/go-pdf/fpdf"
)

const (
	dateLayout = "02/01/2006 15:04"

	slipTitle  = "Hoja de preparación"
	noCustomer = "Sin cliente"

	pageMargin = 15.0
	lineHeight = 7.0
)

// column widths in mm: title, quantity, custom name, custom number.
var itemColumns = [4]float64{90, 20, 40, 30}

// Renderer implements ports.OrderRenderer with A4 packing slips.
type Renderer struct {
	location *time.Location
}

// NewRenderer formats order dates in loc (UTC when nil).
func NewRenderer(loc *time.Location) Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return Renderer{location: loc}
}

func (r Renderer) Render(w io.Writer, orders []*order.Order) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+5)
	pdf.AliasNbPages("")
	pdf.SetTitle(slipTitle, true)

	// Core fonts are cp1252; names with accents must be translated.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	for _, o := range orders {
		r.renderOrder(pdf, tr, o)
	}
	if len(orders) == 0 {
		pdf.AddPage()
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func (r Renderer) renderOrder(pdf *fpdf.Fpdf, tr func(string) string, o *order.Order) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(heading(o)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	orderedAt := "-"
	if !o.OrderedAt().IsZero() {
		orderedAt = o.OrderedAt().In(r.location).Format(dateLayout)
	}
	status := fmt.Sprintf("%s / %s / %s",
		o.PaymentStatus().Label(),
		o.FulfillmentStatus().Label(),
		o.ProductionStatusDisplay(),
	)
	if d, ok := o.StockAvailableDate(); ok {
		status += " (" + d.Format("02/01/2006") + ")"
	}

	for _, field := range [][2]string{
		{"Pedido", o.ID().String()},
		{"Fecha", orderedAt},
		{"Cliente", customerLabel(o)},
		{"Estado", status},
	} {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(25, lineHeight, tr(field[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, lineHeight, tr(field[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range []string{"Artículo", "Cantidad", "Nombre", "Número"} {
		pdf.CellFormat(itemColumns[i], lineHeight, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range o.Items() {
		pdf.CellFormat(itemColumns[0], lineHeight, truncate(pdf, tr(item.Title()), itemColumns[0]-2), "1", 0, "L", false, 0, "")
		pdf.CellFormat(itemColumns[1], lineHeight, fmt.Sprintf("%d", item.Quantity()), "1", 0, "C", false, 0, "")
		pdf.CellFormat(itemColumns[2], lineHeight, tr(item.CustomName()), "1", 0, "L", false, 0, "")
		pdf.CellFormat(itemColumns[3], lineHeight, tr(item.CustomNumber()), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
}

func heading(o *order.Order) string {
	return fmt.Sprintf("%s #%s", slipTitle, o.ID().String())
}

// customerLabel is the customer display name, or noCustomer for orders
// placed without one.
func customerLabel(o *order.Order) string {
	if c := o.Customer(); c != nil {
		return c.DisplayName()
	}
	return noCustomer
}

// truncate shortens an already translated (single-byte) s until it fits
// width, marking the cut with "...".
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
