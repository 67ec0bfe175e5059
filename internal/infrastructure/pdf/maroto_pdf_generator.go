// Package pdf genera la representación imprimible de un pedido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa              │  N° Pedido + Fecha + Estado │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Tienda o lead + contacto   │  Vendedor            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | SKU | P.Unit | Total              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + notas                                              │
//	│  FOOTER: QR con el número de pedido / cancelación           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var printer = message.NewPrinter(language.English)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.OrderPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ ports.OrderPDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateOrderPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateOrderPDF(_ context.Context, order *entity.Order, company *entity.Company) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pedido "+order.OrderNumber, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(order)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(order))
	if order.Notes != nil {
		m.AddRows(notesRow(*order.Notes))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(order)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y número, fecha y estado (der).
func headerRow(order *entity.Order, company *entity.Company) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(company.Address, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PEDIDO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(order.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+order.PlacedAt.UTC().Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New("Estado: "+strings.ToUpper(string(order.Status)), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 16, Color: statusColor(order.Status),
			}),
		),
	)
}

// customerRow: tienda o lead de destino y vendedor que tomó el pedido.
func customerRow(order *entity.Order) core.Row {
	name := nonEmpty(order.ShopName, nonEmpty(order.LeadName, "Venta sin tienda asignada"))
	contact := fmt.Sprintf("Contacto: %s   |   Tel: %s",
		nonEmpty(order.ShopContactName, "—"), nonEmpty(order.ShopPhone, "—"))
	return row.New(18).Add(
		col.New(8).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(contact, props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(order.ShopAddress, props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("VENDEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(order.PlacedByName, "—"), props.Text{Size: 9, Align: align.Right, Top: 6}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("SKU", 2, align.Left),
		h("Precio unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// itemRows: una fila por línea; las notas de la línea van debajo del nombre.
func itemRows(order *entity.Order) []core.Row {
	rows := make([]core.Row, 0, len(order.Items))
	for _, it := range order.Items {
		height := 7.0
		name := []core.Component{text.New(it.ProductName, props.Text{Size: 8, Top: 1, Left: 1})}
		if it.Notes != nil {
			height = 11
			name = append(name, text.New(*it.Notes, props.Text{Size: 7, Top: 5, Left: 2, Color: colorGray}))
		}
		sku := "—"
		if it.ProductSKU != nil {
			sku = *it.ProductSKU
		}
		rows = append(rows, row.New(height).Add(
			col.New(1).Add(text.New(quantity(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(name...),
			col.New(2).Add(text.New(sku, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New(money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money(it.LineTotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// totalRow: total del pedido en su moneda.
func totalRow(order *entity.Order) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(order.CurrencyCode+" "+money(order.TotalAmount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func notesRow(notes string) core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New("Notas", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(notes, props.Text{Size: 8, Top: 5, Color: colorGray}),
	))
}

// footerRows: QR con el número de pedido y, si corresponde, los datos de la cancelación.
func footerRows(order *entity.Order) []core.Row {
	var rows []core.Row
	if order.Status == entity.OrderCancelled && order.CancelReason != nil {
		detail := "Motivo: " + *order.CancelReason
		if order.CancelNote != nil {
			detail += " (" + *order.CancelNote + ")"
		}
		rows = append(rows, row.New(12).Add(col.New(12).Add(
			text.New("PEDIDO CANCELADO", props.Text{Style: fontstyle.Bold, Size: 9, Color: colorDanger, Top: 1}),
			text.New(detail, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)))
	}
	rows = append(rows, row.New(30).Add(
		col.New(3).Add(code.NewQr(order.OrderNumber, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New(fmt.Sprintf("%d línea(s)", len(order.Items)), props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Documento interno de pedido. No constituye factura.", props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusColor(s entity.OrderStatus) *props.Color {
	if s == entity.OrderCancelled {
		return colorDanger
	}
	return colorPrimary
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separador de miles y dos decimales. Ej: 1234.5 → "1,234.50".
func money(d decimal.Decimal) string {
	return printer.Sprintf("%v", number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// quantity sin decimales cuando es entera.
func quantity(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.String()
	}
	return d.StringFixed(3)
}
