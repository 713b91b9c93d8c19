// Package pdf genera los documentos imprimibles del inventario con Maroto v2.
//
// Recibo de lote (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Proveedor + código visual │ Lote + fecha            │
//	│  Sucursal destino                                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Cant. | Costo unit. | Subtotal      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DEL LOTE                                              │
//	└─────────────────────────────────────────────────────────────┘
//
// Etiqueta de producto: nombre, SKU, precio y código de barras EAN-13 (o Code128 del SKU).
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
	"github.com/johnfercher/maroto/v2/pkg/consts/barcode"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ ports.DocumentGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa ports.DocumentGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// BatchReceiptPDF genera el recibo del lote con todas sus líneas (incluidas las fusionadas).
func (g *MarotoPDFGenerator) BatchReceiptPDF(_ context.Context, receipt *ports.BatchReceipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de lote "+receipt.Batch.BatchCode, true).
		WithAuthor(receipt.Provider.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(receiptHeaderRow(receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(branchRow(receipt.Branch, receipt.Batch.BranchID))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(receipt.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(receipt.Batch.TotalCost))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ProductLabelPDF genera una etiqueta de 60×40 mm. Sin EAN-13 se imprime el SKU en Code128.
func (g *MarotoPDFGenerator) ProductLabelPDF(_ context.Context, product *entity.Product, provider *entity.Provider) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(60, 40).
		WithLeftMargin(3).WithRightMargin(3).
		WithTopMargin(3).WithBottomMargin(2).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle("Etiqueta "+product.SKU, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(5).Add(col.New(12).Add(
		text.New(truncate(product.Name, 34), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center}),
	)))
	m.AddRows(row.New(4).Add(
		col.New(6).Add(text.New(product.SKU, props.Text{Size: 7, Color: colorGray})),
		col.New(6).Add(text.New(provider.VisualCode, props.Text{Size: 7, Align: align.Right, Color: colorGray})),
	))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("$"+formatMoney(product.SalePrice), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: colorPrimary}),
	)))

	value, kind := product.Barcode, barcode.EAN
	if value == "" {
		value, kind = product.SKU, barcode.Code128
	}
	m.AddRows(row.New(14).Add(col.New(12).Add(
		code.NewBar(value, props.Barcode{Percent: 95, Center: true, Type: kind}),
	)))
	m.AddRows(row.New(4).Add(col.New(12).Add(
		text.New(value, props.Text{Size: 6, Align: align.Center}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// receiptHeaderRow: proveedor (izq) y lote + fecha (der).
func receiptHeaderRow(r *ports.BatchReceipt) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.Provider.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Proveedor "+r.Provider.VisualCode, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO DE MERCANCÍA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Lote "+r.Batch.BatchCode, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+r.Batch.ReceivedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func branchRow(b *entity.Branch, branchID string) core.Row {
	name, address := branchID, "—"
	if b != nil {
		name, address = b.Name, nonEmpty(b.Address, "—")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("SUCURSAL DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name+"   |   "+address, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Costo unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func tableLineRows(lines []ports.ReceiptLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(truncate(l.ProductName, 40), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Item.QuantityReceived), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New("$"+formatMoney(l.Item.UnitCost), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New("$"+formatMoney(l.Item.Subtotal()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL DEL LOTE:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal; omite los decimales si son cero.
// Ej: 25000 → "25.000", 1234.5 → "1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" && frac != "00" {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
