// Package pdf implementa el kardex de un producto en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + categoría  │  KARDEX + fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Cantidad / Mínimo / Estado / Valor total          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cant. | Anterior | Nueva | Usuario   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el id del producto + total de movimientos   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

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

	appinv "github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var movementLabels = map[string]string{
	entity.MovementTypeStockIn:    "Entrada",
	entity.MovementTypeStockOut:   "Salida",
	entity.MovementTypeAdjustment: "Ajuste",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appinv.KardexPDFGenerator = (*MarotoKardexGenerator)(nil)

// MarotoKardexGenerator implementa inventory.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct {
	now func() time.Time
}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator {
	return &MarotoKardexGenerator{now: time.Now}
}

// GenerateKardexPDF genera el PDF y devuelve sus bytes. movements llega del más reciente al más antiguo.
func (g *MarotoKardexGenerator) GenerateKardexPDF(
	_ context.Context,
	product *entity.Product,
	movements []*entity.StockMovement,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+product.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(movements) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	m.AddRows(tableDetailRows(movements)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(product, len(movements)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(p *entity.Product, at time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(p.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Categoría: "+nonEmpty(p.Category, "Sin categoría"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow estado actual calculado en el momento de la emisión.
func summaryRow(p *entity.Product) core.Row {
	c := inventory.Classify(p)
	status := inventory.StatusOf(p)
	statusColor := colorPrimary
	if c.LowStock {
		statusColor = colorRed
	}
	cell := func(label, value string, valueColor *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Color: valueColor, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("CANTIDAD", strconv.Itoa(p.Quantity), nil),
		cell("STOCK MÍNIMO", strconv.Itoa(p.MinimumStock), nil),
		cell("ESTADO", status, statusColor),
		cell("VALOR TOTAL", "$"+formatMoney(c.TotalValue.StringFixed(2)), nil),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Left),
		h("Cant.", 1, align.Right),
		h("Anterior", 1, align.Right),
		h("Nueva", 1, align.Right),
		h("Motivo", 4, align.Left),
		h("Usuario", 2, align.Left),
	)
}

func tableDetailRows(movements []*entity.StockMovement) []core.Row {
	result := make([]core.Row, 0, len(movements))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	for _, mv := range movements {
		label, ok := movementLabels[mv.MovementType]
		if !ok {
			label = mv.MovementType
		}
		result = append(result, row.New(6).Add(
			cell(mv.Timestamp.Format("02/01/2006 15:04"), 2, align.Left),
			cell(label, 1, align.Left),
			cell(signedQuantity(mv), 1, align.Right),
			cell(strconv.Itoa(mv.PreviousQuantity), 1, align.Right),
			cell(strconv.Itoa(mv.NewQuantity), 1, align.Right),
			cell(truncate(mv.Reason, 60), 4, align.Left),
			cell(mv.Username, 2, align.Left),
		))
	}
	return result
}

func footerRow(p *entity.Product, count int) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr("kardex:"+p.ID, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(9).Add(
			text.New(fmt.Sprintf("Movimientos registrados: %d", count), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 4, Left: 3,
			}),
			text.New("Producto: "+p.ID, props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// signedQuantity muestra la variación con signo; el ajuste usa nueva - anterior.
func signedQuantity(mv *entity.StockMovement) string {
	switch mv.MovementType {
	case entity.MovementTypeStockIn:
		return "+" + strconv.Itoa(mv.Quantity)
	case entity.MovementTypeStockOut:
		return "-" + strconv.Itoa(mv.Quantity)
	}
	d := mv.NewQuantity - mv.PreviousQuantity
	if d > 0 {
		return "+" + strconv.Itoa(d)
	}
	return strconv.Itoa(d)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en la parte entera y coma decimal.
// Ej: "25000.50" → "25.000,50", "1000000" → "1.000.000"
func formatMoney(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+len(frac)+1)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if hasFrac {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
