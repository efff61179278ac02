// Package pdf implementa la generación del acta de traspaso: constancia
// imprimible del lote movido entre almacenes y de su recepción por artículo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Acta de Traspaso  │  Folio + Fecha                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RUTA: Almacén origen → Almacén destino (o gabinete)         │
//	│  ESTADO: pendiente / completado / cancelado + responsables   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Unidad | Cant | Condición | Recibido | Notas     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: total enviado / recibido / faltante                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	apptransfer "github.com/rtrejos/almacen-api/internal/application/transfer"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa transfer.ActaGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ apptransfer.ActaGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateActa genera el acta del traspaso y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateActa(_ context.Context, data apptransfer.ActaData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de Traspaso "+data.Transfer.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data.Transfer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(routeRow(data))
	m.AddRows(statusRow(data.Transfer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de detalles
	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(data.Transfer.Details) {
		m.AddRows(r)
	}

	// Resumen
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(data.Transfer))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar acta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del acta (izq) y folio + fecha (der).
func headerRow(transfer *entity.WarehouseTransfer) core.Row {
	fecha := transfer.CreatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("ACTA DE TRASPASO DE ALMACÉN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tipo: "+transferTypeLabel(transfer.TransferType), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(transfer.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// routeRow: origen → destino (o gabinete en traspasos internos).
func routeRow(data apptransfer.ActaData) core.Row {
	destination := warehouseLabel(data.Destination)
	if data.Transfer.CabinetID != nil {
		destination = fmt.Sprintf("%s / gabinete %s", destination, *data.Transfer.CabinetID)
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("RUTA DEL TRASPASO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Origen: %s   |   Destino: %s",
				warehouseLabel(data.Source), destination,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// statusRow: estado actual y responsables.
func statusRow(transfer *entity.WarehouseTransfer) core.Row {
	completed := "—"
	if transfer.CompletedBy != nil && transfer.CompletedAt != nil {
		completed = fmt.Sprintf("%s (%s)", *transfer.CompletedBy, transfer.CompletedAt.Format("02/01/2006 15:04"))
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ESTADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Estado: %s   |   Creado por: %s   |   Completado por: %s",
				statusLabel(transfer.Status), transfer.CreatedBy, completed,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Unidad", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Condición", 2, align.Left),
		h("Recibido", 2, align.Center),
		h("Notas", 2, align.Left),
	)
}

// tableDetailRows: una fila por unidad del traspaso.
func tableDetailRows(details []entity.WarehouseTransferDetail) []core.Row {
	result := make([]core.Row, 0, len(details))
	for i, d := range details {
		received := "NO"
		if d.IsReceived {
			received = "SÍ"
			if d.ReceivedAt != nil {
				received = "SÍ " + d.ReceivedAt.Format("02/01")
			}
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", i+1),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				d.StockUnitID,
				props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", d.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(d.Condition, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				received,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(d.Notes, "—"),
				props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1},
			)),
		))
	}
	return result
}

// summaryRow: totales del lote.
func summaryRow(transfer *entity.WarehouseTransfer) core.Row {
	received := 0
	for _, d := range transfer.Details {
		if d.IsReceived {
			received++
		}
	}
	missing := len(transfer.Details) - received

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	return row.New(20).Add(
		col.New(4),
		col.New(4).Add(
			label("Unidades enviadas:"),
			label("Unidades recibidas:"),
			label("Faltantes:"),
		),
		col.New(4).Add(
			value(fmt.Sprintf("%d", len(transfer.Details))),
			value(fmt.Sprintf("%d", received)),
			value(fmt.Sprintf("%d", missing)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func warehouseLabel(w *entity.Warehouse) string {
	if w == nil {
		return "—"
	}
	return fmt.Sprintf("%s (%s)", w.Name, w.Code)
}

func transferTypeLabel(t string) string {
	switch t {
	case entity.TransferTypeExternal:
		return "entre almacenes"
	case entity.TransferTypeInternal:
		return "interno (a gabinete)"
	}
	return t
}

func statusLabel(s entity.TransferStatus) string {
	switch s {
	case entity.TransferPending:
		return "PENDIENTE"
	case entity.TransferCompleted:
		return "COMPLETADO"
	case entity.TransferCancelled:
		return "CANCELADO"
	}
	return string(s)
}
