// Package pdf implementa la generación de documentos impresos de ventanilla:
// el recibo de pago y el certificado de Paz y Salvo municipal.
//
// Layout del recibo (A5 apaisado en ventanilla se imprime A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Municipio + RUC  │  N° Recibo + Fecha/Hora          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTRIBUYENTE: Nombre + cédula/RUC + N° contribuyente      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: Impuesto | Período/Placa | Monto                   │
//	│  TOTAL PAGADO + método + cajero                              │
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
	mentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 13, Green: 71, Blue: 46}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Municipio identifica al emisor en los documentos.
type Municipio struct {
	Name     string
	District string
	RUC      string
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera los documentos de ventanilla usando Maroto v2.
type MarotoPDFGenerator struct {
	municipio Municipio
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(m Municipio) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{municipio: m}
}

// GenerateReceipt genera el recibo de un pago y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceipt(
	_ context.Context,
	tx *entity.Transaction,
	tp *entity.Taxpayer,
) ([]byte, error) {
	m := maroto.New(g.baseConfig("Recibo de Pago Municipal"))

	m.AddRows(g.headerRow("RECIBO DE PAGO", shortID(tx.ID), tx.Date.Format("02/01/2006")+" "+tx.Time))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(taxpayerRow(tp))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(receiptDetailRows(tx)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(receiptTotalRow(tx))

	if tx.Status == entity.TransactionAnulado {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("*** TRANSACCIÓN ANULADA ***", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 2,
			}),
		)))
	}

	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Conserve este recibo como constancia de pago ante la Tesorería Municipal.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// GeneratePazYSalvo genera el certificado de Paz y Salvo. El llamador ya
// verificó que el contribuyente no mantiene deudas.
func (g *MarotoPDFGenerator) GeneratePazYSalvo(
	_ context.Context,
	tp *entity.Taxpayer,
	certNumber string,
	issued string,
) ([]byte, error) {
	m := maroto.New(g.baseConfig("Certificado de Paz y Salvo"))

	m.AddRows(g.headerRow("PAZ Y SALVO MUNICIPAL", certNumber, issued))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(line.NewRow(4))

	m.AddRows(row.New(40).Add(col.New(12).Add(
		text.New("LA TESORERÍA MUNICIPAL CERTIFICA QUE:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary, Top: 2,
		}),
		text.New(tp.Name, props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Center, Top: 12,
		}),
		text.New(docLine(tp), props.Text{
			Size: 9, Align: align.Center, Top: 22, Color: colorGray,
		}),
		text.New("se encuentra PAZ Y SALVO con el tesoro municipal por todo concepto "+
			"de impuestos, tasas y contribuciones a la fecha de emisión.", props.Text{
			Size: 9, Align: align.Center, Top: 30,
		}),
	)))

	m.AddRows(line.NewRow(6))
	m.AddRows(row.New(30).Add(
		col.New(4).Add(code.NewQr("pazysalvo:"+certNumber+":"+tp.ID, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Válido por treinta (30) días calendario a partir de su emisión.", props.Text{
				Size: 8, Top: 6, Left: 3, Color: colorGray,
			}),
			text.New(g.municipio.Name+"\n"+g.municipio.District, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 16, Left: 3, Color: colorPrimary,
			}),
		),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar paz y salvo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) baseConfig(title string) *mentity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.municipio.Name, true).
		Build()
}

// headerRow: municipio + RUC (izq) y tipo de documento + número + fecha (der).
func (g *MarotoPDFGenerator) headerRow(docType, number, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.municipio.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(g.municipio.District, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
			text.New("RUC: "+nonEmpty(g.municipio.RUC, "—"), props.Text{
				Size: 8, Top: 13, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(docType, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// taxpayerRow: datos del contribuyente que paga.
func taxpayerRow(tp *entity.Taxpayer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CONTRIBUYENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(tp.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("%s   |   N° Contribuyente: %d", docLine(tp), tp.TaxpayerNumber),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// receiptDetailRows: concepto pagado con su período o placa.
func receiptDetailRows(tx *entity.Transaction) []core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	rows := []core.Row{
		row.New(8).Add(
			h("Impuesto", 4, align.Left),
			h("Período / Placa", 5, align.Left),
			h("Monto", 3, align.Right),
		),
	}
	rows = append(rows, row.New(7).Add(
		col.New(4).Add(text.New(taxLabel(tx.TaxType), props.Text{Size: 9, Top: 1})),
		col.New(5).Add(text.New(periodLabel(tx), props.Text{Size: 9, Top: 1})),
		col.New(3).Add(text.New("B/. "+tx.Amount.StringFixed(2), props.Text{
			Size: 9, Align: align.Right, Top: 1,
		})),
	))
	if tx.Description != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(tx.Description, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
		)))
	}
	return rows
}

// receiptTotalRow: total + método de pago + cajero.
func receiptTotalRow(tx *entity.Transaction) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("Método de pago: "+nonEmpty(tx.PaymentMethod, "EFECTIVO"), props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
			text.New("Cajero: "+nonEmpty(tx.TellerName, "—"), props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("TOTAL PAGADO", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2,
			}),
			text.New("B/. "+tx.Amount.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Right, Color: colorPrimary, Top: 8,
			}),
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

func docLine(tp *entity.Taxpayer) string {
	if tp.Type == entity.TaxpayerJuridica {
		return "RUC: " + tp.DocID
	}
	return "Cédula: " + tp.DocID
}

func taxLabel(t entity.TaxType) string {
	switch t {
	case entity.TaxVehiculo:
		return "Placa vehicular"
	case entity.TaxConstruccion:
		return "Permiso de construcción"
	case entity.TaxBasura:
		return "Recolección de basura"
	case entity.TaxComercio:
		return "Impuesto de comercio"
	default:
		return string(t)
	}
}

func periodLabel(tx *entity.Transaction) string {
	if tx.Metadata.PlateNumber != "" {
		return fmt.Sprintf("Placa %s · %d", tx.Metadata.PlateNumber, tx.Metadata.Year)
	}
	if tx.Metadata.Month >= 1 && tx.Metadata.Month <= 12 {
		return fmt.Sprintf("%02d/%d", tx.Metadata.Month, tx.Metadata.Year)
	}
	return tx.Date.Format("01/2006")
}

// shortID acorta un UUID a su primer bloque para numerar el recibo.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	return strings.ToUpper(id)
}
