// Package pdf genera el informe de cumplimiento de certificaciones.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de cálculo │ Tasa global (%)         │
//	│  RESUMEN: instancias / cumplidas / cargos a revisar          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA CARGOS: Cargo | Depto | Empl. | Req. | Cumpl. | %     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PENDIENTES: Empleado | Cargo | Certificado | Estado | Días  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/Certificaciones-api/internal/application/compliance"
	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
)

var _ compliance.ReportRenderer = (*ComplianceReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorWarning = &props.Color{Red: 190, Green: 120, Blue: 0}
)

// ComplianceReportGenerator implementa compliance.ReportRenderer usando Maroto v2.
type ComplianceReportGenerator struct {
	organization string
}

// NewComplianceReportGenerator construye el generador. organization aparece como autor.
func NewComplianceReportGenerator(organization string) *ComplianceReportGenerator {
	return &ComplianceReportGenerator{organization: organization}
}

// RenderComplianceReport genera el PDF y devuelve sus bytes.
func (g *ComplianceReportGenerator) RenderComplianceReport(_ context.Context, report *dto.ComplianceResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de cumplimiento de certificaciones", true).
		WithAuthor(nonEmpty(g.organization, "Certificaciones"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("CUMPLIMIENTO POR CARGO"))
	m.AddRows(positionHeaderRow())
	m.AddRows(positionRows(report.Positions)...)

	pending := pendingRows(report.Requirements)
	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle(fmt.Sprintf("REQUISITOS PENDIENTES (%d)", len(pending))))
	if len(pending) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Todos los requisitos están cubiertos por un certificado vigente.", props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	} else {
		m.AddRows(pendingHeaderRow())
		m.AddRows(pending...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.ComplianceResponse) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("Informe de cumplimiento de certificaciones", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Calculado: "+r.ComputedAt.Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("TASA GLOBAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.RatePercent.StringFixed(2)+" %", props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Right, Top: 6, Color: rateColor(r.RatePercent.InexactFloat64()),
			}),
		),
	)
}

func summaryRow(r *dto.ComplianceResponse) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Instancias requeridas: %d   |   Cumplidas: %d   |   Cargos a revisar: %d",
			r.TotalInstances, r.CompliantInstances, len(r.NeedsAttention),
		), props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type, color *props.Color) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
	}))
}

func positionHeaderRow() core.Row {
	return row.New(6).Add(
		headerCol("Cargo", 4, align.Left),
		headerCol("Departamento", 3, align.Left),
		headerCol("Empl.", 1, align.Center),
		headerCol("Req.", 1, align.Center),
		headerCol("Cumpl.", 1, align.Center),
		headerCol("%", 2, align.Right),
	)
}

// positionRows una fila por cargo; los cargos sin instancias muestran "—".
func positionRows(positions []dto.PositionComplianceDTO) []core.Row {
	rows := make([]core.Row, 0, len(positions))
	for _, p := range positions {
		pct, color := "—", colorGray
		if p.Scored {
			pct = p.RatePercent.StringFixed(2) + " %"
			color = rateColor(p.RatePercent.InexactFloat64())
		}
		rows = append(rows, row.New(6).Add(
			cell(p.Title, 4, align.Left, nil),
			cell(nonEmpty(p.Department, "—"), 3, align.Left, colorGray),
			cell(strconv.Itoa(p.Employees), 1, align.Center, nil),
			cell(strconv.Itoa(p.Requirements), 1, align.Center, nil),
			cell(fmt.Sprintf("%d/%d", p.CompliantInstances, p.TotalInstances), 1, align.Center, nil),
			cell(pct, 2, align.Right, color),
		))
	}
	return rows
}

func pendingHeaderRow() core.Row {
	return row.New(6).Add(
		headerCol("Empleado", 3, align.Left),
		headerCol("Cargo", 3, align.Left),
		headerCol("Certificado", 3, align.Left),
		headerCol("Estado", 2, align.Left),
		headerCol("Días", 1, align.Right),
	)
}

// pendingRows requisitos no cumplidos: sin certificado o con el último vencido.
func pendingRows(reqs []dto.RequirementComplianceDTO) []core.Row {
	var rows []core.Row
	for _, r := range reqs {
		if r.IsCompliant {
			continue
		}
		status, days := "Sin certificado", "—"
		if r.MatchedCertificate != nil {
			status = r.MatchedCertificate.Status
		}
		if r.DaysUntilExpiration != nil {
			days = strconv.Itoa(*r.DaysUntilExpiration)
		}
		rows = append(rows, row.New(6).Add(
			cell(r.EmployeeName, 3, align.Left, nil),
			cell(r.PositionTitle, 3, align.Left, nil),
			cell(r.CertificateTypeName, 3, align.Left, nil),
			cell(status, 2, align.Left, colorDanger),
			cell(days, 1, align.Right, colorGray),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func rateColor(percent float64) *props.Color {
	switch {
	case percent >= 90:
		return colorPrimary
	case percent >= 60:
		return colorWarning
	default:
		return colorDanger
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
