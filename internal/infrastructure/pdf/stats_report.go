// Package pdf genera el informe de estadísticas de testimonios por organización.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del informe        │  Fecha de generación   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Organización | Total | E | A | R | P | B | O | Prom. │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: suma de todas las organizaciones                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/ports"
)

var _ ports.StatsReportRenderer = (*StatsReport)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StatsReport implementa ports.StatsReportRenderer usando Maroto v2.
type StatsReport struct {
	author string
	now    func() time.Time
}

// NewStatsReport construye el generador. author queda en los metadatos del PDF.
func NewStatsReport(author string) *StatsReport {
	return &StatsReport{author: author, now: time.Now}
}

// RenderStats genera el PDF y devuelve sus bytes.
func (g *StatsReport) RenderStats(ctx context.Context, title string, stats []dto.OrganizationStatsResponse) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(4))

	m.AddRows(tableHeaderRow())
	for i, s := range stats {
		m.AddRows(statsRow(s, i%2 == 1))
	}
	if len(stats) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin organizaciones para mostrar.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(stats))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

// columnas: nombre (5) + siete métricas de ancho 1.
var metricLabels = []string{"Total", "Espera", "Aprob.", "Rech.", "Publ.", "Ocult.", "Prom."}

func tableHeaderRow() core.Row {
	cols := []core.Col{
		col.New(5).Add(text.New("Organización", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 2, Left: 1,
		})),
	}
	for _, l := range metricLabels {
		cols = append(cols, col.New(1).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center, Color: colorWhite, Top: 2,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func statsRow(s dto.OrganizationStatsResponse, striped bool) core.Row {
	values := []string{
		fmt.Sprint(s.Total), fmt.Sprint(s.Pending), fmt.Sprint(s.Approved), fmt.Sprint(s.Rejected),
		fmt.Sprint(s.Published), fmt.Sprint(s.Hidden), s.AverageRating,
	}
	cols := []core.Col{
		col.New(5).Add(text.New(s.OrganizationName, props.Text{Size: 8, Top: 1.5, Left: 1})),
	}
	for _, v := range values {
		cols = append(cols, col.New(1).Add(text.New(v, props.Text{Size: 8, Align: align.Center, Top: 1.5})))
	}
	r := row.New(7).Add(cols...)
	if striped {
		r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

func totalsRow(stats []dto.OrganizationStatsResponse) core.Row {
	var total, pending, approved, rejected, published, hidden int
	for _, s := range stats {
		total += s.Total
		pending += s.Pending
		approved += s.Approved
		rejected += s.Rejected
		published += s.Published
		hidden += s.Hidden
	}
	bold := func(v int) core.Col {
		return col.New(1).Add(text.New(fmt.Sprint(v), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(9).Add(
		col.New(5).Add(text.New(fmt.Sprintf("TOTAL (%d organizaciones)", len(stats)), props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2, Left: 1,
		})),
		bold(total), bold(pending), bold(approved), bold(rejected), bold(published), bold(hidden),
		col.New(1),
	)
}
