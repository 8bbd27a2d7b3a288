package invoicedoc

import (
	"fmt"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	royalBlue = &props.Color{Red: 65, Green: 105, Blue: 225}
	gainsboro = &props.Color{Red: 220, Green: 220, Blue: 220}
	lightGrey = &props.Color{Red: 211, Green: 211, Blue: 211}
	yellow    = &props.Color{Red: 255, Green: 255, Blue: 0}
	red       = &props.Color{Red: 255, Green: 0, Blue: 0}
	white     = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const lineHeight = 5

// Renderer writes Letter-size invoice PDFs.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Document lays out inv and renders it, returning the download filename and the full PDF.
func (r *Renderer) Document(inv *models.Invoice) (string, []byte, error) {
	sheet, err := Layout(inv)
	if err != nil {
		return "", nil, err
	}
	body, err := r.Render(sheet)
	if err != nil {
		return "", nil, err
	}
	return sheet.Filename, body, nil
}

// Render produces the whole document or an error, never a partial file.
func (r *Renderer) Render(s Sheet) ([]byte, error) {
	doc, err := build(s).Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func build(s Sheet) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRows(header(s)...)
	m.AddRows(row.New(8))
	m.AddRows(billedTo(s)...)
	m.AddRows(row.New(10))
	m.AddRows(items(s)...)
	m.AddRows(row.New(10))
	m.AddRows(footer(s)...)
	return m
}

func header(s Sheet) []core.Row {
	left := []string{s.CompanyName, s.CompanyAddress, s.CompanyContact}
	right := []string{"INVOICE", s.Number, "Issue Date: " + s.IssueDate, "Due Date: " + s.DueDate}
	rows := make([]core.Row, 0, len(right))
	for i := range right {
		l := ""
		if i < len(left) {
			l = left[i]
		}
		rows = append(rows, row.New(lineHeight).Add(
			text.NewCol(6, l, props.Text{Style: boldIf(i == 0)}),
			text.NewCol(6, right[i], props.Text{Style: boldIf(i == 0), Align: align.Right}),
		))
	}
	return rows
}

func billedTo(s Sheet) []core.Row {
	box := &props.Cell{BorderType: border.Full, BorderColor: lightGrey, BorderThickness: 0.25}
	heading := row.New(8).Add(
		col.New(6).Add(text.New("BILLED TO:", props.Text{Style: fontstyle.Bold, Size: 10, Top: 2, Left: 2})).WithStyle(box),
		col.New(6).Add(text.New("PROJECT DETAILS:", props.Text{Style: fontstyle.Bold, Size: 10, Top: 2, Left: 2})).WithStyle(box),
	).WithStyle(&props.Cell{BackgroundColor: gainsboro})

	left := []string{s.ClientName, s.ClientCompany, s.ClientEmail}
	right := []string{"Project: " + s.ProjectTitle, "Status: " + s.Status, ""}
	rows := []core.Row{heading}
	for i := range left {
		sides := &props.Cell{BorderType: border.Left | border.Right, BorderColor: lightGrey, BorderThickness: 0.25}
		if i == len(left)-1 {
			sides.BorderType |= border.Bottom
		}
		pad := props.Text{Style: boldIf(i == 0), Top: 1, Bottom: 1, Left: 2, Right: 2}
		rows = append(rows, row.New().Add(
			col.New(6).Add(text.New(left[i], pad)).WithStyle(sides),
			detailCol(right[i], withStyle(pad, fontstyle.Normal)).WithStyle(sides),
		))
	}
	return rows
}

func detailCol(value string, p props.Text) core.Col {
	if value == "" {
		return col.New(6)
	}
	return col.New(6).Add(text.New(value, p))
}

func items(s Sheet) []core.Row {
	grid := &props.Cell{BorderType: border.Full, BorderThickness: 0.5}
	head := props.Text{Style: fontstyle.Bold, Color: white, Top: 2, Left: 1, Right: 1}
	rows := []core.Row{
		row.New(8).Add(
			col.New(6).Add(text.New("DESCRIPTION", head)).WithStyle(grid),
			col.New(1).Add(text.New("QTY", withAlign(head, align.Right))).WithStyle(grid),
			col.New(3).Add(text.New("UNIT PRICE", withAlign(head, align.Right))).WithStyle(grid),
			col.New(2).Add(text.New("AMOUNT", withAlign(head, align.Right))).WithStyle(grid),
		).WithStyle(&props.Cell{BackgroundColor: royalBlue}),
	}
	cell := props.Text{Top: 2, Bottom: 2, Left: 1, Right: 1}
	for _, it := range s.Items {
		// auto height: descriptions are unbounded
		rows = append(rows, row.New().Add(
			col.New(6).Add(text.New(it.Description, cell)).WithStyle(grid),
			col.New(1).Add(text.New(it.Quantity, withAlign(cell, align.Right))).WithStyle(grid),
			col.New(3).Add(text.New(it.UnitPrice, withAlign(cell, align.Right))).WithStyle(grid),
			col.New(2).Add(text.New(it.Amount, withAlign(cell, align.Right))).WithStyle(grid),
		))
	}
	total := props.Text{Style: fontstyle.Bold, Align: align.Right, Top: 2, Right: 1}
	highlight := &props.Cell{BackgroundColor: yellow, BorderType: border.Bottom, BorderThickness: 1}
	rows = append(rows, row.New(8).Add(
		col.New(7),
		col.New(3).Add(text.New("TOTAL:", total)).WithStyle(highlight),
		col.New(2).Add(text.New(s.Total, total)).WithStyle(highlight),
	))
	return rows
}

func footer(s Sheet) []core.Row {
	return []core.Row{
		row.New().Add(
			col.New(12).Add(text.New("Notes: "+s.Notes, props.Text{Bottom: lineHeight})),
		),
		row.New(lineHeight * 2).Add(
			text.NewCol(3, "Current Status:", props.Text{Style: fontstyle.Bold}),
			text.NewCol(9, s.Status, props.Text{Style: fontstyle.Bold, Color: red}),
		),
	}
}

func boldIf(b bool) fontstyle.Type {
	if b {
		return fontstyle.Bold
	}
	return fontstyle.Normal
}

func withStyle(p props.Text, st fontstyle.Type) props.Text {
	p.Style = st
	return p
}

func withAlign(p props.Text, a align.Type) props.Text {
	p.Align = a
	return p
}
