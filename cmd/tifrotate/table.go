package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column is one table column. Numeric columns align right.
type column struct {
	title   string
	numeric bool
}

func col(title string) column { return column{title: title} }
func numCol(title string) column { return column{title: title, numeric: true} }

// grid is a rounded go-pretty table with an optional footer row.
type grid struct {
	columns []column
	rows    [][]string
	footer  []string
}

func newGrid(columns ...column) *grid {
	return &grid{columns: columns}
}

// add appends a row. Missing cells render empty; tool output spanning
// several lines is folded onto one so each job stays on one row.
func (g *grid) add(cells ...string) {
	row := make([]string, len(g.columns))
	for i := range row {
		if i < len(cells) {
			row[i] = foldLines(cells[i])
		}
	}
	g.rows = append(g.rows, row)
}

func (g *grid) setFooter(cells ...string) {
	g.footer = cells
}

func (g *grid) render() string {
	if len(g.columns) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(g.columns))
	configs := make([]table.ColumnConfig, len(g.columns))
	for i, c := range g.columns {
		header[i] = c.title
		align := text.AlignLeft
		if c.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft, AlignFooter: align}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range g.rows {
		tw.AppendRow(toRow(row, len(g.columns)))
	}
	if len(g.footer) > 0 {
		tw.AppendFooter(toRow(g.footer, len(g.columns)))
	}
	return tw.Render()
}

func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}

func foldLines(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "\n") {
		return s
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, " / ")
}
