// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package view

import (
	"context"
	"strconv"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/model1"
	"github.com/gridbind/gridbind/internal/ui"
)

var schemaHeader = model1.Header{
	{Name: "NAME", Col: 0},
	{Name: "FIELD", Col: 1},
	{Name: "KIND", Col: 2},
	{Name: "ALIGN", Col: 3},
	{Name: "WIDTH", Col: 4, Attrs: model1.Attrs{Align: tview.AlignRight, Number: true}},
	{Name: "READONLY", Col: 5, Attrs: model1.Attrs{Bool: true}},
	{Name: "VISIBLE", Col: 6, Attrs: model1.Attrs{Bool: true}},
	{Name: "ORDER", Col: 7, Attrs: model1.Attrs{Align: tview.AlignRight, Number: true}},
}

// SchemaData lists the column styles of g, one row per column.
func SchemaData(g *grid.DataGrid) *model1.TableData {
	data := model1.NewTableData()
	data.SetHeader(schemaHeader.Clone())
	data.SetName(g.TableStyle().MappingName())

	re := model1.NewRowEvents(g.ColumnCount())
	for i, c := range g.Columns() {
		order, visible := i, true
		if v, ok := g.View().At(i); ok {
			order, visible = v.DisplayIndex(), v.Visible()
		}
		row := model1.NewRow(len(schemaHeader))
		row.ID = strconv.Itoa(i)
		row.Fields = model1.Fields{
			c.HeaderText(),
			c.MappingName(),
			kindName(c.Kind()),
			c.Alignment().String(),
			strconv.Itoa(c.Width()),
			strconv.FormatBool(c.ReadOnly()),
			strconv.FormatBool(visible),
			strconv.Itoa(order),
		}
		re.Add(model1.NewRowEvent(model1.EventUnchanged, row))
	}
	data.SetRowEvents(re)

	return data
}

func kindName(k grid.Kind) string {
	if k == grid.KindBool {
		return "bool"
	}
	return "text"
}

// Schema lists the columns of a grid.
type Schema struct {
	*Table

	grid *grid.DataGrid
}

// NewSchema returns a schema view over g.
func NewSchema(app *App, g *grid.DataGrid) *Schema {
	return &Schema{
		Table: NewTable(app, "schema"),
		grid:  g,
	}
}

// Init initializes the schema view.
func (s *Schema) Init(ctx context.Context) error {
	if err := s.Table.Init(ctx); err != nil {
		return err
	}
	s.Actions().Bulk(ui.KeyMap{
		tcell.KeyEsc: ui.NewKeyAction("Back", s.backCmd, true),
		ui.KeyQ:      ui.NewSharedKeyAction("Back", s.backCmd, false),
	})

	return nil
}

// Start renders the column list.
func (s *Schema) Start() {
	s.UpdateUI(SchemaData(s.grid))
}

func (s *Schema) backCmd(*tcell.EventKey) *tcell.EventKey {
	s.app.Pop()
	return nil
}
