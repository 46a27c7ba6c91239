// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/model1"
	"github.com/mattn/go-runewidth"
)

const (
	// TitleFmt formats the table title with list name and row count.
	TitleFmt = " <%s>[%d] "

	// FilterTitleFmt formats the title while a filter is set.
	FilterTitleFmt = " <%s>[%d] /%s "

	ascIndicator  = "↑"
	descIndicator = "↓"
	ellipsis      = "…"
)

// SelectFunc is called when the selected cell moves to a grid row and column.
type SelectFunc func(row, col int)

// Table renders a grid snapshot and maps the cell selection back to the grid.
type Table struct {
	*tview.Table

	name       string
	actions    *KeyActions
	model      Tabular
	colorerFn  model1.ColorerFunc
	palette    grid.Colors
	header     model1.Header
	fullData   *model1.TableData
	filterText string
	selectFn   SelectFunc
	rendering  bool
	mx         sync.RWMutex
}

// NewTable returns a new table instance.
func NewTable(name string) *Table {
	return &Table{
		Table:     tview.NewTable(),
		name:      name,
		actions:   NewKeyActions(),
		colorerFn: model1.DefaultColorer,
		palette:   grid.DefaultColors(),
	}
}

// Init initializes the table component.
func (t *Table) Init(context.Context) error {
	t.SetFixed(1, 0)
	t.SetBorder(true)
	t.SetBorderAttributes(tcell.AttrBold)
	t.SetBorderPadding(0, 0, 1, 1)
	t.SetSelectable(true, true)
	t.SetBackgroundColor(tcell.ColorDefault)
	t.SetBorderColor(tcell.ColorWhite)
	t.SetTitle(fmt.Sprintf(TitleFmt, t.name, 0))
	t.showMessage("Loading...", tcell.ColorGray, 0)
	t.SetInputCapture(t.keyboard)
	t.SetSelectionChangedFunc(t.selectionChanged)

	return nil
}

// Name returns the table name.
func (t *Table) Name() string {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.name
}

// SetName changes the table name.
func (t *Table) SetName(n string) {
	t.mx.Lock()
	t.name = n
	t.mx.Unlock()
	t.updateTitle()
}

// Actions returns the key actions.
func (t *Table) Actions() *KeyActions {
	return t.actions
}

// Hints returns menu hints for key bindings.
func (t *Table) Hints() MenuHints {
	return t.actions.Hints()
}

// SetColorerFn sets the row colorer.
func (t *Table) SetColorerFn(f model1.ColorerFunc) {
	t.mx.Lock()
	defer t.mx.Unlock()

	t.colorerFn = f
}

// SetPalette sets the header and background colors.
func (t *Table) SetPalette(c grid.Colors) {
	t.mx.Lock()
	t.palette = c
	t.mx.Unlock()

	t.SetBackgroundColor(AsColor(c.Back))
	t.SetSelectedStyle(tcell.StyleDefault.Background(AsColor(c.Selection)))
}

// SetSelectFn sets the selection callback.
func (t *Table) SetSelectFn(f SelectFunc) {
	t.mx.Lock()
	defer t.mx.Unlock()

	t.selectFn = f
}

// SetModel sets the table data model.
func (t *Table) SetModel(m Tabular) {
	t.mx.Lock()
	old := t.model
	t.model = m
	t.mx.Unlock()

	if old != nil {
		old.RemoveListener(t)
	}
	if m != nil {
		m.AddListener(t)
	}
}

// GetModel returns the current table model.
func (t *Table) GetModel() Tabular {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.model
}

// Header returns the rendered header.
func (t *Table) Header() model1.Header {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.header
}

// keyboard handles table keyboard input.
func (t *Table) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, col := t.GetSelection()
	rowCount, colCount := t.GetRowCount(), t.GetColumnCount()

	switch AsKey(evt) {
	case KeyJ, tcell.KeyDown:
		if row < rowCount-1 {
			t.Select(row+1, col)
		}
		return nil
	case KeyK, tcell.KeyUp:
		if row > 1 {
			t.Select(row-1, col)
		}
		return nil
	case KeyH, tcell.KeyLeft:
		if col > 0 {
			t.Select(row, col-1)
		}
		return nil
	case KeyL, tcell.KeyRight:
		if col < colCount-1 {
			t.Select(row, col+1)
		}
		return nil
	case KeyG, tcell.KeyHome:
		if rowCount > 1 {
			t.Select(1, col)
		}
		return nil
	case KeyShiftG, tcell.KeyEnd:
		if rowCount > 1 {
			t.Select(rowCount-1, col)
		}
		return nil
	}

	return t.actions.Handle(evt)
}

// SelectedCell returns the grid row and column of the selected cell.
func (t *Table) SelectedCell() (int, int, bool) {
	row, col := t.GetSelection()
	return t.gridCell(row, col)
}

func (t *Table) gridCell(row, col int) (int, int, bool) {
	if row < 1 {
		return -1, -1, false
	}
	c := t.GetCell(row, 0)
	if c == nil {
		return -1, -1, false
	}
	id, ok := c.GetReference().(string)
	if !ok {
		return -1, -1, false
	}
	r, err := strconv.Atoi(id)
	if err != nil {
		return -1, -1, false
	}

	t.mx.RLock()
	defer t.mx.RUnlock()
	if col < 0 || col >= len(t.header) {
		return r, -1, true
	}
	return r, t.header[col].Col, true
}

func (t *Table) selectionChanged(row, col int) {
	t.mx.RLock()
	fn, rendering := t.selectFn, t.rendering
	t.mx.RUnlock()
	if fn == nil || rendering {
		return
	}
	if r, c, ok := t.gridCell(row, col); ok {
		fn(r, c)
	}
}

// SetFilter narrows the rendered rows to the ones containing text.
func (t *Table) SetFilter(text string) {
	t.mx.Lock()
	t.filterText = text
	data := t.fullData
	t.mx.Unlock()

	if data != nil {
		t.UpdateUI(data)
	}
}

// ClearFilter removes the filter.
func (t *Table) ClearFilter() {
	t.SetFilter("")
}

// Filter returns the current filter.
func (t *Table) Filter() string {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.filterText
}

func filtered(data *model1.TableData, filter string) *model1.RowEvents {
	all := data.RowEvents()
	if filter == "" {
		return all
	}
	filter = strings.ToLower(filter)
	out := model1.NewRowEvents(all.Len())
	all.Range(func(_ int, re model1.RowEvent) bool {
		for _, field := range re.Row.Fields {
			if strings.Contains(strings.ToLower(field), filter) {
				out.Add(re)
				break
			}
		}
		return true
	})

	return out
}

// UpdateUI renders a snapshot.
func (t *Table) UpdateUI(data *model1.TableData) {
	t.mx.Lock()
	t.fullData = data
	filter := t.filterText
	t.rendering = true
	t.mx.Unlock()

	defer func() {
		t.mx.Lock()
		t.rendering = false
		t.mx.Unlock()
	}()

	if data == nil {
		t.showMessage("No data", tcell.ColorGray, 0)
		t.updateTitle()
		return
	}
	if data.HasError() {
		t.showMessage(data.Error(), tcell.ColorRed, 0)
		t.updateTitle()
		return
	}

	_, selCol := t.GetSelection()
	t.Clear()
	header := data.Header()
	t.buildHeader(header, data)

	events := filtered(data, filter)
	selRow := -1
	events.Range(func(i int, re model1.RowEvent) bool {
		t.buildRow(&re, header, i+1)
		if re.Row.ID == strconv.Itoa(data.Current()) {
			selRow = i + 1
		}
		return true
	})

	if events.Empty() {
		msg := "No rows"
		if filter != "" {
			msg = "No matching rows"
		}
		t.showMessage(msg, tcell.ColorGray, 1)
	}
	if selRow < 0 && t.GetRowCount() > 1 {
		selRow = 1
	}
	if selCol >= len(header) {
		selCol = len(header) - 1
	}
	if selRow > 0 {
		t.Select(selRow, max(selCol, 0))
	}
	t.updateTitle()
}

// buildHeader builds the table header row.
func (t *Table) buildHeader(header model1.Header, data *model1.TableData) {
	t.mx.Lock()
	t.header = header
	pal := t.palette
	t.mx.Unlock()

	sortCol, desc := data.Sort()
	for col, h := range header {
		text := h.Name
		if h.Col == sortCol {
			if desc {
				text += descIndicator
			} else {
				text += ascIndicator
			}
		}
		cell := tview.NewTableCell(text)
		cell.SetTextColor(AsColor(pal.Header))
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAttributes(tcell.AttrBold)
		cell.SetAlign(h.Align)
		cell.SetExpansion(1)
		cell.SetSelectable(false)
		t.SetCell(0, col, cell)
	}
}

// buildRow builds a single data row.
func (t *Table) buildRow(re *model1.RowEvent, header model1.Header, rowIdx int) {
	t.mx.RLock()
	colorer, pal := t.colorerFn, t.palette
	t.mx.RUnlock()

	fg := AsColor(colorer(header, re))
	bg := AsColor(pal.Back)
	if rowIdx%2 == 0 {
		bg = AsColor(pal.AlternatingBack)
	}
	for col, field := range re.Row.Fields {
		if col >= len(header) {
			break
		}
		h := header[col]
		if h.Decorator != nil {
			field = h.Decorator(field)
		}
		if h.Width > 0 {
			field = runewidth.Truncate(field, h.Width, ellipsis)
		}

		cell := tview.NewTableCell(field)
		cell.SetTextColor(fg)
		cell.SetBackgroundColor(bg)
		cell.SetAlign(h.Align)
		cell.SetExpansion(1)
		if re.Deltas.Changed(col) {
			cell.SetAttributes(tcell.AttrBold)
		}
		if col == 0 {
			cell.SetReference(re.Row.ID)
		}
		t.SetCell(rowIdx, col, cell)
	}
}

// showMessage displays a centered message at row, clearing the table when
// row is the header row.
func (t *Table) showMessage(msg string, color tcell.Color, row int) {
	if row == 0 {
		t.Clear()
	}
	cell := tview.NewTableCell(msg)
	cell.SetTextColor(color)
	cell.SetAlign(tview.AlignCenter)
	cell.SetSelectable(false)
	t.SetCell(row, 0, cell)
}

// updateTitle updates the title with list name, count and filter.
func (t *Table) updateTitle() {
	t.mx.RLock()
	name, filter, data := t.name, t.filterText, t.fullData
	t.mx.RUnlock()

	count := 0
	if data != nil {
		count = filtered(data, filter).Len()
	}
	if filter != "" {
		t.SetTitle(fmt.Sprintf(FilterTitleFmt, name, count, filter))
		return
	}
	t.SetTitle(fmt.Sprintf(TitleFmt, name, count))
}

// TableDataChanged implements model.TableListener.
func (t *Table) TableDataChanged(data *model1.TableData) {
	t.UpdateUI(data)
}

// TableNoData implements model.TableListener.
func (t *Table) TableNoData(data *model1.TableData) {
	t.UpdateUI(data)
}

// TableLoadFailed implements model.TableListener.
func (t *Table) TableLoadFailed(err error) {
	data := model1.NewTableData()
	data.SetError(err.Error())
	t.UpdateUI(data)
}

// TableEditFailed implements model.TableListener.
func (*Table) TableEditFailed(error) {}
