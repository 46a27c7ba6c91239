package ui_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/gridbind/gridbind/internal/model1"
	"github.com/gridbind/gridbind/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeData() *model1.TableData {
	d := model1.NewTableData()
	d.SetName("fruits")
	d.SetHeader(model1.Header{
		{Name: "NAME", Col: 0},
		{Name: "QTY", Col: 2, Attrs: model1.Attrs{Align: tview.AlignRight, Number: true}},
	})
	re := model1.NewRowEvents(3)
	for i, r := range [][]string{{"apple", "3"}, {"pear", "5"}, {"peach", "7"}} {
		re.Add(model1.NewRowEvent(model1.EventUnchanged, model1.Row{ID: strconv.Itoa(i), Fields: r}))
	}
	d.SetRowEvents(re)
	d.SetCurrent(1)

	return d
}

func newTable(t *testing.T) *ui.Table {
	t.Helper()

	tv := ui.NewTable("fruits")
	require.NoError(t, tv.Init(context.Background()))

	return tv
}

func TestTableUpdateUI(t *testing.T) {
	tv := newTable(t)
	tv.UpdateUI(makeData())

	assert.Equal(t, 4, tv.GetRowCount())
	assert.Equal(t, 2, tv.GetColumnCount())
	assert.Equal(t, "NAME", ui.TrimCell(tv.Table, 0, 0))
	assert.Equal(t, "pear", ui.TrimCell(tv.Table, 2, 0))
	assert.Equal(t, " <fruits>[3] ", tv.GetTitle())

	row, _ := tv.GetSelection()
	assert.Equal(t, 2, row)
}

func TestTableSortIndicator(t *testing.T) {
	tv := newTable(t)
	d := makeData()
	d.SetSort(2, true)
	tv.UpdateUI(d)

	assert.Equal(t, "NAME", ui.TrimCell(tv.Table, 0, 0))
	assert.Equal(t, "QTY↓", ui.TrimCell(tv.Table, 0, 1))
}

func TestTableSelectedCell(t *testing.T) {
	tv := newTable(t)
	tv.UpdateUI(makeData())

	tv.Select(3, 1)
	row, col, ok := tv.SelectedCell()
	assert.True(t, ok)
	assert.Equal(t, 2, row)
	assert.Equal(t, 2, col)
}

func TestTableSelectFn(t *testing.T) {
	tv := newTable(t)
	var got [][2]int
	tv.SetSelectFn(func(row, col int) {
		got = append(got, [2]int{row, col})
	})

	tv.UpdateUI(makeData())
	assert.Empty(t, got)

	tv.Select(1, 1)
	assert.Equal(t, [][2]int{{0, 2}}, got)
}

func TestTableFilter(t *testing.T) {
	tv := newTable(t)
	tv.UpdateUI(makeData())

	tv.SetFilter("PEA")
	assert.Equal(t, "PEA", tv.Filter())
	assert.Equal(t, 3, tv.GetRowCount())
	assert.Equal(t, " <fruits>[2] /PEA ", tv.GetTitle())

	row, col, ok := tv.SelectedCell()
	assert.True(t, ok)
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)

	tv.SetFilter("kiwi")
	assert.Equal(t, "No matching rows", ui.TrimCell(tv.Table, 1, 0))
	_, _, ok = tv.SelectedCell()
	assert.False(t, ok)

	tv.ClearFilter()
	assert.Equal(t, 4, tv.GetRowCount())
}

func TestTableLoadFailed(t *testing.T) {
	tv := newTable(t)
	tv.TableLoadFailed(errors.New("boom"))

	assert.Equal(t, 1, tv.GetRowCount())
	assert.Equal(t, "boom", ui.TrimCell(tv.Table, 0, 0))
	assert.Equal(t, tcell.ColorRed, tv.GetCell(0, 0).Color)
}

func TestTableRowColors(t *testing.T) {
	tv := newTable(t)
	d := makeData()
	re := d.RowEvents()
	pending, ok := re.At(0)
	require.True(t, ok)
	pending.Pending = true
	re.Set(0, pending)
	tv.UpdateUI(d)

	assert.Equal(t, ui.AsColor(model1.PendingColor), tv.GetCell(1, 0).Color)
	assert.Equal(t, ui.AsColor(model1.StdColor), tv.GetCell(2, 0).Color)
}

func TestTableKeyboard(t *testing.T) {
	tv := newTable(t)
	tv.UpdateUI(makeData())
	tv.Select(1, 0)

	var sorted bool
	tv.Actions().Add(ui.KeyS, ui.NewKeyAction("Sort", func(*tcell.EventKey) *tcell.EventKey {
		sorted = true
		return nil
	}, true))

	h := tv.GetInputCapture()
	assert.Nil(t, h(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone)))
	row, _ := tv.GetSelection()
	assert.Equal(t, 2, row)

	assert.Nil(t, h(tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModNone)))
	row, _ = tv.GetSelection()
	assert.Equal(t, 3, row)

	assert.Nil(t, h(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone)))
	_, col := tv.GetSelection()
	assert.Equal(t, 1, col)

	assert.Nil(t, h(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone)))
	assert.True(t, sorted)
	assert.Equal(t, []ui.MenuHint{{Mnemonic: "s", Description: "Sort", Visible: true}}, []ui.MenuHint(tv.Hints()))
}
