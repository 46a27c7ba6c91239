package ui_test

import (
	"testing"

	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/list"
	"github.com/gridbind/gridbind/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGrid(t *testing.T, readOnly bool) *grid.DataGrid {
	t.Helper()

	docs, err := list.NewDocuments("orders", [][]byte{
		[]byte(`{"sku": "b-2", "paid": false, "qty": 5}`),
		[]byte(`{"sku": "a-1", "paid": true, "qty": 3}`),
	})
	require.NoError(t, err)

	s := grid.DefaultSettings()
	s.ReadOnly = readOnly
	g := grid.NewDataGrid(grid.WithSettings(s))
	require.NoError(t, g.SetDataBinding(docs))

	return g
}

func TestGetActionsScope(t *testing.T) {
	names := func(aa []ui.GridAction) []string {
		nn := make([]string, 0, len(aa))
		for _, a := range aa {
			nn = append(nn, a.Name)
		}
		return nn
	}

	assert.Equal(t, []string{"Sort"}, names(ui.GetActions(newGrid(t, true))))
	assert.ElementsMatch(t,
		[]string{"Sort", "Add", "Undo", "Toggle", "Delete"},
		names(ui.GetActions(newGrid(t, false))),
	)
}

func TestGetAction(t *testing.T) {
	g := newGrid(t, true)

	assert.Nil(t, ui.GetAction(g, ui.KeyShiftD))
	a := ui.GetAction(g, ui.KeyS)
	require.NotNil(t, a)
	assert.Equal(t, "Sort", a.Name)

	a = ui.GetAction(newGrid(t, false), ui.KeyShiftD)
	require.NotNil(t, a)
	assert.True(t, a.Dangerous)
}

func TestSortAction(t *testing.T) {
	g := newGrid(t, true)
	col, ok := g.ColumnIndex("sku")
	require.True(t, ok)

	sort := ui.GetAction(g, ui.KeyS)
	require.NoError(t, sort.Handler(g, col))
	s, desc := g.SortState()
	assert.Equal(t, col, s)
	assert.False(t, desc)
	txt, err := g.CellText(0, col)
	require.NoError(t, err)
	assert.Equal(t, "a-1", txt)

	require.NoError(t, sort.Handler(g, col))
	_, desc = g.SortState()
	assert.True(t, desc)
}

func TestToggleAction(t *testing.T) {
	g := newGrid(t, false)
	paid, ok := g.ColumnIndex("paid")
	require.True(t, ok)
	toggle := ui.GetAction(g, ui.KeySpace)
	require.NotNil(t, toggle)

	require.NoError(t, toggle.Handler(g, paid))
	v, err := g.CellValue(0, paid)
	require.NoError(t, err)
	assert.Equal(t, true, v)
	_, editing := g.Editing()
	assert.False(t, editing)

	qty, ok := g.ColumnIndex("qty")
	require.True(t, ok)
	require.NoError(t, toggle.Handler(g, qty))
	v, err = g.CellValue(0, qty)
	require.NoError(t, err)
	assert.EqualValues(t, 5, v)
}

func TestAddDeleteActions(t *testing.T) {
	g := newGrid(t, false)

	require.NoError(t, ui.GetAction(g, ui.KeyA).Handler(g, 0))
	assert.Equal(t, 3, g.RowCount())

	require.NoError(t, ui.GetAction(g, ui.KeyU).Handler(g, 0))
	assert.Equal(t, 2, g.RowCount())

	require.NoError(t, ui.GetAction(g, ui.KeyShiftD).Handler(g, 0))
	assert.Equal(t, 1, g.RowCount())
}
